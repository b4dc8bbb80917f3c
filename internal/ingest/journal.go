package ingest

import (
	"io"
	"log/slog"
	"strings"

	"github.com/reconlab/wba-recon/internal/domain/ledger"
)

// journalColumns maps a logical field to the header substrings that identify
// its column, in priority order.
var journalColumns = map[string][]string{
	"date":   {"data"},
	"debit":  {"conta debito", "debito", "conta origem", "cta deb"},
	"credit": {"conta credito", "credito", "conta destino", "cta part", "cta c part"},
	"desc":   {"historico", "hist"},
	"amount": {"valor", "vlr"},
}

// positional layout of the Diário export when no usable header exists:
// A date, D debit account, F (else G) credit account, I description,
// N (else O) amount.
const (
	posJournalDate    = 0
	posJournalDebit   = 3
	posJournalCredit  = 5
	posJournalCredit2 = 6
	posJournalDesc    = 8
	posJournalAmount  = 13
	posJournalAmount2 = 14
)

// findColumn locates the first column whose normalized header contains one of
// the candidate substrings. Candidates are tried in priority order so
// "conta debito" beats a later plain "debito" column.
func findColumn(header []string, candidates []string) int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = ledger.NormalizeText(h)
	}
	for _, cand := range candidates {
		for i, h := range normalized {
			if h != "" && strings.Contains(h, cand) {
				return i
			}
		}
	}
	return -1
}

// journalHeaderMap resolves the journal's five logical columns from a header
// row. ok is false unless all five are found.
func journalHeaderMap(header []string) (map[string]int, bool) {
	m := make(map[string]int, len(journalColumns))
	for field, candidates := range journalColumns {
		i := findColumn(header, candidates)
		if i < 0 {
			return nil, false
		}
		m[field] = i
	}
	return m, true
}

// ReadJournal reads the accounting journal export into a cleaned ledger.
// Header-mapped parsing is preferred; when the header is unusable the fixed
// positional Diário layout is assumed and every row is treated as data.
func ReadJournal(r io.Reader, logger *slog.Logger) (*ledger.Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rows, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return ledger.New(nil), nil
	}

	var raw []ledger.RawRow
	if m, ok := journalHeaderMap(rows[0]); ok {
		logger.Debug("journal header detected", "columns", m)
		for _, row := range rows[1:] {
			raw = append(raw, journalRowMapped(row, m))
		}
	} else {
		logger.Debug("journal header not recognized, using positional layout")
		for _, row := range rows {
			raw = append(raw, journalRowPositional(row))
		}
	}

	l := ledger.New(raw)
	logger.Info("journal ingested", "rows", l.Len(), "dropped", l.Dropped)
	return l, nil
}

func journalRowMapped(row []string, m map[string]int) ledger.RawRow {
	return ledger.RawRow{
		Date:          parseDate(cellAt(row, m["date"])),
		DebitAccount:  ledger.NormalizeAccount(cellAt(row, m["debit"])),
		CreditAccount: ledger.NormalizeAccount(cellAt(row, m["credit"])),
		Amount:        parseAmount(cellAt(row, m["amount"])),
		Description:   cellAt(row, m["desc"]),
	}
}

func journalRowPositional(row []string) ledger.RawRow {
	credit := cellAt(row, posJournalCredit)
	if strings.TrimSpace(credit) == "" {
		credit = cellAt(row, posJournalCredit2)
	}
	amount := cellAt(row, posJournalAmount)
	if strings.TrimSpace(amount) == "" {
		amount = cellAt(row, posJournalAmount2)
	}
	return ledger.RawRow{
		Date:          parseDate(cellAt(row, posJournalDate)),
		DebitAccount:  ledger.NormalizeAccount(cellAt(row, posJournalDebit)),
		CreditAccount: ledger.NormalizeAccount(credit),
		Amount:        parseAmount(amount),
		Description:   cellAt(row, posJournalDesc),
	}
}
