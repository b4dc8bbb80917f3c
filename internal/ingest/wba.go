package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/reconlab/wba-recon/internal/domain/ledger"
)

// wbaColumns maps logical fields to header substrings. Unlike the journal,
// the WBA feed always ships a header; an unmappable column is a hard error.
var wbaColumns = map[string][]string{
	"debit":  {"conta debito", "cta deb", "deb"},
	"credit": {"conta credito", "cta c part", "cta part", "cta cred", "cred"},
	"amount": {"vlr", "valor"},
	"date":   {"data"},
	"desc":   {"hist", "descr", "descricao"},
}

// WBA descriptions sometimes arrive as spreadsheet formulas ("=TARIFA...");
// the leading equals sign is noise.
var leadingEqualsRe = regexp.MustCompile(`^\s*=\s*`)

func wbaHeaderMap(header []string) (map[string]int, error) {
	m := make(map[string]int, len(wbaColumns))
	for field, candidates := range wbaColumns {
		i := findColumn(header, candidates)
		if i < 0 {
			return nil, fmt.Errorf("%w: missing %s column in header %v", ErrColumnMapping, field, header)
		}
		m[field] = i
	}
	return m, nil
}

// ReadWBA reads the settlement feed into a cleaned ledger.
func ReadWBA(r io.Reader, logger *slog.Logger) (*ledger.Ledger, error) {
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

	m, err := wbaHeaderMap(rows[0])
	if err != nil {
		return nil, err
	}

	raw := make([]ledger.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw = append(raw, ledger.RawRow{
			Date:          parseDate(cellAt(row, m["date"])),
			DebitAccount:  ledger.NormalizeAccount(cellAt(row, m["debit"])),
			CreditAccount: ledger.NormalizeAccount(cellAt(row, m["credit"])),
			Amount:        parseAmount(cellAt(row, m["amount"])),
			Description:   leadingEqualsRe.ReplaceAllString(cellAt(row, m["desc"]), ""),
		})
	}

	l := ledger.New(raw)
	logger.Info("wba ingested", "rows", l.Len(), "dropped", l.Dropped)
	return l, nil
}
