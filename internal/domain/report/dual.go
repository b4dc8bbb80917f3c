// Package report flattens resolved matches into dual-sided records: one row
// per match or residual carrying both ledgers' fields side by side. These
// tables are the output contract consumed by the workbook exporter and the
// divergence detector.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconlab/wba-recon/internal/domain/ledger"
	"github.com/reconlab/wba-recon/internal/domain/matcher"
)

// Side carries one ledger's fields for a dual record. Amounts are rounded to
// two decimals for presentation; everything else is copied verbatim from the
// owning record.
type Side struct {
	ID            int
	DebitAccount  string
	CreditAccount string
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
}

// DualRecord pairs a journal side with a WBA side. A residual row has nil on
// the side it was never matched against.
type DualRecord struct {
	Journal *Side
	WBA     *Side
}

// Table is one tier's flattened rows. An empty tier yields a Table with zero
// rows but the full column contract, so consumers never branch on "no rows".
type Table struct {
	Tier matcher.Tier
	Rows []DualRecord
}

// Columns is the fixed dual-record column set, journal block first.
func Columns() []string {
	return []string{
		"ID JOURNAL", "DEBIT JOURNAL", "CREDIT JOURNAL", "DATE JOURNAL", "AMOUNT JOURNAL", "DESC JOURNAL",
		"ID WBA", "DEBIT WBA", "CREDIT WBA", "DATE WBA", "AMOUNT WBA", "DESC WBA",
	}
}

func sideOf(rec ledger.Record) *Side {
	return &Side{
		ID:            rec.ID,
		DebitAccount:  rec.DebitAccount,
		CreditAccount: rec.CreditAccount,
		Date:          rec.Date,
		Amount:        rec.Amount.Round(2),
		Description:   rec.Description,
	}
}

// Flatten joins one tier's entries with the owning ledger records.
func Flatten(journal, wba *ledger.Ledger, tier matcher.Tier, entries []matcher.Candidate) Table {
	t := Table{Tier: tier, Rows: make([]DualRecord, 0, len(entries))}
	for _, e := range entries {
		var rec DualRecord
		if e.JournalID >= 0 && e.JournalID < journal.Len() {
			rec.Journal = sideOf(journal.Records[e.JournalID])
		}
		if e.WBAID >= 0 && e.WBAID < wba.Len() {
			rec.WBA = sideOf(wba.Records[e.WBAID])
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// Tables flattens every tier of a resolved set, including empty ones.
func Tables(journal, wba *ledger.Ledger, resolved matcher.ResolvedSet) map[matcher.Tier]Table {
	out := make(map[matcher.Tier]Table, len(matcher.AllTiers()))
	for _, tier := range matcher.AllTiers() {
		out[tier] = Flatten(journal, wba, tier, resolved[tier])
	}
	return out
}
