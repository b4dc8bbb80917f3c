// Package ledger defines the normalized record model shared by both sides of
// a reconciliation run: the accounting journal export and the WBA settlement
// feed. Ingestion produces RawRows; New assigns dense positional IDs to the
// rows that survive cleaning. Records are immutable after that point and all
// downstream structures refer to them by ID.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one cleaned ledger row.
type Record struct {
	ID            int             // dense 0-based position, assigned once by New
	Date          time.Time       // calendar date, UTC midnight
	DebitAccount  string          // digit-only, non-empty
	CreditAccount string          // digit-only, non-empty
	Amount        decimal.Decimal // strictly positive
	AmountMinor   int64           // Amount in cents, used for all equality/tolerance checks
	Description   string
}

// AccountPair returns the unordered {debit, credit} pair as an ordered tuple.
// Two records describe the same account legs when their pairs are equal, even
// if one side encodes the event with debit and credit swapped.
func (r Record) AccountPair() AccountPair {
	return NewAccountPair(r.DebitAccount, r.CreditAccount)
}

// AccountPair is a canonical (lexicographically ordered) account pair,
// usable as a map key.
type AccountPair struct {
	Lo, Hi string
}

// NewAccountPair canonicalizes two account identifiers.
func NewAccountPair(a, b string) AccountPair {
	if a <= b {
		return AccountPair{Lo: a, Hi: b}
	}
	return AccountPair{Lo: b, Hi: a}
}

// RawRow is a parsed but not yet validated ledger line. Missing or
// unparseable fields are represented by nil / empty values.
type RawRow struct {
	Date          *time.Time
	DebitAccount  string
	CreditAccount string
	Amount        *decimal.Decimal
	Description   string
}

// valid reports whether the row carries every required field. Non-positive
// amounts are treated as unusable, matching the cleaning policy of the
// journal and WBA readers.
func (r RawRow) valid() bool {
	return r.Date != nil &&
		r.DebitAccount != "" &&
		r.CreditAccount != "" &&
		r.Amount != nil &&
		r.Amount.IsPositive()
}

// Ledger is an arena of cleaned records. Record IDs index into Records
// directly and form a gapless 0..N-1 range.
type Ledger struct {
	Records []Record
	Dropped int // raw rows discarded during cleaning
}

// New cleans raw rows and assigns IDs in surviving-row order. Invalid rows
// are silently dropped and counted; this is a filtering policy, not an error.
func New(rows []RawRow) *Ledger {
	l := &Ledger{Records: make([]Record, 0, len(rows))}
	for _, raw := range rows {
		if !raw.valid() {
			l.Dropped++
			continue
		}
		l.Records = append(l.Records, Record{
			ID:            len(l.Records),
			Date:          DateOnly(*raw.Date),
			DebitAccount:  raw.DebitAccount,
			CreditAccount: raw.CreditAccount,
			Amount:        *raw.Amount,
			AmountMinor:   MinorUnits(*raw.Amount),
			Description:   raw.Description,
		})
	}
	return l
}

// Len returns the number of usable records.
func (l *Ledger) Len() int { return len(l.Records) }

// MinorUnits converts a currency amount to integer cents, rounding half to
// even so that downstream comparisons never touch floating point.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).RoundBank(0).IntPart()
}

// DateOnly truncates a timestamp to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayDistance returns the absolute distance between two dates in whole days.
func DayDistance(a, b time.Time) int {
	d := DateOnly(a).Sub(DateOnly(b))
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}
