// Package divergence inspects the two residual tables for row pairs that
// share a unique date+amount key but disagree on at least one account leg.
// Such pairs almost certainly describe the same economic event booked against
// the wrong account, so they are pulled out of the unmatched sets and
// surfaced for manual review instead.
package divergence

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconlab/wba-recon/internal/domain/matcher"
	"github.com/reconlab/wba-recon/internal/domain/report"
)

// ErrBadResidualShape reports residual tables whose rows are missing their
// own side. Callers degrade to an empty divergence table and keep the
// residuals untouched.
var ErrBadResidualShape = errors.New("residual table has malformed rows")

// Pair is one divergent-account finding.
type Pair struct {
	Date        time.Time
	Amount      decimal.Decimal // rounded to 2 decimals, the grouping key
	Journal     report.Side
	WBA         report.Side
	DebitEqual  bool
	CreditEqual bool
}

type groupKey struct {
	date  int64
	minor int64 // cents of the 2-decimal rounded amount
}

func keyOf(s report.Side) groupKey {
	return groupKey{date: s.Date.Unix(), minor: s.Amount.Round(2).Shift(2).IntPart()}
}

// Detect pairs residual journal rows with residual WBA rows.
//
// Rows are grouped by (date, amount rounded to 2 decimals); only keys with
// exactly one row on each side survive. Ambiguous keys are skipped outright:
// with several candidates on a side the correct pairing cannot be inferred,
// and guessing would be worse than staying silent. Pairs where both legs
// agree are discarded as well, since such rows would already have matched in
// an earlier tier. Results are sorted by (date, amount, journal ID).
func Detect(onlyJournal, onlyWBA report.Table) ([]Pair, error) {
	if onlyJournal.Tier != matcher.TierOnlyJournal || onlyWBA.Tier != matcher.TierOnlyWBA {
		return nil, ErrBadResidualShape
	}

	journalGroups := make(map[groupKey][]report.Side)
	for _, r := range onlyJournal.Rows {
		if r.Journal == nil {
			return nil, ErrBadResidualShape
		}
		k := keyOf(*r.Journal)
		journalGroups[k] = append(journalGroups[k], *r.Journal)
	}
	wbaGroups := make(map[groupKey][]report.Side)
	for _, r := range onlyWBA.Rows {
		if r.WBA == nil {
			return nil, ErrBadResidualShape
		}
		k := keyOf(*r.WBA)
		wbaGroups[k] = append(wbaGroups[k], *r.WBA)
	}

	pairs := []Pair{}
	for k, js := range journalGroups {
		ws, ok := wbaGroups[k]
		if !ok || len(js) != 1 || len(ws) != 1 {
			continue
		}
		j, w := js[0], ws[0]
		debitEqual := j.DebitAccount == w.DebitAccount
		creditEqual := j.CreditAccount == w.CreditAccount
		if debitEqual && creditEqual {
			// Both legs agree: would have been a tier match already.
			continue
		}
		pairs = append(pairs, Pair{
			Date:        j.Date,
			Amount:      j.Amount.Round(2),
			Journal:     j,
			WBA:         w,
			DebitEqual:  debitEqual,
			CreditEqual: creditEqual,
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if !pairs[i].Date.Equal(pairs[j].Date) {
			return pairs[i].Date.Before(pairs[j].Date)
		}
		if !pairs[i].Amount.Equal(pairs[j].Amount) {
			return pairs[i].Amount.LessThan(pairs[j].Amount)
		}
		return pairs[i].Journal.ID < pairs[j].Journal.ID
	})
	return pairs, nil
}

// PruneResiduals removes the rows explained by pairs from both residual
// tables, so the final unmatched output only carries true breaks.
func PruneResiduals(onlyJournal, onlyWBA report.Table, pairs []Pair) (report.Table, report.Table) {
	if len(pairs) == 0 {
		return onlyJournal, onlyWBA
	}
	journalIDs := make(map[int]bool, len(pairs))
	wbaIDs := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		journalIDs[p.Journal.ID] = true
		wbaIDs[p.WBA.ID] = true
	}

	prunedJournal := report.Table{Tier: onlyJournal.Tier, Rows: []report.DualRecord{}}
	for _, r := range onlyJournal.Rows {
		if r.Journal != nil && journalIDs[r.Journal.ID] {
			continue
		}
		prunedJournal.Rows = append(prunedJournal.Rows, r)
	}
	prunedWBA := report.Table{Tier: onlyWBA.Tier, Rows: []report.DualRecord{}}
	for _, r := range onlyWBA.Rows {
		if r.WBA != nil && wbaIDs[r.WBA.ID] {
			continue
		}
		prunedWBA.Rows = append(prunedWBA.Rows, r)
	}
	return prunedJournal, prunedWBA
}
