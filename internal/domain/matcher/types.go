package matcher

import (
	"github.com/shopspring/decimal"
)

// Tier identifies one of the five decreasing-confidence match conditions or
// one of the two synthetic residual categories.
type Tier string

const (
	// TierExact: same date, same cents, same unordered account pair.
	TierExact Tier = "exact"
	// TierSameAmountNearDate: same cents, dates within the window (not equal).
	TierSameAmountNearDate Tier = "same_amount_near_date"
	// TierSameDateNearAmount: same date, cents within tolerance (not equal).
	TierSameDateNearAmount Tier = "same_date_near_amount"
	// TierNearAmountNearDate: both near, neither equal.
	TierNearAmountNearDate Tier = "near_amount_near_date"
	// TierFuzzy: within both tolerances (zero distance allowed) and
	// descriptions similar enough.
	TierFuzzy Tier = "fuzzy"

	// TierOnlyJournal holds journal rows no tier could claim.
	TierOnlyJournal Tier = "only_journal"
	// TierOnlyWBA holds WBA rows no tier could claim.
	TierOnlyWBA Tier = "only_wba"
)

// MatchTiers returns the five match tiers in resolution priority order.
func MatchTiers() []Tier {
	return []Tier{
		TierExact,
		TierSameAmountNearDate,
		TierSameDateNearAmount,
		TierNearAmountNearDate,
		TierFuzzy,
	}
}

// AllTiers returns every tier, match tiers first, residuals last.
func AllTiers() []Tier {
	return append(MatchTiers(), TierOnlyJournal, TierOnlyWBA)
}

// Candidate is a scored (journal row, WBA row) pairing within one tier.
// Residual entries carry -1 on the missing side and zeroed diagnostics.
// Candidates are ephemeral: generated, resolved and discarded within a run.
type Candidate struct {
	JournalID   int
	WBAID       int
	Tier        Tier
	Score       float64
	DayDistance int
	AmountDiff  decimal.Decimal // absolute difference of decimal amounts
	Similarity  float64         // description similarity in [0,1]
}

// CandidateSet holds the independently scored and sorted candidate list of
// each match tier.
type CandidateSet map[Tier][]Candidate

// ResolvedSet is the terminal artifact of a run: committed 1-to-1 matches per
// match tier plus the two residual lists. Across match tiers every row ID
// appears at most once per ledger; the residual tiers hold exactly the IDs no
// match claimed.
type ResolvedSet map[Tier][]Candidate

// Counts returns the number of entries per tier, including empty tiers.
func (r ResolvedSet) Counts() map[Tier]int {
	counts := make(map[Tier]int, len(r))
	for _, tier := range AllTiers() {
		counts[tier] = len(r[tier])
	}
	return counts
}
