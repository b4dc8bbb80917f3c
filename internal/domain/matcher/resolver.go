package matcher

import (
	"github.com/reconlab/wba-recon/internal/domain/ledger"
)

// Resolve commits candidates into a 1-to-1 assignment.
//
// Tiers are processed in fixed priority order (exact first, fuzzy last); each
// tier's score-sorted list is walked once and a candidate is committed only
// when neither of its rows was claimed before, by any tier. A single greedy
// pass is not globally optimal -- an earlier lower-quality pairing can block a
// later better one -- but it is deterministic and fast, which is the contract
// callers rely on.
//
// Rows left unclaimed become residual entries under TierOnlyJournal and
// TierOnlyWBA, ordered by ascending row ID. Together the committed and
// residual entries cover each ledger's ID range exactly once.
func Resolve(journal, wba *ledger.Ledger, cands CandidateSet) ResolvedSet {
	usedJournal := make([]bool, journal.Len())
	usedWBA := make([]bool, wba.Len())

	resolved := make(ResolvedSet, len(AllTiers()))
	for _, tier := range MatchTiers() {
		committed := []Candidate{}
		for _, c := range cands[tier] {
			if usedJournal[c.JournalID] || usedWBA[c.WBAID] {
				continue
			}
			usedJournal[c.JournalID] = true
			usedWBA[c.WBAID] = true
			committed = append(committed, c)
		}
		resolved[tier] = committed
	}

	onlyJournal := []Candidate{}
	for id := range journal.Records {
		if !usedJournal[id] {
			onlyJournal = append(onlyJournal, Candidate{JournalID: id, WBAID: -1, Tier: TierOnlyJournal})
		}
	}
	resolved[TierOnlyJournal] = onlyJournal

	onlyWBA := []Candidate{}
	for id := range wba.Records {
		if !usedWBA[id] {
			onlyWBA = append(onlyWBA, Candidate{JournalID: -1, WBAID: id, Tier: TierOnlyWBA})
		}
	}
	resolved[TierOnlyWBA] = onlyWBA

	return resolved
}
