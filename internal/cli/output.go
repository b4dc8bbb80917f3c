package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/reconlab/wba-recon/internal/application/reconcile"
	"github.com/reconlab/wba-recon/internal/domain/matcher"
)

// PrintHeader prints the run banner.
func PrintHeader(journal, wba string) {
	fmt.Printf("wba-recon: %s vs %s\n", journal, wba)
}

// PrintConfiguration prints the matching tolerances in user units.
func PrintConfiguration(cfg matcher.Config) {
	fmt.Printf("Window: %d days | Tolerance: R$ %.2f | Similarity: %.2f\n\n",
		cfg.DateWindowDays,
		float64(cfg.AmountToleranceMinor)/100,
		cfg.SimilarityThreshold)
}

// PrintSummary prints the reconciliation result summary.
func PrintSummary(res *reconcile.Result) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Journal: %d rows (%d dropped) | WBA: %d rows (%d dropped)\n",
		res.Summary.JournalRows, res.Summary.JournalDropped,
		res.Summary.WBARows, res.Summary.WBADropped)

	fmt.Println("\nMatches:")
	for _, tier := range matcher.MatchTiers() {
		fmt.Printf("  %-22s %d\n", tier, res.Summary.TierCounts[tier])
	}

	fmt.Printf("\nResiduals: only_journal=%d only_wba=%d\n",
		len(res.Tables[matcher.TierOnlyJournal].Rows),
		len(res.Tables[matcher.TierOnlyWBA].Rows))

	if res.Summary.DivergencePairs > 0 {
		fmt.Printf("Account divergences flagged for review: %d\n", res.Summary.DivergencePairs)
	}

	fmt.Printf("\nDone in %s (run %s)\n", res.Duration.Round(time.Millisecond), res.RunID)
}
