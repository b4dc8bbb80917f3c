package cli

import (
	"flag"

	"github.com/reconlab/wba-recon/internal/domain/matcher"
)

// ReconcileFlags are the flags for the reconcile command.
type ReconcileFlags struct {
	Journal             string
	WBA                 string
	Out                 string
	DateWindowDays      int
	AmountTolerance     float64
	SimilarityThreshold float64
	Verbose             bool
}

// ParseReconcileFlags parses the reconcile command line.
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	flag.StringVar(&flags.Journal, "journal", "", "Path to the journal (Diário) xlsx export")
	flag.StringVar(&flags.WBA, "wba", "", "Path to the WBA settlement xlsx feed")
	flag.StringVar(&flags.Out, "out", "reconciliation.xlsx", "Path for the report workbook")
	flag.IntVar(&flags.DateWindowDays, "days", 7, "Date window in days for near-date tiers")
	flag.Float64Var(&flags.AmountTolerance, "tolerance", 1.00, "Amount tolerance in currency units for near-amount tiers")
	flag.Float64Var(&flags.SimilarityThreshold, "similarity", 0.62, "Minimum description similarity for the fuzzy tier")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToMatcherConfig converts the flags to a matcher configuration.
func (f ReconcileFlags) ToMatcherConfig() matcher.Config {
	return matcher.ConfigWithTolerance(f.DateWindowDays, f.AmountTolerance, f.SimilarityThreshold)
}
