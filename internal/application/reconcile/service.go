// Package reconcile orchestrates one reconciliation run: candidate
// generation, greedy resolution, divergence detection and report flattening.
// A run owns all of its data structures; nothing is shared or persisted
// across runs.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reconlab/wba-recon/internal/domain/divergence"
	"github.com/reconlab/wba-recon/internal/domain/ledger"
	"github.com/reconlab/wba-recon/internal/domain/matcher"
	"github.com/reconlab/wba-recon/internal/domain/report"
)

// Summary aggregates run statistics for logs and API responses.
type Summary struct {
	TierCounts      map[matcher.Tier]int
	JournalRows     int
	WBARows         int
	JournalDropped  int
	WBADropped      int
	DivergencePairs int
}

// Result is the terminal artifact of a run, handed to the exporter.
type Result struct {
	RunID      string
	Journal    *ledger.Ledger
	WBA        *ledger.Ledger
	Resolved   matcher.ResolvedSet
	Tables     map[matcher.Tier]report.Table // residual tables already pruned
	Divergence []divergence.Pair
	Summary    Summary
	StartedAt  time.Time
	Duration   time.Duration
}

// Service runs reconciliations. Safe for concurrent use; each Run call is
// independent.
type Service struct {
	logger *slog.Logger
}

// NewService creates a reconciliation service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Run executes the full pipeline against two cleaned ledgers. The same
// ledgers and config always produce an identical Result; errors are limited
// to invalid configuration, everything downstream degrades gracefully.
func (s *Service) Run(ctx context.Context, journal, wba *ledger.Ledger, cfg matcher.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)
	logger.Info("reconciliation started",
		"journal_rows", journal.Len(), "journal_dropped", journal.Dropped,
		"wba_rows", wba.Len(), "wba_dropped", wba.Dropped,
		"date_window_days", cfg.DateWindowDays,
		"amount_tolerance_minor", cfg.AmountToleranceMinor,
		"similarity_threshold", cfg.SimilarityThreshold)

	candidates := matcher.NewGenerator(cfg, logger).Generate(journal, wba)
	resolved := matcher.Resolve(journal, wba, candidates)
	tables := report.Tables(journal, wba, resolved)

	pairs, err := divergence.Detect(tables[matcher.TierOnlyJournal], tables[matcher.TierOnlyWBA])
	if err != nil {
		// Degrade: empty divergence table, residuals untouched.
		logger.Error("divergence detection unavailable", "error", err)
		pairs = []divergence.Pair{}
	} else {
		prunedJournal, prunedWBA := divergence.PruneResiduals(
			tables[matcher.TierOnlyJournal], tables[matcher.TierOnlyWBA], pairs)
		tables[matcher.TierOnlyJournal] = prunedJournal
		tables[matcher.TierOnlyWBA] = prunedWBA
	}

	res := &Result{
		RunID:      runID,
		Journal:    journal,
		WBA:        wba,
		Resolved:   resolved,
		Tables:     tables,
		Divergence: pairs,
		Summary: Summary{
			TierCounts:      resolved.Counts(),
			JournalRows:     journal.Len(),
			WBARows:         wba.Len(),
			JournalDropped:  journal.Dropped,
			WBADropped:      wba.Dropped,
			DivergencePairs: len(pairs),
		},
		StartedAt:  started,
		Duration:   time.Since(started),
	}

	logger.Info("reconciliation finished",
		"exact", res.Summary.TierCounts[matcher.TierExact],
		"same_amount_near_date", res.Summary.TierCounts[matcher.TierSameAmountNearDate],
		"same_date_near_amount", res.Summary.TierCounts[matcher.TierSameDateNearAmount],
		"near_amount_near_date", res.Summary.TierCounts[matcher.TierNearAmountNearDate],
		"fuzzy", res.Summary.TierCounts[matcher.TierFuzzy],
		"only_journal", len(res.Tables[matcher.TierOnlyJournal].Rows),
		"only_wba", len(res.Tables[matcher.TierOnlyWBA].Rows),
		"divergence_pairs", len(pairs),
		"duration", res.Duration)
	return res, nil
}
