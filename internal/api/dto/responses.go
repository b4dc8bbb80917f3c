package dto

import (
	"time"

	"github.com/reconlab/wba-recon/internal/application/reconcile"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ReconcileResponse is the JSON summary of a reconciliation run.
type ReconcileResponse struct {
	RunID           string         `json:"run_id"`
	JournalRows     int            `json:"journal_rows"`
	JournalDropped  int            `json:"journal_dropped"`
	WBARows         int            `json:"wba_rows"`
	WBADropped      int            `json:"wba_dropped"`
	TierCounts      map[string]int `json:"tier_counts"`
	DivergencePairs int            `json:"divergence_pairs"`
	DurationMS      int64          `json:"duration_ms"`
}

// NewReconcileResponse maps a run result to its API representation.
func NewReconcileResponse(res *reconcile.Result) ReconcileResponse {
	counts := make(map[string]int, len(res.Summary.TierCounts))
	for tier, n := range res.Summary.TierCounts {
		counts[string(tier)] = n
	}
	return ReconcileResponse{
		RunID:           res.RunID,
		JournalRows:     res.Summary.JournalRows,
		JournalDropped:  res.Summary.JournalDropped,
		WBARows:         res.Summary.WBARows,
		WBADropped:      res.Summary.WBADropped,
		TierCounts:      counts,
		DivergencePairs: res.Summary.DivergencePairs,
		DurationMS:      res.Duration.Milliseconds(),
	}
}
