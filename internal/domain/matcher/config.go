package matcher

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig wraps every validation failure so callers can map them to
// a client error.
var ErrInvalidConfig = errors.New("invalid matching config")

// Config holds the matching tolerances for one reconciliation run. It is
// immutable once handed to a Generator; there is no process-wide parameter
// state.
type Config struct {
	// DateWindowDays bounds the day distance for the near-date tiers.
	DateWindowDays int
	// AmountToleranceMinor bounds the cents difference for the near-amount
	// tiers.
	AmountToleranceMinor int64
	// SimilarityThreshold is the minimum description similarity for the
	// fuzzy tier, in [0,1].
	SimilarityThreshold float64
}

// DefaultConfig returns the tolerances the tool ships with: a 7-day window,
// R$1.00 of amount slack and a 0.62 similarity floor.
func DefaultConfig() Config {
	return Config{
		DateWindowDays:       7,
		AmountToleranceMinor: 100,
		SimilarityThreshold:  0.62,
	}
}

// ConfigWithTolerance builds a Config from an amount tolerance expressed in
// currency units, as surfaced to users.
func ConfigWithTolerance(dateWindowDays int, amountTolerance, similarityThreshold float64) Config {
	return Config{
		DateWindowDays:       dateWindowDays,
		AmountToleranceMinor: int64(math.Round(amountTolerance * 100)),
		SimilarityThreshold:  similarityThreshold,
	}
}

// Validate rejects configurations the generator cannot honor.
func (c Config) Validate() error {
	if c.DateWindowDays < 0 {
		return fmt.Errorf("%w: date window must be non-negative, got %d", ErrInvalidConfig, c.DateWindowDays)
	}
	if c.AmountToleranceMinor < 0 {
		return fmt.Errorf("%w: amount tolerance must be non-negative, got %d", ErrInvalidConfig, c.AmountToleranceMinor)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be in [0,1], got %g", ErrInvalidConfig, c.SimilarityThreshold)
	}
	return nil
}
