// Package logging provides structured logging utilities.
//
// The default format is Maven-style with colors:
// [LEVEL] [SCOPE] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/reconlab/wba-recon/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = NewMavenHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithScope creates a logger with a scope prefix (e.g., "api",
// "matcher", "ingest"). Useful for creating scoped loggers that can be
// injected into collaborators.
func NewLoggerWithScope(cfg config.LoggingConfig, scope string) *slog.Logger {
	return NewLogger(cfg).With("scope", scope)
}
