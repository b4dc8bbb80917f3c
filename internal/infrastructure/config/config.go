// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} expansion
//  2. Environment variables (fallback)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Matching      MatchingConfig      `yaml:"matching"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MatchingConfig holds the default matching tolerances. The amount tolerance
// is expressed in currency units here (as users see it) and converted to
// minor units at the matcher boundary.
type MatchingConfig struct {
	DateWindowDays      int     `yaml:"date_window_days"`
	AmountTolerance     float64 `yaml:"amount_tolerance"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // maven, json or text
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Matching: MatchingConfig{
			DateWindowDays:      7,
			AmountTolerance:     1.00,
			SimilarityThreshold: 0.62,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "maven"},
		},
	}
}

// Load reads and parses the config file, expanding ${VAR} references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := Default()
	cfg.Server.Port = getEnvInt("WBA_RECON_PORT", cfg.Server.Port)
	if origins := os.Getenv("WBA_RECON_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.Matching.DateWindowDays = getEnvInt("WBA_RECON_DATE_WINDOW_DAYS", cfg.Matching.DateWindowDays)
	cfg.Matching.AmountTolerance = getEnvFloat("WBA_RECON_AMOUNT_TOLERANCE", cfg.Matching.AmountTolerance)
	cfg.Matching.SimilarityThreshold = getEnvFloat("WBA_RECON_SIMILARITY_THRESHOLD", cfg.Matching.SimilarityThreshold)
	cfg.Observability.Logging.Level = getEnv("WBA_RECON_LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("WBA_RECON_LOG_FORMAT", cfg.Observability.Logging.Format)
	return cfg
}

// LoadOrEnv tries the config file first and falls back to the environment.
func LoadOrEnv(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
