// Package config reads the application configuration from environment
// variables, with optional .env file support for local runs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard service. Input data
// locations are file-path constants per deployment; there is no further
// runtime configuration surface.
type Config struct {
	// Server
	Port string

	// Input files
	ScenarioListPath    string
	StressWorkbookPath  string
	ExposureWorkbookPath string
	ExposureSheet       string

	// Correlation workbooks, label -> path. Parsed from
	// CORRELATION_WORKBOOKS as comma-separated label=path pairs
	// (e.g. "EGQ=data/corrEGQ.xlsx,E7X=data/corrE7X.xlsx").
	CorrelationWorkbooks map[string]string

	// Refresh
	RefreshInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first if present.
func Load() (*Config, error) {
	// Missing .env is fine; environment wins either way
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		ScenarioListPath:     getEnv("SCENARIO_LIST", "data/scenarios.xlsx"),
		StressWorkbookPath:   getEnv("STRESS_WORKBOOK", "data/stress.xlsx"),
		ExposureWorkbookPath: getEnv("EXPOSURE_WORKBOOK", ""),
		ExposureSheet:        getEnv("EXPOSURE_SHEET", "Exposures"),

		RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", "1m"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	books, err := parseWorkbookSet(getEnv("CORRELATION_WORKBOOKS", ""))
	if err != nil {
		return nil, err
	}
	cfg.CorrelationWorkbooks = books

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants flag overrides could have broken.
func (c *Config) Validate() error {
	if c.ScenarioListPath == "" {
		return fmt.Errorf("SCENARIO_LIST must be set")
	}
	if c.StressWorkbookPath == "" {
		return fmt.Errorf("STRESS_WORKBOOK must be set")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return nil
}

// parseWorkbookSet parses "label=path,label=path" into a map.
func parseWorkbookSet(raw string) (map[string]string, error) {
	books := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return books, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		label, path, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(label) == "" || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("malformed correlation workbook entry %q (want label=path)", pair)
		}
		books[strings.TrimSpace(label)] = strings.TrimSpace(path)
	}
	return books, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvAsDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
