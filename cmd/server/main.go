// Package main runs the portfolio stress dashboard backend: it loads
// the scenario registry and workbooks, serves the query API and pushes
// websocket refresh events when any input file changes on disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-stress-lab/internal/config"
	"portfolio-stress-lab/internal/logging"
	"portfolio-stress-lab/internal/pipeline"
	"portfolio-stress-lab/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags override env for one-off runs.
	port := flag.String("port", cfg.Port, "HTTP listen port")
	scenarioList := flag.String("scenario-list", cfg.ScenarioListPath, "Scenario registry workbook")
	stressBook := flag.String("stress-workbook", cfg.StressWorkbookPath, "Stress test workbook")
	refreshInterval := flag.Duration("refresh-interval", cfg.RefreshInterval, "Input change check interval")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg.Port = *port
	cfg.ScenarioListPath = *scenarioList
	cfg.StressWorkbookPath = *stressBook
	cfg.RefreshInterval = *refreshInterval
	cfg.LogLevel = *logLevel

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, log)
	srv := server.New(cfg, runner, log)

	log.Info().
		Str("port", cfg.Port).
		Str("stress_workbook", cfg.StressWorkbookPath).
		Int("correlation_books", len(cfg.CorrelationWorkbooks)).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("starting")

	start := time.Now()
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
	log.Info().Dur("uptime", time.Since(start)).Msg("shutdown complete")
}
