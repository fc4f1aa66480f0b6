// Package main performs a one-shot export: it loads the configured
// workbooks, aggregates the stress table and writes the dashboard
// tables to an xlsx workbook (and optionally the aggregates to CSV).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"portfolio-stress-lab/internal/analytics"
	"portfolio-stress-lab/internal/config"
	"portfolio-stress-lab/internal/dataset"
	"portfolio-stress-lab/internal/domain"
	"portfolio-stress-lab/internal/logging"
	"portfolio-stress-lab/internal/pipeline"
	"portfolio-stress-lab/internal/reporting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	out := flag.String("out", "export.xlsx", "Output workbook path")
	csvPath := flag.String("csv", "", "Also write the aggregate table as CSV to this path")
	start := flag.String("start", "", "Start date filter (YYYY-MM-DD)")
	end := flag.String("end", "", "End date filter (YYYY-MM-DD)")
	flag.Parse()

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	filter, err := parseRange(*start, *end)
	if err != nil {
		log.Fatal().Err(err).Msg("bad date filter")
	}

	ctx := context.Background()
	snap, err := pipeline.NewRunner(cfg, log).Run(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	records := dataset.FilterStress(snap.Stress, filter)
	aggregates := analytics.Aggregate(records,
		[]analytics.GroupKey{analytics.KeyPortfolio, analytics.KeyScenario},
		analytics.StressPnL, analytics.OpMean)

	sheets := []reporting.Sheet{
		reporting.StressSheet("Stress", records),
		reporting.AggregateSheet("Aggregates", aggregates),
	}
	for label, series := range snap.Correlations {
		sheets = append(sheets, reporting.CorrelationSheet("Corr "+label, dataset.CorrelationSlice(series, filter)))
	}

	if err := reporting.NewExporter().Export(*out, sheets...); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
	log.Info().Str("path", *out).Int("stress_rows", len(records)).Msg("workbook written")

	if *csvPath != "" {
		if err := os.WriteFile(*csvPath, []byte(reporting.RenderAggregatesCSV(aggregates)), 0o644); err != nil {
			log.Fatal().Err(err).Msg("csv write failed")
		}
		log.Info().Str("path", *csvPath).Msg("csv written")
	}
}

func parseRange(start, end string) (domain.ViewFilter, error) {
	var f domain.ViewFilter
	var err error
	if start != "" {
		if f.Start, err = time.ParseInLocation("2006-01-02", start, time.UTC); err != nil {
			return f, fmt.Errorf("start: %w", err)
		}
	}
	if end != "" {
		if f.End, err = time.ParseInLocation("2006-01-02", end, time.UTC); err != nil {
			return f, fmt.Errorf("end: %w", err)
		}
	}
	return f, nil
}
