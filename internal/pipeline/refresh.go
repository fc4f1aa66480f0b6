// Package pipeline orchestrates a data-refresh cycle: fingerprint the
// input files, re-parse what changed, and assemble a new immutable
// snapshot for the dataset store.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"portfolio-stress-lab/internal/config"
	"portfolio-stress-lab/internal/dataset"
	"portfolio-stress-lab/internal/domain"
	"portfolio-stress-lab/internal/identity"
	"portfolio-stress-lab/internal/ingestion"
	"portfolio-stress-lab/internal/normalization"
)

// Runner executes refresh cycles. Per-file parse results are memoized by
// content fingerprint, so a cycle where nothing changed does no xlsx
// parsing at all.
type Runner struct {
	cfg *config.Config
	log zerolog.Logger

	tokens      *ingestion.Cache[[]string]
	stress      *ingestion.Cache[*normalization.StressResult]
	correlation *ingestion.Cache[*domain.CorrelationSeries]
	exposure    *ingestion.Cache[[]domain.ExposureRecord]

	now func() time.Time // injectable clock for deterministic tests
}

// NewRunner creates a refresh runner.
func NewRunner(cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:         cfg,
		log:         log.With().Str("component", "pipeline").Logger(),
		tokens:      ingestion.NewCache[[]string](),
		stress:      ingestion.NewCache[*normalization.StressResult](),
		correlation: ingestion.NewCache[*domain.CorrelationSeries](),
		exposure:    ingestion.NewCache[[]domain.ExposureRecord](),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock, for deterministic test output.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run executes one refresh cycle. If prev is non-nil and every input
// file's fingerprint is unchanged, prev is returned as-is and no parsing
// happens. Structural schema violations abort the whole cycle; sheets
// with unresolvable identities are carried as snapshot diagnostics.
func (r *Runner) Run(ctx context.Context, prev *dataset.Snapshot) (*dataset.Snapshot, error) {
	fingerprints, err := r.fingerprintInputs()
	if err != nil {
		return nil, err
	}
	if prev != nil && sameFingerprints(prev.Fingerprints, fingerprints) {
		r.log.Debug().Msg("inputs unchanged, keeping snapshot")
		return prev, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Scenario registry
	tokens, err := r.loadTokens(fingerprints[r.cfg.ScenarioListPath])
	if err != nil {
		return nil, err
	}
	registry := identity.BuildRegistry(tokens)
	if len(registry) == 0 {
		r.log.Warn().Msg("scenario registry is empty, every sheet will resolve UNKNOWN")
	}

	// Stress workbook. The memo key folds in the scenario-list
	// fingerprint: resolution depends on the registry, so a changed
	// token list must invalidate the parsed stress table too.
	stressKey := fingerprints[r.cfg.StressWorkbookPath] + ":" + fingerprints[r.cfg.ScenarioListPath]
	stressResult, err := r.loadStress(stressKey, registry)
	if err != nil {
		return nil, err
	}
	for _, sheet := range stressResult.Unresolved {
		r.log.Warn().Str("sheet", sheet).Msg("sheet name matched no registered scenario")
	}

	// Correlation workbooks
	correlations := make(map[string]*domain.CorrelationSeries, len(r.cfg.CorrelationWorkbooks))
	for label, path := range r.cfg.CorrelationWorkbooks {
		series, err := r.loadCorrelation(path, fingerprints[path])
		if err != nil {
			return nil, fmt.Errorf("correlation book %s: %w", label, err)
		}
		correlations[label] = series
	}

	// Exposure workbook (optional input)
	var exposures []domain.ExposureRecord
	if r.cfg.ExposureWorkbookPath != "" {
		exposures, err = r.loadExposure(fingerprints[r.cfg.ExposureWorkbookPath])
		if err != nil {
			return nil, err
		}
	}

	snap := &dataset.Snapshot{
		Stress:           stressResult.Records,
		Correlations:     correlations,
		Exposures:        exposures,
		UnresolvedSheets: stressResult.Unresolved,
		Fingerprints:     fingerprints,
		LoadedAt:         r.now(),
	}
	r.log.Info().
		Int("stress_records", len(snap.Stress)).
		Int("correlation_books", len(snap.Correlations)).
		Int("exposure_records", len(snap.Exposures)).
		Int("unresolved_sheets", len(snap.UnresolvedSheets)).
		Msg("snapshot refreshed")
	return snap, nil
}

func (r *Runner) fingerprintInputs() (map[string]string, error) {
	paths := []string{r.cfg.ScenarioListPath, r.cfg.StressWorkbookPath}
	for _, path := range r.cfg.CorrelationWorkbooks {
		paths = append(paths, path)
	}
	if r.cfg.ExposureWorkbookPath != "" {
		paths = append(paths, r.cfg.ExposureWorkbookPath)
	}

	fingerprints := make(map[string]string, len(paths))
	for _, path := range paths {
		fp, err := ingestion.FingerprintFile(path)
		if err != nil {
			return nil, err
		}
		fingerprints[path] = fp
	}
	return fingerprints, nil
}

func sameFingerprints(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for path, fp := range b {
		if a[path] != fp {
			return false
		}
	}
	return true
}

func (r *Runner) loadTokens(fp string) ([]string, error) {
	path := r.cfg.ScenarioListPath
	if tokens, ok := r.tokens.Get(path, fp); ok {
		return tokens, nil
	}
	wb, err := ingestion.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	tokens, err := ingestion.LoadScenarioTokens(wb)
	if err != nil {
		return nil, err
	}
	r.tokens.Put(path, fp, tokens)
	return tokens, nil
}

func (r *Runner) loadStress(fp string, reg identity.Registry) (*normalization.StressResult, error) {
	path := r.cfg.StressWorkbookPath
	if result, ok := r.stress.Get(path, fp); ok {
		return result, nil
	}
	wb, err := ingestion.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	result, err := normalization.NormalizeStress(wb, reg)
	if err != nil {
		return nil, err
	}
	r.stress.Put(path, fp, result)
	return result, nil
}

func (r *Runner) loadCorrelation(path, fp string) (*domain.CorrelationSeries, error) {
	if series, ok := r.correlation.Get(path, fp); ok {
		return series, nil
	}
	wb, err := ingestion.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	series, err := normalization.LoadCorrelation(wb)
	if err != nil {
		return nil, err
	}
	r.correlation.Put(path, fp, series)
	return series, nil
}

func (r *Runner) loadExposure(fp string) ([]domain.ExposureRecord, error) {
	path := r.cfg.ExposureWorkbookPath
	if records, ok := r.exposure.Get(path, fp); ok {
		return records, nil
	}
	wb, err := ingestion.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	records, err := normalization.LoadExposure(wb, r.cfg.ExposureSheet)
	if err != nil {
		return nil, err
	}
	r.exposure.Put(path, fp, records)
	return records, nil
}
