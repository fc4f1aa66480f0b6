package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"portfolio-stress-lab/internal/config"
	"portfolio-stress-lab/internal/normalization"
)

// writeWorkbook writes an xlsx with the given sheets, preserving order.
func writeWorkbook(t *testing.T, path string, order []string, sheets map[string][][]any) {
	t.Helper()

	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func stressRows(label string, pnl float64) [][]any {
	return [][]any{
		{"Date", "Book", "Scenario", "Desk", "StressPnL"},
		{"2024-01-02", "b", label, "d", pnl},
	}
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{
		ScenarioListPath:   filepath.Join(dir, "scenarios.xlsx"),
		StressWorkbookPath: filepath.Join(dir, "stress.xlsx"),
		CorrelationWorkbooks: map[string]string{
			"EGQ": filepath.Join(dir, "corrEGQ.xlsx"),
		},
		RefreshInterval: time.Minute,
	}

	writeWorkbook(t, cfg.ScenarioListPath, []string{"Scenarios"}, map[string][][]any{
		"Scenarios": {{"RATES_UP"}, {"RATES_DOWN"}},
	})
	writeWorkbook(t, cfg.StressWorkbookPath,
		[]string{"ALPHA_RATES_UP", "ALPHA_RATES_DOWN", "BETA_RATES_UP"},
		map[string][][]any{
			"ALPHA_RATES_UP":   stressRows("Rates +100bp", -12.5),
			"ALPHA_RATES_DOWN": stressRows("Rates -100bp", 8.0),
			"BETA_RATES_UP":    stressRows("Rates +100bp", -3.0),
		})
	writeWorkbook(t, cfg.CorrelationWorkbooks["EGQ"], []string{"Correlation Clean"}, map[string][][]any{
		"Correlation Clean": {
			{"Date", "EQ Index", "Cash"},
			{"2024-01-02", 0.35, -0.10},
			{"2024-01-01", 0.30, -0.05},
		},
	})
	return cfg
}

func TestRunner_FullRefresh(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, zerolog.Nop())

	snap, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, snap.Stress, 3)
	assert.Empty(t, snap.UnresolvedSheets)

	portfolios := map[string]int{}
	for _, rec := range snap.Stress {
		portfolios[rec.Portfolio]++
	}
	assert.Equal(t, map[string]int{"ALPHA": 2, "BETA": 1}, portfolios)

	series := snap.Correlations["EGQ"]
	require.NotNil(t, series)
	require.Equal(t, 2, series.Len())
	// Unsorted source must come out ascending
	assert.True(t, series.Dates[0].Before(series.Dates[1]))
	assert.Equal(t, 0.30, series.Values["EQ Index"][0])

	assert.Len(t, snap.Fingerprints, 3)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestRunner_UnchangedInputsKeepSnapshot(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, zerolog.Nop())
	ctx := context.Background()

	first, err := runner.Run(ctx, nil)
	require.NoError(t, err)

	second, err := runner.Run(ctx, first)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged inputs must return the previous snapshot")
}

func TestRunner_ChangedStressFileReloads(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, zerolog.Nop())
	ctx := context.Background()

	first, err := runner.Run(ctx, nil)
	require.NoError(t, err)

	// Rewrite the stress workbook with one extra sheet
	writeWorkbook(t, cfg.StressWorkbookPath,
		[]string{"ALPHA_RATES_UP", "GAMMA_RATES_UP"},
		map[string][][]any{
			"ALPHA_RATES_UP": stressRows("Rates +100bp", -12.5),
			"GAMMA_RATES_UP": stressRows("Rates +100bp", 5.0),
		})

	second, err := runner.Run(ctx, first)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Stress, 2)
}

func TestRunner_UnresolvedSheetSurfaced(t *testing.T) {
	cfg := testConfig(t)
	writeWorkbook(t, cfg.StressWorkbookPath,
		[]string{"ALPHA_RATES_UP", "Mystery Tab"},
		map[string][][]any{
			"ALPHA_RATES_UP": stressRows("Rates +100bp", 1.0),
			"Mystery Tab":    stressRows("???", 2.0),
		})

	runner := NewRunner(cfg, zerolog.Nop())
	snap, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mystery Tab"}, snap.UnresolvedSheets)
	assert.Len(t, snap.Stress, 2, "unresolved sheets still contribute records")
}

func TestRunner_StructuralViolationAborts(t *testing.T) {
	cfg := testConfig(t)
	writeWorkbook(t, cfg.StressWorkbookPath,
		[]string{"ALPHA_RATES_UP"},
		map[string][][]any{
			"ALPHA_RATES_UP": {
				{"Date", "Book", "Scenario"}, // missing 5th column
				{"2024-01-02", "b", "x"},
			},
		})

	runner := NewRunner(cfg, zerolog.Nop())
	_, err := runner.Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, normalization.ErrStructural))
}

func TestRunner_MissingInputFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.StressWorkbookPath = filepath.Join(t.TempDir(), "absent.xlsx")

	runner := NewRunner(cfg, zerolog.Nop())
	_, err := runner.Run(context.Background(), nil)
	require.Error(t, err)
}
