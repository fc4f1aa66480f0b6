package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	"portfolio-stress-lab/internal/domain"
)

func corrSeries() *domain.CorrelationSeries {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	return &domain.CorrelationSeries{
		Names: []string{"up", "down", "flatish"},
		Dates: dates,
		Values: map[string][]float64{
			"up":      {0.1, 0.2, 0.3},
			"down":    {0.3, 0.2, 0.1},
			"flatish": {0.1, 0.3, 0.2},
		},
	}
}

func TestCorrelationMatrix_PerfectAntiCorrelation(t *testing.T) {
	m, names, err := CorrelationMatrix(corrSeries(), []string{"up", "down"})
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %v", names)
	}

	if d := m.At(0, 0); d != 1 {
		t.Errorf("diagonal: expected 1, got %v", d)
	}
	if rho := m.At(0, 1); math.Abs(rho-(-1)) > 1e-9 {
		t.Errorf("expected rho -1 for mirrored series, got %v", rho)
	}
	if m.At(0, 1) != m.At(1, 0) {
		t.Error("matrix not symmetric")
	}
}

func TestCorrelationMatrix_UnknownSeries(t *testing.T) {
	_, _, err := CorrelationMatrix(corrSeries(), []string{"up", "nope"})
	if err == nil {
		t.Fatal("expected error for unknown series")
	}
}

func TestCorrelationMatrix_TooFewObservations(t *testing.T) {
	series := &domain.CorrelationSeries{
		Names:  []string{"up"},
		Dates:  []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Values: map[string][]float64{"up": {0.1}},
	}

	_, _, err := CorrelationMatrix(series, []string{"up"})
	if !errors.Is(err, ErrTooFewObservations) {
		t.Fatalf("expected ErrTooFewObservations, got %v", err)
	}
}

func TestSummarize_PerSeriesStats(t *testing.T) {
	summaries := Summarize(corrSeries())

	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	up := summaries[0]
	if up.Name != "up" {
		t.Fatalf("expected column order preserved, got %q first", up.Name)
	}
	if up.Min != 0.1 || up.Max != 0.3 || up.Last != 0.3 {
		t.Errorf("unexpected stats: %+v", up)
	}
	if !almostEqual(up.Mean, 0.2) {
		t.Errorf("mean: expected 0.2, got %v", up.Mean)
	}
}

func TestSummarize_EmptyWindow(t *testing.T) {
	if s := Summarize(&domain.CorrelationSeries{}); s != nil {
		t.Errorf("expected nil for empty window, got %v", s)
	}
	if s := Summarize(nil); s != nil {
		t.Errorf("expected nil for nil series, got %v", s)
	}
}
