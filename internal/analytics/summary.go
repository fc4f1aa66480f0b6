package analytics

import (
	"gonum.org/v1/gonum/floats"

	"portfolio-stress-lab/internal/domain"
)

// SeriesSummary is per-series descriptive statistics over a filtered
// correlation window, for the dashboard's summary table.
type SeriesSummary struct {
	Name string
	Min  float64
	Max  float64
	Mean float64
	Last float64
}

// Summarize computes per-series statistics over the given (already
// sliced) correlation series, in column order. Series with no rows in
// the window are skipped — an empty selection is a valid terminal state.
func Summarize(series *domain.CorrelationSeries) []SeriesSummary {
	if series == nil || series.Len() == 0 {
		return nil
	}

	summaries := make([]SeriesSummary, 0, len(series.Names))
	for _, name := range series.Names {
		col := series.Values[name]
		if len(col) == 0 {
			continue
		}
		summaries = append(summaries, SeriesSummary{
			Name: name,
			Min:  floats.Min(col),
			Max:  floats.Max(col),
			Mean: Mean(col),
			Last: col[len(col)-1],
		})
	}
	return summaries
}
