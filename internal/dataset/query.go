package dataset

import (
	"sort"
	"time"

	"portfolio-stress-lab/internal/domain"
)

// FilterStress returns the stress records matching the view filter.
// An empty (non-nil) portfolio or scenario selection legitimately
// returns no records — the caller renders an empty view, not an error.
func FilterStress(records []domain.StressRecord, f domain.ViewFilter) []domain.StressRecord {
	var out []domain.StressRecord
	for _, rec := range records {
		if !f.MatchesDate(rec.Date) {
			continue
		}
		if !f.MatchesPortfolio(rec.Portfolio) {
			continue
		}
		if !f.MatchesScenario(rec.ScenarioName) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Portfolios returns the sorted distinct portfolios in the stress table.
func Portfolios(records []domain.StressRecord) []string {
	return distinct(records, func(r domain.StressRecord) string { return r.Portfolio })
}

// Scenarios returns the sorted distinct resolved scenario names,
// including the UNKNOWN sentinel if any sheet failed to resolve.
func Scenarios(records []domain.StressRecord) []string {
	return distinct(records, func(r domain.StressRecord) string { return r.ScenarioName })
}

// Dates returns the sorted distinct dates in the stress table.
func Dates(records []domain.StressRecord) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, rec := range records {
		seen[rec.Date] = struct{}{}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func distinct(records []domain.StressRecord, key func(domain.StressRecord) string) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[key(rec)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// CorrelationSlice applies the view filter's date range and series
// selection to a named correlation book. A nil series selection means
// all columns.
func CorrelationSlice(series *domain.CorrelationSeries, f domain.ViewFilter) *domain.CorrelationSeries {
	names := f.Series
	if names == nil {
		names = series.Names
	}

	start := f.Start
	if start.IsZero() && series.Len() > 0 {
		start = series.Dates[0]
	}
	end := f.End
	if end.IsZero() && series.Len() > 0 {
		end = series.Dates[series.Len()-1]
	}
	return series.Slice(start, end, names)
}
