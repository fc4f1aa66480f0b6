// Package analytics computes grouped aggregates, peer-vs-self percentile
// comparisons, correlation matrices and per-series summaries over the
// normalized record tables.
package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the p-quantile of values by linear interpolation over
// the sorted sample at index p*(n-1) — the conventional definition used
// by the upstream spreadsheet tooling. The input is not mutated.
func Quantile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Median is the 0.5 quantile.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Sum returns the sum of values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
