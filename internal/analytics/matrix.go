package analytics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"portfolio-stress-lab/internal/domain"
)

// ErrTooFewObservations is returned when a correlation matrix is
// requested over fewer than two dated rows.
var ErrTooFewObservations = errors.New("need at least 2 observations for correlation")

// CorrelationMatrix computes the pairwise Pearson correlation of the
// selected series over the series' (already filtered) date window.
// Returns the matrix together with the node names in matrix order.
// Unknown series names are an error — the caller validates selections.
func CorrelationMatrix(series *domain.CorrelationSeries, names []string) (*mat.SymDense, []string, error) {
	if series.Len() < 2 {
		return nil, nil, ErrTooFewObservations
	}

	cols := make([][]float64, 0, len(names))
	kept := make([]string, 0, len(names))
	for _, name := range names {
		col, ok := series.Values[name]
		if !ok {
			return nil, nil, fmt.Errorf("unknown series %q", name)
		}
		cols = append(cols, col)
		kept = append(kept, name)
	}

	n := len(kept)
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			rho := stat.Correlation(cols[i], cols[j], nil)
			m.SetSym(i, j, rho)
		}
	}
	return m, kept, nil
}
