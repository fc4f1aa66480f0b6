// Package graph derives distance matrices from correlations or exposure
// values, builds the complete weighted graph over the selected assets,
// and extracts its minimum spanning tree for chart layout.
package graph

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DistanceFromCorrelation maps a correlation matrix to the metric
// d(i,j) = sqrt(2*(1-rho(i,j))): zero iff rho=1, maximal (2) at rho=-1.
// Float noise can push rho marginally above 1; the argument is clamped
// at zero before the square root.
func DistanceFromCorrelation(corr *mat.SymDense) *mat.SymDense {
	n := corr.SymmetricDim()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			arg := 2 * (1 - corr.At(i, j))
			if arg < 0 {
				arg = 0
			}
			d.SetSym(i, j, math.Sqrt(arg))
		}
	}
	return d
}

// DistanceFromValues maps one value per asset to the pairwise distance
// d(i,j) = |v(i) - v(j)| — the exposure-delta mode.
func DistanceFromValues(values []float64) *mat.SymDense {
	n := len(values)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, math.Abs(values[i]-values[j]))
		}
	}
	return d
}
