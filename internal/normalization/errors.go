// Package normalization turns raw sheet tables into the flat, canonical
// record collections the analytics layer queries: stress records tagged
// with resolved identities, date-sorted correlation series, and exposure
// records. All loaders enforce fixed positional column contracts and fail
// the whole pass on a structural violation — a silent partial result
// would mislead every downstream aggregate.
package normalization

import "errors"

var (
	// ErrStructural is returned when a sheet violates its positional
	// column contract (a required column position is absent). Fatal for
	// the whole normalization pass.
	ErrStructural = errors.New("structural schema violation")

	// ErrSheetMissing is returned when a workbook lacks a sheet required
	// by fixed naming convention.
	ErrSheetMissing = errors.New("required sheet missing")
)
