package normalization

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"portfolio-stress-lab/internal/domain"
)

// CorrelationSheet is the fixed sheet name holding the clean correlation
// table: first column dates, remaining columns named series.
const CorrelationSheet = "Correlation Clean"

// LoadCorrelation reads the "Correlation Clean" sheet into a date-indexed
// series table: first column parsed as dates and used as the unique sort
// key, remaining header cells as series names. Values remain fractional
// correlations; percent scaling is applied only at export time.
//
// Duplicate source dates are a data-quality defect, not an error: the
// last row for a date wins, then the index is sorted ascending.
func LoadCorrelation(src SheetSource) (*domain.CorrelationSeries, error) {
	return LoadCorrelationSheet(src, CorrelationSheet)
}

// LoadCorrelationSheet is LoadCorrelation for an explicit sheet name.
func LoadCorrelationSheet(src SheetSource, sheet string) (*domain.CorrelationSeries, error) {
	rows, err := rowsForSheet(src, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("%w: sheet %q needs a date column and at least one series column",
			ErrStructural, sheet)
	}

	names := make([]string, 0, len(rows[0])-1)
	for _, h := range rows[0][1:] {
		names = append(names, strings.TrimSpace(h))
	}

	// Last write wins on duplicate dates.
	byDate := make(map[time.Time][]float64)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}

		values := make([]float64, len(names))
		for j := range names {
			col := j + 1
			if col >= len(row) {
				return nil, fmt.Errorf("%w: sheet %q row %d has %d columns, need %d",
					ErrStructural, sheet, i+2, len(row), len(names)+1)
			}
			v, err := parseNumber(row[col])
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d col %d: %w", sheet, i+2, col+1, err)
			}
			values[j] = v
		}
		byDate[date] = values
	}

	series := &domain.CorrelationSeries{
		Names:  names,
		Dates:  make([]time.Time, 0, len(byDate)),
		Values: make(map[string][]float64, len(names)),
	}
	for date := range byDate {
		series.Dates = append(series.Dates, date)
	}
	sort.Slice(series.Dates, func(i, j int) bool {
		return series.Dates[i].Before(series.Dates[j])
	})

	for j, name := range names {
		col := make([]float64, len(series.Dates))
		for i, date := range series.Dates {
			col[i] = byDate[date][j]
		}
		series.Values[name] = col
	}
	return series, nil
}

func rowsForSheet(src SheetSource, sheet string) ([][]string, error) {
	for _, name := range src.SheetNames() {
		if name == sheet {
			return src.Rows(sheet)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetMissing, sheet)
}
