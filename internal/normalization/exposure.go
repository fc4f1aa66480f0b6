package normalization

import (
	"fmt"

	"portfolio-stress-lab/internal/domain"
)

// Positional column contract of the exposure sheet (0-based).
// Columns 1/4/5/6/7: Date, Portfolio, EquityExposure, Duration,
// SpreadDuration.
const (
	exposureColDate      = 0
	exposureColPortfolio = 3
	exposureColEquity    = 4
	exposureColDuration  = 5
	exposureColSpreadDur = 6
	exposureMinColumns   = 7
)

// LoadExposure reads the named exposure sheet under its positional
// contract. Column count is validated up front; a violation fails the
// whole load (ErrStructural).
func LoadExposure(src SheetSource, sheet string) ([]domain.ExposureRecord, error) {
	rows, err := rowsForSheet(src, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) < exposureMinColumns {
		return nil, fmt.Errorf("%w: sheet %q has %d columns, need %d",
			ErrStructural, sheet, len(rows[0]), exposureMinColumns)
	}

	var records []domain.ExposureRecord
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) < exposureMinColumns {
			return nil, fmt.Errorf("%w: sheet %q row %d has %d columns, need %d",
				ErrStructural, sheet, i+2, len(row), exposureMinColumns)
		}

		date, err := parseDate(row[exposureColDate])
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
		equity, err := parseNumber(row[exposureColEquity])
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
		duration, err := parseNumber(row[exposureColDuration])
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
		spread, err := parseNumber(row[exposureColSpreadDur])
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}

		records = append(records, domain.ExposureRecord{
			Date:           date,
			Portfolio:      row[exposureColPortfolio],
			EquityExposure: equity,
			Duration:       duration,
			SpreadDuration: spread,
		})
	}
	return records, nil
}
