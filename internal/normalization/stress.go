package normalization

import (
	"fmt"

	"portfolio-stress-lab/internal/domain"
	"portfolio-stress-lab/internal/identity"
)

// SheetSource is the read surface normalization needs from an opened
// workbook. ingestion.Workbook satisfies it; tests use in-memory fakes.
type SheetSource interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
}

// Positional column contract of every stress sheet (0-based).
// The workbook schema is fixed by upstream convention, not header text:
// 1st column Date, 3rd Scenario label, 5th StressPnL.
const (
	stressColDate     = 0
	stressColScenario = 2
	stressColPnL      = 4
	stressMinColumns  = 5
)

// StressResult is the output of a stress normalization pass: the unioned
// record table plus per-sheet diagnostics for unresolved identities.
type StressResult struct {
	Records []domain.StressRecord
	// Unresolved lists sheet names that matched no registered scenario.
	// Their records are present, tagged with the UNKNOWN sentinel.
	Unresolved []string
}

// NormalizeStress reads every sheet of the stress workbook: resolves the
// sheet's identity, applies the positional column contract, parses dates,
// tags each row with the resolved portfolio and scenario, and unions all
// sheets into one flat record table.
//
// An unresolvable sheet name is non-fatal: recorded in Unresolved and
// normalized under the UNKNOWN sentinel. A sheet narrower than the
// positional contract is fatal for the whole pass (ErrStructural).
func NormalizeStress(src SheetSource, reg identity.Registry) (*StressResult, error) {
	result := &StressResult{}

	for _, sheet := range src.SheetNames() {
		id := identity.Resolve(sheet, reg)
		if !id.Resolved() {
			result.Unresolved = append(result.Unresolved, sheet)
		}

		rows, err := src.Rows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}

		// First row is the header; the contract is positional, so only
		// its width is checked, never its text.
		if len(rows[0]) < stressMinColumns {
			return nil, fmt.Errorf("%w: sheet %q has %d columns, need %d",
				ErrStructural, sheet, len(rows[0]), stressMinColumns)
		}

		for i, row := range rows[1:] {
			if isBlankRow(row) {
				continue
			}
			if len(row) < stressMinColumns {
				return nil, fmt.Errorf("%w: sheet %q row %d has %d columns, need %d",
					ErrStructural, sheet, i+2, len(row), stressMinColumns)
			}

			date, err := parseDate(row[stressColDate])
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
			}
			pnl, err := parseNumber(row[stressColPnL])
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
			}

			result.Records = append(result.Records, domain.StressRecord{
				Date:         date,
				Scenario:     row[stressColScenario],
				StressPnL:    pnl,
				Portfolio:    id.Portfolio,
				ScenarioName: id.Scenario,
			})
		}
	}

	return result, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
