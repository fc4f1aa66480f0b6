package ingestion

import "fmt"

// LoadScenarioTokens reads the scenario list workbook: first sheet,
// first column, one free-text token per row. Whitespace and blank rows
// are tolerated here and cleaned up by the registry builder.
func LoadScenarioTokens(wb *Workbook) ([]string, error) {
	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("scenario list %s: workbook has no sheets", wb.Path())
	}

	rows, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			tokens = append(tokens, "")
			continue
		}
		tokens = append(tokens, row[0])
	}
	return tokens, nil
}
