package reporting

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"portfolio-stress-lab/internal/analytics"
	"portfolio-stress-lab/internal/domain"
)

// CorrelationScale converts fractional correlations to the percent
// figures shown on screen.
const CorrelationScale = 100.0

// Exporter writes query results to xlsx workbooks.
type Exporter struct {
	now func() time.Time // injectable clock for deterministic output
}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Export writes the given sheets to one workbook at path. At least one
// sheet is required.
func (e *Exporter) Export(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export %s: no sheets to write", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sheet.name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
		}
		for rowIdx, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// Sheet is one named sheet of an export workbook.
type Sheet struct {
	name string
	rows [][]any
}

// StressSheet builds a sheet of filtered stress records.
func StressSheet(name string, records []domain.StressRecord) Sheet {
	rows := [][]any{{"Date", "Portfolio", "ScenarioName", "ScenarioLabel", "StressPnL (bp)"}}
	for _, rec := range records {
		rows = append(rows, []any{
			rec.Date.Format("2006-01-02"),
			rec.Portfolio,
			rec.ScenarioName,
			rec.Scenario,
			rec.StressPnL,
		})
	}
	return Sheet{name: name, rows: rows}
}

// AggregateSheet builds a sheet of aggregate rows.
func AggregateSheet(name string, rows []analytics.AggregateRow) Sheet {
	out := [][]any{{"Portfolio", "Scenario", "Date", "Value", "Count"}}
	for _, row := range rows {
		date := ""
		if !row.Date.IsZero() {
			date = row.Date.Format("2006-01-02")
		}
		out = append(out, []any{row.Portfolio, row.Scenario, date, row.Value, row.Count})
	}
	return Sheet{name: name, rows: out}
}

// CorrelationSheet builds a sheet from a correlation slice with values
// scaled to percent, matching the on-screen display convention.
func CorrelationSheet(name string, series *domain.CorrelationSeries) Sheet {
	header := make([]any, 0, len(series.Names)+1)
	header = append(header, "Date")
	for _, n := range series.Names {
		header = append(header, n)
	}

	rows := [][]any{header}
	for i, date := range series.Dates {
		row := make([]any, 0, len(series.Names)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, n := range series.Names {
			row = append(row, series.Values[n][i]*CorrelationScale)
		}
		rows = append(rows, row)
	}
	return Sheet{name: name, rows: rows}
}
