// Package ingestion reads the spreadsheet inputs (scenario list, stress,
// correlation and exposure workbooks) and memoizes parsed results by
// content fingerprint.
package ingestion

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps an opened xlsx file behind the minimal sheet-table
// surface the loaders need. Callers must Close it.
type Workbook struct {
	path string
	file *excelize.File
}

// Open opens an xlsx workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Path returns the workbook's file path.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames returns all sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Rows returns a sheet's cells as formatted strings, row-major.
// Trailing empty cells are absent per excelize semantics; loaders enforce
// their own positional column contracts.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, w.path, err)
	}
	return rows, nil
}
