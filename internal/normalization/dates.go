package normalization

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing date cells. excelize
// formats date cells per the workbook's number format, so both ISO and
// the common slash styles show up in practice.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2/1/2006",
	"2006/01/02",
	"02 Jan 2006",
}

// parseDate parses a date cell string into a UTC calendar date.
func parseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseNumber parses a numeric cell, tolerating surrounding whitespace
// and thousands separators.
func parseNumber(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number %q", cell)
	}
	return v, nil
}
