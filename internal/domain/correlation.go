package domain

import "time"

// CorrelationSeries is a date-indexed table of correlation values, one
// column per named series. Dates are unique and sorted ascending; values
// stay fractional in [-1, 1] — scaling to percent happens at export time.
type CorrelationSeries struct {
	Names  []string               // column order as read from the sheet header
	Dates  []time.Time            // ascending, unique
	Values map[string][]float64   // series name -> values aligned with Dates
}

// Len returns the number of dated rows.
func (c *CorrelationSeries) Len() int {
	return len(c.Dates)
}

// HasSeries reports whether a named column exists.
func (c *CorrelationSeries) HasSeries(name string) bool {
	_, ok := c.Values[name]
	return ok
}

// Slice returns the sub-series restricted to [start, end] (inclusive) and
// to the requested column names. Unknown names are skipped. An empty name
// selection yields a series with no columns — a valid terminal state for
// the caller, not an error.
func (c *CorrelationSeries) Slice(start, end time.Time, names []string) *CorrelationSeries {
	lo := 0
	for lo < len(c.Dates) && c.Dates[lo].Before(start) {
		lo++
	}
	hi := len(c.Dates)
	for hi > lo && c.Dates[hi-1].After(end) {
		hi--
	}

	out := &CorrelationSeries{
		Dates:  append([]time.Time(nil), c.Dates[lo:hi]...),
		Values: make(map[string][]float64),
	}
	for _, name := range names {
		col, ok := c.Values[name]
		if !ok {
			continue
		}
		out.Names = append(out.Names, name)
		out.Values[name] = append([]float64(nil), col[lo:hi]...)
	}
	return out
}
