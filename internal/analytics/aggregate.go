package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"portfolio-stress-lab/internal/domain"
)

// GroupKey selects a categorical grouping dimension of the stress table.
type GroupKey int

const (
	KeyPortfolio GroupKey = iota
	KeyScenario
	KeyDate
)

// String returns the key's column name.
func (k GroupKey) String() string {
	switch k {
	case KeyPortfolio:
		return "portfolio"
	case KeyScenario:
		return "scenario"
	case KeyDate:
		return "date"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// AggregateOp is a reduction applied to each group's values.
type AggregateOp struct {
	Name  string
	apply func(values []float64) float64
}

// Standard reductions. OpQuantile builds one for an arbitrary fraction.
var (
	OpSum    = AggregateOp{Name: "sum", apply: Sum}
	OpMean   = AggregateOp{Name: "mean", apply: Mean}
	OpMedian = AggregateOp{Name: "median", apply: Median}
)

// OpQuantile returns the reduction computing the p-quantile
// (linear interpolation; 0.15, 0.25 and 0.75 are the fractions the
// dashboard views use).
func OpQuantile(p float64) AggregateOp {
	return AggregateOp{
		Name:  fmt.Sprintf("q%02.0f", p*100),
		apply: func(values []float64) float64 { return Quantile(values, p) },
	}
}

// ValueFunc extracts the numeric field being aggregated.
type ValueFunc func(r domain.StressRecord) float64

// StressPnL extracts the stress P&L field.
func StressPnL(r domain.StressRecord) float64 {
	return r.StressPnL
}

// AggregateRow is one group's reduced value. Only the fields named by
// the grouping keys are populated.
type AggregateRow struct {
	Portfolio string
	Scenario  string
	Date      time.Time
	Value     float64
	Count     int // records reduced into this row
}

// Aggregate reduces records grouped by the given keys. Output rows are
// sorted by their composite group key for deterministic order.
// Aggregating a one-row-per-key table by the same keys is the identity.
func Aggregate(records []domain.StressRecord, keys []GroupKey, value ValueFunc, op AggregateOp) []AggregateRow {
	type group struct {
		row    AggregateRow
		values []float64
	}

	groups := make(map[string]*group)
	for _, rec := range records {
		id := groupID(rec, keys)
		g, ok := groups[id]
		if !ok {
			g = &group{row: rowFor(rec, keys)}
			groups[id] = g
		}
		g.values = append(g.values, value(rec))
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]AggregateRow, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		g.row.Value = op.apply(g.values)
		g.row.Count = len(g.values)
		rows = append(rows, g.row)
	}
	return rows
}

func groupID(rec domain.StressRecord, keys []GroupKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch k {
		case KeyPortfolio:
			parts = append(parts, rec.Portfolio)
		case KeyScenario:
			parts = append(parts, rec.ScenarioName)
		case KeyDate:
			parts = append(parts, rec.Date.Format("2006-01-02"))
		}
	}
	return strings.Join(parts, "\x1f")
}

func rowFor(rec domain.StressRecord, keys []GroupKey) AggregateRow {
	var row AggregateRow
	for _, k := range keys {
		switch k {
		case KeyPortfolio:
			row.Portfolio = rec.Portfolio
		case KeyScenario:
			row.Scenario = rec.ScenarioName
		case KeyDate:
			row.Date = rec.Date
		}
	}
	return row
}
