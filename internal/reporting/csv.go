// Package reporting renders query results as CSV strings and exports
// them as downloadable xlsx workbooks. Display scaling (correlations
// ×100 to percent) happens here and only here, so exported figures match
// the on-screen ones while the core tables stay fractional.
package reporting

import (
	"fmt"
	"strings"

	"portfolio-stress-lab/internal/analytics"
	"portfolio-stress-lab/internal/domain"
)

// RenderAggregatesCSV renders aggregate rows as a CSV string.
func RenderAggregatesCSV(rows []analytics.AggregateRow) string {
	var sb strings.Builder

	sb.WriteString("portfolio,scenario,date,value,count\n")
	for _, row := range rows {
		date := ""
		if !row.Date.IsZero() {
			date = row.Date.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.6f,%d\n",
			row.Portfolio,
			row.Scenario,
			date,
			row.Value,
			row.Count,
		))
	}
	return sb.String()
}

// RenderStressCSV renders stress records as a CSV string.
func RenderStressCSV(records []domain.StressRecord) string {
	var sb strings.Builder

	sb.WriteString("date,portfolio,scenario_name,scenario_label,stress_pnl_bp\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.6f\n",
			rec.Date.Format("2006-01-02"),
			rec.Portfolio,
			rec.ScenarioName,
			csvEscape(rec.Scenario),
			rec.StressPnL,
		))
	}
	return sb.String()
}

// csvEscape quotes a free-text field when it contains a comma or quote.
// The identifier fields never need this; the raw scenario label can.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
