package domain

import "time"

// ScenarioUnknown is the sentinel scenario assigned when a sheet name
// matches no registered scenario token. Records carrying it are surfaced
// as diagnostics, never silently dropped.
const ScenarioUnknown = "UNKNOWN"

// ResolvedIdentity is the (portfolio, scenario) pair recovered from a
// composite sheet name. When Scenario != ScenarioUnknown the invariant
// Portfolio + "_" + Scenario == original sheet name holds.
type ResolvedIdentity struct {
	Portfolio string // prefix before the scenario suffix; whole sheet name on no match
	Scenario  string // matched registry token, or ScenarioUnknown
}

// Resolved reports whether the identity was matched against the registry.
func (r ResolvedIdentity) Resolved() bool {
	return r.Scenario != ScenarioUnknown
}

// StressRecord is one normalized row of the stress table: the simulated
// P&L of a portfolio under a scenario on a given date.
type StressRecord struct {
	Date         time.Time // calendar date parsed from the sheet's first column
	Scenario     string    // raw scenario label from the sheet's third column
	StressPnL    float64   // simulated profit/loss in basis points
	Portfolio    string    // from ResolvedIdentity
	ScenarioName string    // from ResolvedIdentity
}

// ExposureRecord is one row of the exposure table.
// Columns 1/4/5/6/7 of the exposure sheet, positionally.
type ExposureRecord struct {
	Date           time.Time
	Portfolio      string
	EquityExposure float64
	Duration       float64
	SpreadDuration float64
}
