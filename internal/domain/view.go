package domain

import "time"

// ViewFilter is the explicit selection state of a dashboard view: date
// range plus portfolio/scenario/series choices. It is passed by value
// through every query function; there is no ambient "active tab" state.
type ViewFilter struct {
	Start      time.Time // zero means unbounded
	End        time.Time // zero means unbounded
	Portfolios []string  // nil means all; empty non-nil means none selected
	Scenarios  []string  // nil means all; empty non-nil means none selected
	Series     []string  // correlation series selection, same convention
}

// MatchesDate reports whether d falls inside the filter's date range.
func (f ViewFilter) MatchesDate(d time.Time) bool {
	if !f.Start.IsZero() && d.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && d.After(f.End) {
		return false
	}
	return true
}

// MatchesPortfolio reports whether the portfolio is selected.
func (f ViewFilter) MatchesPortfolio(p string) bool {
	return matchesSelection(f.Portfolios, p)
}

// MatchesScenario reports whether the scenario is selected.
func (f ViewFilter) MatchesScenario(s string) bool {
	return matchesSelection(f.Scenarios, s)
}

func matchesSelection(selection []string, value string) bool {
	if selection == nil {
		return true
	}
	for _, s := range selection {
		if s == value {
			return true
		}
	}
	return false
}
