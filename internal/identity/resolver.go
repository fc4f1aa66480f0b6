package identity

import (
	"strings"

	"portfolio-stress-lab/internal/domain"
)

// Resolve splits a composite sheet name into (portfolio, scenario) by
// greedy longest-suffix match against the registry: the first token t
// (in length-descending registry order) for which the name ends with
// "_"+t wins, and the name splits at that boundary. On success the
// round-trip invariant portfolio + "_" + scenario == sheetName holds.
//
// A name matching no token resolves to (sheetName, UNKNOWN) — a recorded
// anomaly, not an error. A name that is itself exactly a registered token
// does NOT match: the suffix rule requires a preceding "_", which must be
// consumed by the split, so a bare token has no portfolio prefix to yield.
func Resolve(sheetName string, reg Registry) domain.ResolvedIdentity {
	for _, token := range reg {
		suffix := "_" + token
		if strings.HasSuffix(sheetName, suffix) && len(sheetName) > len(suffix) {
			return domain.ResolvedIdentity{
				Portfolio: sheetName[:len(sheetName)-len(suffix)],
				Scenario:  token,
			}
		}
	}
	return domain.ResolvedIdentity{
		Portfolio: sheetName,
		Scenario:  domain.ScenarioUnknown,
	}
}
