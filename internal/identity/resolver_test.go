package identity

import (
	"testing"

	"portfolio-stress-lab/internal/domain"
)

func TestResolve_LongestSuffixWins(t *testing.T) {
	// "USDN" is a proper suffix of "USDN_REL"; the longer token must win.
	reg := BuildRegistry([]string{"USDN", "USDN_REL"})

	id := Resolve("PORT1_USDN_REL", reg)

	if id.Portfolio != "PORT1" || id.Scenario != "USDN_REL" {
		t.Errorf("expected (PORT1, USDN_REL), got (%s, %s)", id.Portfolio, id.Scenario)
	}
}

func TestResolve_ShorterTokenStillMatches(t *testing.T) {
	reg := BuildRegistry([]string{"USDN", "USDN_REL"})

	id := Resolve("PORT1_USDN", reg)

	if id.Portfolio != "PORT1" || id.Scenario != "USDN" {
		t.Errorf("expected (PORT1, USDN), got (%s, %s)", id.Portfolio, id.Scenario)
	}
}

func TestResolve_UnderscoreInsidePortfolio(t *testing.T) {
	// The nominal separator also appears inside the portfolio part.
	reg := BuildRegistry([]string{"RATES_UP"})

	id := Resolve("EM_FUND_A_RATES_UP", reg)

	if id.Portfolio != "EM_FUND_A" || id.Scenario != "RATES_UP" {
		t.Errorf("expected (EM_FUND_A, RATES_UP), got (%s, %s)", id.Portfolio, id.Scenario)
	}
}

func TestResolve_NoMatchFallsBackToUnknown(t *testing.T) {
	reg := BuildRegistry([]string{"RATES_UP"})

	id := Resolve("SomethingElse", reg)

	if id.Portfolio != "SomethingElse" || id.Scenario != domain.ScenarioUnknown {
		t.Errorf("expected (SomethingElse, UNKNOWN), got (%s, %s)", id.Portfolio, id.Scenario)
	}
	if id.Resolved() {
		t.Error("expected Resolved() false for UNKNOWN identity")
	}
}

func TestResolve_BareScenarioTokenDoesNotMatch(t *testing.T) {
	// A sheet name equal to a registered token has no "_"+token suffix
	// with a non-empty prefix, so it must fall through to UNKNOWN.
	reg := BuildRegistry([]string{"RATES_UP"})

	id := Resolve("RATES_UP", reg)

	if id.Scenario != domain.ScenarioUnknown {
		t.Errorf("expected UNKNOWN for bare token, got %s", id.Scenario)
	}
	if id.Portfolio != "RATES_UP" {
		t.Errorf("expected portfolio to default to whole name, got %s", id.Portfolio)
	}
}

func TestResolve_UnderscorePrefixedTokenOnly(t *testing.T) {
	// "_RATES_UP" would split to an empty portfolio; treated as no match.
	reg := BuildRegistry([]string{"RATES_UP"})

	id := Resolve("_RATES_UP", reg)

	if id.Scenario != domain.ScenarioUnknown {
		t.Errorf("expected UNKNOWN for empty portfolio prefix, got %s", id.Scenario)
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	reg := BuildRegistry([]string{"USDN", "USDN_REL", "RATES_DOWN"})

	names := []string{"PORT1_USDN_REL", "PORT1_USDN", "EM_FUND_A_RATES_DOWN"}
	for _, name := range names {
		id := Resolve(name, reg)
		if !id.Resolved() {
			t.Fatalf("%s: expected a resolved identity", name)
		}
		if got := id.Portfolio + "_" + id.Scenario; got != name {
			t.Errorf("round-trip failed: %q != %q", got, name)
		}
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	id := Resolve("PORT1_USDN", BuildRegistry(nil))

	if id.Scenario != domain.ScenarioUnknown {
		t.Errorf("expected UNKNOWN under empty registry, got %s", id.Scenario)
	}
}
