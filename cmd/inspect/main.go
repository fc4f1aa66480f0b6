// Package main inspects the configured input workbooks and prints how
// each sheet resolves against the scenario registry — the first thing
// to run when a portfolio is missing from the dashboard.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"portfolio-stress-lab/internal/config"
	"portfolio-stress-lab/internal/identity"
	"portfolio-stress-lab/internal/ingestion"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	scenarioList := flag.String("scenario-list", cfg.ScenarioListPath, "Scenario registry workbook")
	stressBook := flag.String("stress-workbook", cfg.StressWorkbookPath, "Stress test workbook")
	flag.Parse()

	listWB, err := ingestion.Open(*scenarioList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open scenario list: %v\n", err)
		os.Exit(1)
	}
	tokens, err := ingestion.LoadScenarioTokens(listWB)
	listWB.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read scenario list: %v\n", err)
		os.Exit(1)
	}
	reg := identity.BuildRegistry(tokens)

	fmt.Printf("Scenario registry (%d tokens, longest first):\n", len(reg))
	for _, token := range reg {
		fmt.Printf("  %s\n", token)
	}

	wb, err := ingestion.Open(*stressBook)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open stress workbook: %v\n", err)
		os.Exit(1)
	}
	defer wb.Close()

	names := wb.SheetNames()
	sort.Strings(names)

	fmt.Printf("\nStress workbook: %s (%d sheets)\n", *stressBook, len(names))
	unresolved := 0
	for _, name := range names {
		id := identity.Resolve(name, reg)
		if id.Resolved() {
			fmt.Printf("  %-30s -> portfolio=%s scenario=%s\n", name, id.Portfolio, id.Scenario)
		} else {
			fmt.Printf("  %-30s -> UNRESOLVED\n", name)
			unresolved++
		}
	}
	if unresolved > 0 {
		fmt.Printf("\n%d sheet(s) match no registry token; their records will carry the UNKNOWN scenario.\n", unresolved)
		os.Exit(2)
	}
}
