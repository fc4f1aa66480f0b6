// Package identity resolves composite stress-sheet names into
// (portfolio, scenario) pairs using a registry of known scenario tokens.
package identity

import (
	"sort"
	"strings"
)

// Registry is the ordered list of known scenario tokens, sorted by
// descending length so that greedy suffix matching tries the most
// specific token first ("USDN_REL" before "USDN").
type Registry []string

// BuildRegistry builds a Registry from a raw token column. It trims
// whitespace, drops blank entries, and sorts by length descending with
// stable ties (original relative order preserved). An empty input yields
// an empty registry, under which every sheet resolves to UNKNOWN.
func BuildRegistry(rawTokens []string) Registry {
	tokens := make(Registry, 0, len(rawTokens))
	for _, t := range rawTokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		tokens = append(tokens, t)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens
}

// Contains reports whether the registry holds the exact token.
func (r Registry) Contains(token string) bool {
	for _, t := range r {
		if t == token {
			return true
		}
	}
	return false
}
