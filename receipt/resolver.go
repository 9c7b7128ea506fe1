/*
resolver.go - Abbreviation-to-participant resolution

PURPOSE:
  Maps user-typed abbreviations ("Al", "S") to canonical participant names.
  Matching is case-sensitive character-set containment: every character of
  the abbreviation must occur somewhere in the candidate name. The first
  unclaimed participant in canonical order wins; there is no best-match or
  edit-distance upgrade, callers rely on this exact leniency.

MEMOIZATION:
  Successful matches are recorded in the receipt's abbreviation map and
  reused by later calls. The map only grows; a learned mapping is never
  revised, so the same abbreviation can resolve differently on a fresh
  receipt than on one with history.

SEE ALSO:
  - receipt.go: Owns the abbreviation map
  - errors.go: ErrInvalidAbbreviation, ErrDuplicatePeople
*/
package receipt

import (
	"fmt"
	"strings"
)

// ResolveAbbreviations maps each abbreviation to a distinct participant and
// returns the names in input order. Duplicate abbreviations in one call fail
// before any matching happens. Two abbreviations landing on the same person
// in one call fail with the clash reported. Matches learned before a failure
// stay in the receipt's abbreviation map.
func (r *Receipt) ResolveAbbreviations(abbreviations []string) ([]string, error) {
	seen := make(map[string]struct{}, len(abbreviations))
	for _, abbrev := range abbreviations {
		if _, ok := seen[abbrev]; ok {
			return nil, fmt.Errorf("%w: %q appears more than once", ErrInvalidAbbreviation, abbrev)
		}
		seen[abbrev] = struct{}{}
	}

	claimed := make(map[string]struct{}, len(abbreviations))
	resolved := make([]string, 0, len(abbreviations))
	for _, abbrev := range abbreviations {
		if name, ok := r.abbreviations[abbrev]; ok {
			if _, taken := claimed[name]; taken {
				return nil, &AbbreviationClashError{Abbreviation: abbrev, Name: name}
			}
			claimed[name] = struct{}{}
			resolved = append(resolved, name)
			continue
		}
		name, ok := r.matchParticipant(abbrev, claimed)
		if !ok {
			return nil, fmt.Errorf("%w: %q does not match any participant", ErrInvalidAbbreviation, abbrev)
		}
		r.abbreviations[abbrev] = name
		claimed[name] = struct{}{}
		resolved = append(resolved, name)
	}
	return resolved, nil
}

// matchParticipant scans participants in canonical order for the first name
// not yet claimed in this call that covers the abbreviation's characters.
func (r *Receipt) matchParticipant(abbrev string, claimed map[string]struct{}) (string, bool) {
	for _, name := range r.participants {
		if _, taken := claimed[name]; taken {
			continue
		}
		if coversCharacters(name, abbrev) {
			return name, true
		}
	}
	return "", false
}

// coversCharacters reports whether every character of abbrev occurs somewhere
// in name. Repeated characters need only a single occurrence; comparison is
// case-sensitive.
func coversCharacters(name, abbrev string) bool {
	for _, c := range abbrev {
		if !strings.ContainsRune(name, c) {
			return false
		}
	}
	return true
}
