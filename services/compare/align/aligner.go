// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package align matches a current-run suite name to its baseline
// counterpart. Suite names drift slightly between builds (added
// prefixes, path changes, separator swaps), so an exact key lookup is
// tried first and an approximate match second. Exact-match-first
// avoids false fuzzy pairings when an exact name still exists.
package align

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/AleutianAI/tapdiff/services/compare/tap"
)

// DefaultFuzzyCutoff is the minimum similarity ratio for accepting an
// approximate suite-name match.
const DefaultFuzzyCutoff = 0.6

// MatchKind labels how a suite name was aligned.
type MatchKind int

const (
	// NoMatch means no baseline suite was similar enough.
	NoMatch MatchKind = iota

	// Exact means the name is a key of the baseline index.
	Exact

	// Fuzzy means an approximate match was accepted.
	Fuzzy
)

// String returns the wire-friendly name of the kind.
func (k MatchKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// MatchResult is the outcome of aligning one suite name.
//
// Name is the matched baseline suite name (empty for NoMatch). Score
// is the similarity ratio and is only meaningful for Fuzzy matches.
type MatchResult struct {
	Kind  MatchKind
	Name  string
	Score float64
}

// Align matches a current-run suite name against the baseline index
// using the default fuzzy cutoff.
func Align(currentName string, index *tap.SuiteIndex) MatchResult {
	return AlignWithCutoff(currentName, index, DefaultFuzzyCutoff)
}

// AlignWithCutoff matches a current-run suite name against the
// baseline index.
//
// # Description
//
// An exact key match wins outright, regardless of how any fuzzy
// candidate would score. Otherwise every baseline name is scored with
// a sequence-alignment ratio and the single best candidate at or
// above the cutoff is accepted; ties keep the first-seen candidate.
//
// # Inputs
//
//   - currentName: Suite name from the current run.
//   - index: Read-only baseline index.
//   - cutoff: Minimum acceptable similarity ratio in [0,1].
func AlignWithCutoff(currentName string, index *tap.SuiteIndex, cutoff float64) MatchResult {
	if index.Has(currentName) {
		return MatchResult{Kind: Exact, Name: currentName}
	}

	name, score, ok := BestMatch(currentName, index.Names(), cutoff)
	if !ok {
		return MatchResult{Kind: NoMatch}
	}
	return MatchResult{Kind: Fuzzy, Name: name, Score: score}
}

// BestMatch returns the candidate most similar to target, provided
// its ratio reaches the cutoff.
//
// # Description
//
// Character-level difflib ratio against each candidate; the first
// candidate with the strictly highest ratio wins. This mirrors the
// single-best behavior used for suite alignment rather than a top-k
// ranking.
//
// # Outputs
//
//   - string: Best candidate (empty when none reached the cutoff).
//   - float64: Its similarity ratio.
//   - bool: Whether an acceptable candidate was found.
func BestMatch(target string, candidates []string, cutoff float64) (string, float64, bool) {
	targetChars := splitChars(target)

	var (
		bestName  string
		bestScore float64
		found     bool
	)
	for _, candidate := range candidates {
		ratio := difflib.NewMatcher(splitChars(candidate), targetChars).Ratio()
		if ratio < cutoff {
			continue
		}
		if !found || ratio > bestScore {
			bestName = candidate
			bestScore = ratio
			found = true
		}
	}

	return bestName, bestScore, found
}

// splitChars turns a string into the per-character sequence the
// matcher operates on.
func splitChars(s string) []string {
	return strings.Split(s, "")
}
