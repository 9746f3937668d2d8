// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report holds the structured outcome of comparing one
// current-run log file against the baseline, and renders it as the
// plain-text report the CI job archives.
package report

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/tapdiff/services/compare/detect"
)

// MatchKind labels how a suite was paired with the baseline.
type MatchKind string

const (
	// MatchExact means the suite name existed verbatim in the baseline.
	MatchExact MatchKind = "exact"

	// MatchFuzzy means an approximate name match was accepted.
	MatchFuzzy MatchKind = "fuzzy"

	// MatchNone means the suite is new relative to the baseline.
	MatchNone MatchKind = "none"
)

// SuiteResult is the classification outcome for one current-run suite.
type SuiteResult struct {
	// Name is the suite name as parsed from the current run.
	Name string `json:"name"`

	// Match records how the suite was aligned with the baseline.
	Match MatchKind `json:"match"`

	// MatchedName is the baseline suite the changes were computed
	// against. Equal to Name for exact matches; empty for new suites.
	MatchedName string `json:"matched_name,omitempty"`

	// FuzzyScore is the name-similarity ratio for fuzzy matches.
	FuzzyScore float64 `json:"fuzzy_score,omitempty"`

	// Sources lists the baseline files that contributed to the
	// matched suite.
	Sources []string `json:"sources,omitempty"`

	// Additions carries the full filtered line set of a new suite
	// (MatchNone only); every line is treated as an addition.
	Additions []string `json:"additions,omitempty"`

	// Real and Noise are the partitioned change lines for matched
	// suites. Both empty means no meaningful differences.
	Real  []detect.ChangeLine `json:"real,omitempty"`
	Noise []detect.ChangeLine `json:"noise,omitempty"`
}

// FileReport is the comparison outcome for one current-run log file.
type FileReport struct {
	// FileName is the current-run file's base name.
	FileName string `json:"file_name"`

	// SuiteNames lists the suites that survived the passing-line
	// filter, in report order.
	SuiteNames []string `json:"suite_names"`

	// Suites holds the per-suite results, parallel to SuiteNames.
	Suites []SuiteResult `json:"suites"`
}

// Render produces the human-readable report section for this file.
//
// The layout is the one the Jenkins comparison job has always
// archived; downstream tooling greps it, so the exact markers
// ("===== NEW LOG:", "[NEW] Suite without match:", "Real semantic
// changes:") are load-bearing.
func (r *FileReport) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "===== NEW LOG: %s =====\n", r.FileName)
	fmt.Fprintf(&b, "Parsed suites: %s\n\n", strings.Join(r.SuiteNames, ", "))

	for _, suite := range r.Suites {
		switch suite.Match {
		case MatchNone:
			fmt.Fprintf(&b, "[NEW] Suite without match: %s\n", suite.Name)
			for _, line := range suite.Additions {
				fmt.Fprintf(&b, "   + %s\n", line)
			}
			b.WriteString("\n")
			continue

		case MatchFuzzy:
			fmt.Fprintf(&b, "Fuzzy match: '%s' -> '%s'\n", suite.Name, suite.MatchedName)
		}

		fmt.Fprintf(&b, "Comparing suite '%s' (from %s)\n",
			suite.Name, strings.Join(suite.Sources, ", "))

		if len(suite.Real) > 0 {
			b.WriteString("Real semantic changes:\n")
			for _, change := range suite.Real {
				fmt.Fprintf(&b, "   - %s\n", change.String())
			}
		} else {
			b.WriteString("No meaningful test differences.\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}
