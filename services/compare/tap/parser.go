// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tap partitions raw TAP build logs into named test-suite
// sections and filters passing-test churn out of them.
//
// The log format handled here is the one Jenkins archives for our
// native test builds: free-text chatter, per-suite headers of the
// form "<suite> - Test results:", and TAP result lines
// ("ok N - name" / "not ok N - name"). A suite is a named group of
// consecutive lines; every line between two suite boundaries belongs
// to the suite opened by the earlier boundary.
package tap

import (
	"regexp"
	"strings"
)

// testResultsMarker is the literal that identifies a suite header line.
const testResultsMarker = "- Test results:"

var (
	// testResultsPattern captures the suite name preceding the header
	// marker. A header whose name segment contains whitespace falls
	// back to the loose extraction below.
	testResultsPattern = regexp.MustCompile(`(\S+)\s*-\s*Test results:`)

	// notOkPattern matches a TAP failure record. The first
	// whitespace-delimited token after the dash is the suite name.
	notOkPattern = regexp.MustCompile(`^not ok\s+\d+\s*-\s*(\S+)`)
)

// parserState tracks the section cursor of ParseSections.
type parserState int

const (
	// stateIdle means no suite is open; content lines are dropped.
	stateIdle parserState = iota

	// stateOpen means a suite is accumulating content lines.
	stateOpen
)

// ParseSections splits raw log text into per-suite line groups.
//
// # Description
//
// Scans lines in order with an explicit cursor state machine. A line
// opens (or re-opens) a suite when it is either a "Test results:"
// header or a "not ok N - name" failure record. Header lines are
// discarded; failure records are retained as the first content line
// of the suite they open. All other lines are trimmed and appended
// to the open suite, or dropped when no suite is open yet.
//
// When a boundary is hit, the previous suite's accumulation is
// committed to the result map. A later commit under the same name
// replaces the earlier one; merging sections of the same name across
// files is the SuiteIndex's job, not this function's.
//
// # Inputs
//
//   - text: Raw content of one log file.
//
// # Outputs
//
//   - map[string][]string: Suite name to ordered content lines.
//     Empty (non-nil) when the text contains no suite boundaries.
func ParseSections(text string) map[string][]string {
	sections := make(map[string][]string)

	state := stateIdle
	var currentSuite string
	var currentLines []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		var suite string
		var retainTrigger bool

		switch {
		case strings.Contains(line, testResultsMarker):
			if m := testResultsPattern.FindStringSubmatch(line); m != nil {
				suite = strings.TrimSpace(m[1])
			} else {
				// Malformed header: take everything before the marker.
				suite = strings.TrimSpace(strings.SplitN(line, testResultsMarker, 2)[0])
			}

		case notOkPattern.MatchString(line):
			m := notOkPattern.FindStringSubmatch(line)
			suite = m[1]
			retainTrigger = true

		default:
			if state == stateOpen {
				currentLines = append(currentLines, line)
			}
			continue
		}

		// Boundary hit: commit the previous suite before switching.
		if state == stateOpen {
			sections[currentSuite] = currentLines
		}

		currentSuite = suite
		if retainTrigger {
			currentLines = []string{line}
		} else {
			currentLines = []string{}
		}
		state = stateOpen
	}

	if state == stateOpen {
		sections[currentSuite] = currentLines
	}

	return sections
}
