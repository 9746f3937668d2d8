// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tap

import (
	"regexp"
	"strings"
)

var (
	// okLinePattern matches a passing TAP result line.
	okLinePattern = regexp.MustCompile(`^ok\s+\d+\s*-`)

	// notOkLinePattern matches a failing TAP result line.
	notOkLinePattern = regexp.MustCompile(`^not ok\s+\d+\s*-`)
)

// FilterPassing removes passing-test lines and the chatter that
// follows them.
//
// # Description
//
// Long runs of passing sub-tests are noise; failure records and the
// free-text commentary around them are signal. The filter is a small
// state machine: an "ok N -" line starts skip mode and is dropped, a
// "not ok N -" line ends skip mode and is kept, and any other line is
// kept only while not skipping. Commentary that trails a failure
// therefore survives even inside a suite dominated by passes.
//
// The filter is idempotent: filtered output contains no "ok N -"
// lines, so a second pass keeps everything.
//
// # Inputs
//
//   - lines: Ordered content lines of one suite.
//
// # Outputs
//
//   - []string: The surviving lines, in input order. Callers drop
//     suites whose filtered list is empty.
func FilterPassing(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	skipping := false

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		switch {
		case okLinePattern.MatchString(stripped):
			skipping = true

		case notOkLinePattern.MatchString(stripped):
			skipping = false
			filtered = append(filtered, line)

		default:
			if !skipping {
				filtered = append(filtered, line)
			}
		}
	}

	return filtered
}
