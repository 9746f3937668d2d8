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

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// TextualRatio computes the character-level edit similarity of two
// lines in [0,1].
//
// This is the longest-common-subsequence-style ratio of difflib's
// SequenceMatcher (2*M / total length), with the current line as the
// first sequence and the baseline line as the second. The matcher's
// junk heuristics depend on the second sequence, so argument order is
// part of the contract.
func TextualRatio(current, baseline string) float64 {
	return difflib.NewMatcher(
		strings.Split(current, ""),
		strings.Split(baseline, ""),
	).Ratio()
}
