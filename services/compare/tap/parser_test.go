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
	"reflect"
	"strings"
	"testing"
)

func TestParseSections_NoBoundaries(t *testing.T) {
	inputs := []string{
		"",
		"just some chatter\nanother line",
		"ok 1 - passing test\nok 2 - another pass",
	}

	for _, text := range inputs {
		sections := ParseSections(text)
		if len(sections) != 0 {
			t.Errorf("ParseSections(%q) = %v, want empty map", text, sections)
		}
	}
}

func TestParseSections_TestResultsHeader(t *testing.T) {
	t.Run("strict name capture", func(t *testing.T) {
		text := strings.Join([]string{
			"dropped preamble line",
			"jit_compiler - Test results: 4 passed, 1 failed",
			"first content line",
			"second content line",
		}, "\n")

		sections := ParseSections(text)
		lines, ok := sections["jit_compiler"]
		if !ok {
			t.Fatalf("suite %q not found, got %v", "jit_compiler", sections)
		}

		want := []string{"first content line", "second content line"}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines = %v, want %v", lines, want)
		}
	})

	t.Run("header line is discarded", func(t *testing.T) {
		sections := ParseSections("gc - Test results:\ncontent")
		for _, ln := range sections["gc"] {
			if strings.Contains(ln, "Test results:") {
				t.Errorf("header line leaked into content: %q", ln)
			}
		}
	})

	t.Run("multi-token names capture the last token", func(t *testing.T) {
		// The strict pattern is an unanchored search, so only the
		// token immediately before the dash becomes the name.
		sections := ParseSections("openjdk hotspot gc - Test results: all bad\nline one")
		lines, ok := sections["gc"]
		if !ok {
			t.Fatalf("suite %q not found, got %v", "gc", sections)
		}
		if !reflect.DeepEqual(lines, []string{"line one"}) {
			t.Errorf("lines = %v, want [line one]", lines)
		}
	})

	t.Run("loose fallback when no name abuts the dash", func(t *testing.T) {
		// Nothing before the marker: the strict pattern cannot match,
		// so the everything-before-marker fallback yields an empty
		// name rather than dropping the section.
		sections := ParseSections("- Test results: summary\norphan line")
		lines, ok := sections[""]
		if !ok {
			t.Fatalf("fallback suite not found, got %v", sections)
		}
		if !reflect.DeepEqual(lines, []string{"orphan line"}) {
			t.Errorf("lines = %v, want [orphan line]", lines)
		}
	})
}

func TestParseSections_NotOkBoundary(t *testing.T) {
	text := strings.Join([]string{
		"not ok 3 - TestStringDedup",
		"# expected 5 got 7",
		"# at line 120",
	}, "\n")

	sections := ParseSections(text)
	lines, ok := sections["TestStringDedup"]
	if !ok {
		t.Fatalf("suite not found, got %v", sections)
	}

	// The failure record itself is the first content line.
	if lines[0] != "not ok 3 - TestStringDedup" {
		t.Errorf("first line = %q, want the trigger line", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("len(lines) = %d, want 3", len(lines))
	}
}

func TestParseSections_BoundaryCommitsPrevious(t *testing.T) {
	text := strings.Join([]string{
		"alpha - Test results:",
		"alpha line",
		"not ok 1 - beta",
		"beta detail",
		"gamma - Test results:",
		"gamma line",
	}, "\n")

	sections := ParseSections(text)

	if len(sections) != 3 {
		t.Fatalf("len(sections) = %d, want 3: %v", len(sections), sections)
	}
	if !reflect.DeepEqual(sections["alpha"], []string{"alpha line"}) {
		t.Errorf("alpha = %v", sections["alpha"])
	}
	if !reflect.DeepEqual(sections["beta"], []string{"not ok 1 - beta", "beta detail"}) {
		t.Errorf("beta = %v", sections["beta"])
	}
	// Last open suite commits at EOF.
	if !reflect.DeepEqual(sections["gamma"], []string{"gamma line"}) {
		t.Errorf("gamma = %v", sections["gamma"])
	}
}

func TestParseSections_DuplicateNameReplaces(t *testing.T) {
	text := strings.Join([]string{
		"alpha - Test results:",
		"first pass",
		"break - Test results:",
		"middle",
		"alpha - Test results:",
		"second pass",
	}, "\n")

	sections := ParseSections(text)
	if !reflect.DeepEqual(sections["alpha"], []string{"second pass"}) {
		t.Errorf("alpha = %v, want the later accumulation only", sections["alpha"])
	}
}

func TestParseSections_TrimsContentLines(t *testing.T) {
	sections := ParseSections("s - Test results:\n   padded line   \r")
	if !reflect.DeepEqual(sections["s"], []string{"padded line"}) {
		t.Errorf("lines = %v, want trimmed content", sections["s"])
	}
}
