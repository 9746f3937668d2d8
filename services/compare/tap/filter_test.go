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
	"testing"
)

func TestFilterPassing(t *testing.T) {
	t.Run("drops ok lines and their trailing chatter", func(t *testing.T) {
		lines := []string{
			"TEST: startup",
			"ok 1 - init",
			"timing: 12ms",
			"ok 2 - warmup",
			"timing: 4ms",
		}

		got := FilterPassing(lines)
		want := []string{"TEST: startup"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FilterPassing = %v, want %v", got, want)
		}
	})

	t.Run("failure record flips skipping off", func(t *testing.T) {
		lines := []string{
			"ok 1 - init",
			"skipped chatter",
			"not ok 2 - crash",
			"# stack trace line",
			"error: timeout",
		}

		got := FilterPassing(lines)
		want := []string{
			"not ok 2 - crash",
			"# stack trace line",
			"error: timeout",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FilterPassing = %v, want %v", got, want)
		}
	})

	t.Run("keeps everything when no result lines present", func(t *testing.T) {
		lines := []string{"TEST: login succeeds", "some detail"}
		got := FilterPassing(lines)
		if !reflect.DeepEqual(got, lines) {
			t.Errorf("FilterPassing = %v, want input unchanged", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := FilterPassing(nil); len(got) != 0 {
			t.Errorf("FilterPassing(nil) = %v, want empty", got)
		}
	})
}

func TestFilterPassing_Idempotent(t *testing.T) {
	lines := []string{
		"preamble",
		"ok 1 - a",
		"hidden",
		"not ok 2 - b",
		"detail",
		"ok 3 - c",
		"more hidden",
	}

	once := FilterPassing(lines)
	twice := FilterPassing(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent: once=%v twice=%v", once, twice)
	}
}
