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

import "sort"

// SuiteIndex accumulates the parsed suites of all baseline files.
//
// # Description
//
// Multiple baseline files may contribute sections to the same logical
// suite; the index merges their line lists in file order and records
// which source files contributed to each suite so reports can show
// provenance. Suite names are kept in first-seen order (section names
// within one file are added in sorted order) so candidate scans and
// report iteration are deterministic.
//
// # Thread Safety
//
// SuiteIndex is NOT safe for concurrent mutation. Build it fully with
// AddFile, then treat it as read-only; reads are safe concurrently
// after that.
type SuiteIndex struct {
	names   []string
	lines   map[string][]string
	sources map[string]map[string]struct{}
}

// NewSuiteIndex creates an empty SuiteIndex.
func NewSuiteIndex() *SuiteIndex {
	return &SuiteIndex{
		lines:   make(map[string][]string),
		sources: make(map[string]map[string]struct{}),
	}
}

// AddFile merges one file's parsed sections into the index.
//
// # Inputs
//
//   - source: Identifier of the contributing file (base name).
//   - sections: Output of ParseSections for that file.
func (x *SuiteIndex) AddFile(source string, sections map[string][]string) {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := x.lines[name]; !ok {
			x.names = append(x.names, name)
			x.lines[name] = nil
			x.sources[name] = make(map[string]struct{})
		}
		x.lines[name] = append(x.lines[name], sections[name]...)
		x.sources[name][source] = struct{}{}
	}
}

// Has reports whether the index contains the exact suite name.
func (x *SuiteIndex) Has(name string) bool {
	_, ok := x.lines[name]
	return ok
}

// Len returns the number of distinct suites in the index.
func (x *SuiteIndex) Len() int {
	return len(x.names)
}

// Names returns the suite names in first-seen order.
//
// The returned slice is a copy; callers may not mutate index state
// through it.
func (x *SuiteIndex) Names() []string {
	out := make([]string, len(x.names))
	copy(out, x.names)
	return out
}

// Lines returns the merged content lines of a suite.
func (x *SuiteIndex) Lines(name string) ([]string, error) {
	lines, ok := x.lines[name]
	if !ok {
		return nil, ErrSuiteNotFound
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

// Sources returns the sorted set of file names that contributed to a
// suite. Empty when the suite is unknown.
func (x *SuiteIndex) Sources(name string) []string {
	set, ok := x.sources[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for src := range set {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}
