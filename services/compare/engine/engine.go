// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine wires the comparison pipeline together: parse both
// runs into suites, filter passing churn from the current run, align
// each current suite with its baseline counterpart, detect semantic
// changes, and partition them into signal and noise.
//
// The engine is single-threaded and batch-oriented. The baseline
// index is built fully before any comparison starts and is read-only
// afterwards; current files are processed one at a time so memory
// scales with one file's suites plus the index.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/AleutianAI/tapdiff/pkg/logging"
	"github.com/AleutianAI/tapdiff/services/compare/align"
	"github.com/AleutianAI/tapdiff/services/compare/detect"
	"github.com/AleutianAI/tapdiff/services/compare/report"
	"github.com/AleutianAI/tapdiff/services/compare/tap"
)

// LogFile is one raw log, decoupled from how it was obtained (local
// path, network fetch). Content is immutable once read.
type LogFile struct {
	Name    string
	Content string
}

// Config tunes the engine.
type Config struct {
	// FuzzyCutoff is the minimum suite-name similarity for fuzzy
	// alignment. Zero means align.DefaultFuzzyCutoff.
	FuzzyCutoff float64

	// Logger receives progress and diagnostics. Nil means the default
	// stderr logger.
	Logger *logging.Logger
}

// Engine compares current-run log files against a baseline index.
//
// # Thread Safety
//
// Engine is immutable after construction; CompareFile is safe for
// concurrent use provided the detector's oracle is.
type Engine struct {
	detector    *detect.Detector
	fuzzyCutoff float64
	log         *logging.Logger
}

// New creates an Engine around a configured change detector.
func New(detector *detect.Detector, cfg Config) *Engine {
	cutoff := cfg.FuzzyCutoff
	if cutoff == 0 {
		cutoff = align.DefaultFuzzyCutoff
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Engine{
		detector:    detector,
		fuzzyCutoff: cutoff,
		log:         log,
	}
}

// BuildIndex parses every baseline file and merges the results into a
// SuiteIndex. Call once per run, before any CompareFile.
func BuildIndex(files []LogFile) *tap.SuiteIndex {
	idx := tap.NewSuiteIndex()
	for _, file := range files {
		idx.AddFile(file.Name, tap.ParseSections(file.Content))
	}
	return idx
}

// CompareFile classifies one current-run file against the baseline.
//
// # Description
//
// The file is parsed into suites and each suite's passing lines are
// filtered out; suites left empty disappear from the report. The
// survivors are aligned with the baseline: unmatched suites are
// reported as new with all their lines as additions, matched suites
// go through change detection and noise partitioning. Suites are
// processed in sorted name order so output is deterministic.
//
// # Outputs
//
//   - *report.FileReport: Per-suite classification for rendering.
//   - error: Detection failures abort the whole file; there is no
//     best-effort partial scoring.
func (e *Engine) CompareFile(ctx context.Context, file LogFile, baseline *tap.SuiteIndex) (*report.FileReport, error) {
	if ctx == nil {
		return nil, detect.ErrInvalidInput
	}
	if baseline == nil {
		return nil, fmt.Errorf("%w: baseline index is nil", detect.ErrInvalidInput)
	}

	sections := tap.ParseSections(file.Content)

	names := make([]string, 0, len(sections))
	filtered := make(map[string][]string, len(sections))
	for name, lines := range sections {
		kept := tap.FilterPassing(lines)
		if len(kept) == 0 {
			continue
		}
		names = append(names, name)
		filtered[name] = kept
	}
	sort.Strings(names)

	fileReport := &report.FileReport{
		FileName:   file.Name,
		SuiteNames: names,
	}

	for _, name := range names {
		lines := filtered[name]

		match := align.AlignWithCutoff(name, baseline, e.fuzzyCutoff)
		suite := report.SuiteResult{Name: name}

		if match.Kind == align.NoMatch {
			e.log.Info("suite has no baseline counterpart", "suite", name, "file", file.Name)
			suite.Match = report.MatchNone
			suite.Additions = lines
			fileReport.Suites = append(fileReport.Suites, suite)
			continue
		}

		if match.Kind == align.Fuzzy {
			e.log.Info("fuzzy suite match",
				"suite", name, "matched", match.Name, "score", match.Score)
			suite.Match = report.MatchFuzzy
			suite.FuzzyScore = match.Score
		} else {
			suite.Match = report.MatchExact
		}
		suite.MatchedName = match.Name
		suite.Sources = baseline.Sources(match.Name)

		baselineLines, err := baseline.Lines(match.Name)
		if err != nil {
			return nil, fmt.Errorf("baseline lines for suite %q: %w", match.Name, err)
		}

		changes, err := e.detector.DetectChanges(ctx, baselineLines, lines)
		if err != nil {
			return nil, fmt.Errorf("detect changes for suite %q in %s: %w", name, file.Name, err)
		}

		suite.Real, suite.Noise = detect.Partition(changes)
		fileReport.Suites = append(fileReport.Suites, suite)
	}

	return fileReport, nil
}
