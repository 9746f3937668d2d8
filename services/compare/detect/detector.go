// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package detect decides which lines of a current-run suite represent
// genuine changes against the baseline.
//
// The primary signal is semantic similarity from an injected
// embedding oracle; a character-level textual ratio acts as a
// fallback that catches near-duplicate phrasing whose literal content
// differs (changed numbers, identifiers). A shallow noise classifier
// then splits detected changes into signal and chatter.
package detect

import (
	"context"
	"fmt"
	"strings"
)

// Default decision thresholds. Tuned against MiniLM-class sentence
// embeddings; override via WithThresholds when the oracle changes.
const (
	// DefaultThresholdMain is the similarity below which a line has
	// no adequate counterpart at all.
	DefaultThresholdMain = 0.88

	// DefaultThresholdFallback is the similarity above which the
	// textual fallback check fires.
	DefaultThresholdFallback = 0.85

	// DefaultTextualCutoff is the textual ratio below which a
	// semantically-similar line is still reported as changed.
	DefaultTextualCutoff = 0.87
)

// SimilarityOracle scores semantic similarity between line sets.
//
// # Description
//
// Given the current and baseline lines of one suite pair, an oracle
// returns a current-by-baseline matrix of scores where higher means
// more semantically similar. Both sides are submitted in single
// batched calls so a slow model is paid per suite, not per line.
//
// Implementations: EmbeddingClient (local embeddings service),
// OpenAIOracle (hosted API). Tests inject deterministic stubs.
type SimilarityOracle interface {
	Similarities(ctx context.Context, current, baseline []string) ([][]float64, error)
}

// ChangeLine is a current-run line that lacks an adequate baseline
// counterpart. Ratio carries the textual-similarity annotation when
// the fallback path fired.
type ChangeLine struct {
	Text     string  `json:"text"`
	Ratio    float64 `json:"ratio,omitempty"`
	HasRatio bool    `json:"has_ratio,omitempty"`
}

// String renders the line the way reports print it.
func (c ChangeLine) String() string {
	if c.HasRatio {
		return fmt.Sprintf("%s (difflib=%.2f)", c.Text, c.Ratio)
	}
	return c.Text
}

// Detector finds changed lines between two runs of a suite.
//
// # Thread Safety
//
// Detector is immutable after construction and safe for concurrent
// use provided its oracle is.
type Detector struct {
	oracle            SimilarityOracle
	thresholdMain     float64
	thresholdFallback float64
	textualCutoff     float64
}

// NewDetector creates a Detector with the default thresholds.
func NewDetector(oracle SimilarityOracle) *Detector {
	return &Detector{
		oracle:            oracle,
		thresholdMain:     DefaultThresholdMain,
		thresholdFallback: DefaultThresholdFallback,
		textualCutoff:     DefaultTextualCutoff,
	}
}

// WithThresholds overrides the decision thresholds.
func (d *Detector) WithThresholds(main, fallback, textualCutoff float64) *Detector {
	d.thresholdMain = main
	d.thresholdFallback = fallback
	d.textualCutoff = textualCutoff
	return d
}

// DetectChanges reports the current lines without an adequately
// similar baseline counterpart.
//
// # Description
//
// Both inputs are trimmed and blank lines removed first. If either
// side is then empty there is nothing to compare against and every
// current line is reported as changed. Otherwise each current line is
// paired with its best-scoring baseline line (ties keep the first
// occurrence) and decided as follows:
//
//   - best score below the main threshold: changed;
//   - best score above the fallback threshold: compute the textual
//     ratio against the best line; below the textual cutoff the line
//     is changed, annotated with the ratio;
//   - anything else: matched, dropped.
//
// The two thresholds are evaluated independently, in that order. With
// a fallback threshold at or above the main one this leaves a score
// band where neither branch fires; that band is part of the observable
// contract and is deliberately not collapsed into a three-way split.
//
// # Outputs
//
//   - []ChangeLine: Changed lines in current-input order.
//   - error: ErrMalformedMatrix or a wrapped oracle failure; no
//     partial results are returned on error.
func (d *Detector) DetectChanges(ctx context.Context, baseline, current []string) ([]ChangeLine, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}

	base := trimNonEmpty(baseline)
	cur := trimNonEmpty(current)

	if len(base) == 0 || len(cur) == 0 {
		changes := make([]ChangeLine, 0, len(cur))
		for _, line := range cur {
			changes = append(changes, ChangeLine{Text: line})
		}
		return changes, nil
	}

	sims, err := d.oracle.Similarities(ctx, cur, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	if len(sims) != len(cur) {
		return nil, fmt.Errorf("%w: %d rows for %d current lines", ErrMalformedMatrix, len(sims), len(cur))
	}

	changes := make([]ChangeLine, 0)
	for i, row := range sims {
		if len(row) != len(base) {
			return nil, fmt.Errorf("%w: row %d has %d columns for %d baseline lines", ErrMalformedMatrix, i, len(row), len(base))
		}

		bestScore := row[0]
		bestIdx := 0
		for j := 1; j < len(row); j++ {
			if row[j] > bestScore {
				bestScore = row[j]
				bestIdx = j
			}
		}

		switch {
		case bestScore < d.thresholdMain:
			changes = append(changes, ChangeLine{Text: cur[i]})

		case bestScore > d.thresholdFallback:
			ratio := TextualRatio(cur[i], base[bestIdx])
			if ratio < d.textualCutoff {
				changes = append(changes, ChangeLine{Text: cur[i], Ratio: ratio, HasRatio: true})
			}
		}
	}

	return changes, nil
}

// trimNonEmpty trims every line and drops the blank ones.
func trimNonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
