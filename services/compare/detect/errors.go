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

import "errors"

// Sentinel errors for the detect package.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOracleFailure indicates the similarity oracle failed or is
	// unreachable. Detection aborts rather than scoring best-effort.
	ErrOracleFailure = errors.New("similarity oracle failure")

	// ErrMalformedMatrix indicates the oracle returned a similarity
	// matrix whose shape does not match the inputs.
	ErrMalformedMatrix = errors.New("malformed similarity matrix")
)
