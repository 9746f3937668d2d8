// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used in
// HTTP requests or file-name filtering. Using these validators prevents
// request smuggling via bad URLs and path traversal via extensions.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
)

// extensionPattern matches artifact file extensions: 1-8 alphanumeric
// characters, no leading dot.
var extensionPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)

// ValidateBuildURL validates a build-page URL before it is fetched.
//
// Valid URLs:
//   - http or https scheme
//   - Non-empty host
//
// Returns an error if the URL is invalid.
//
// Example:
//
//	if err := validation.ValidateBuildURL(baseURL); err != nil {
//	    return fmt.Errorf("invalid build URL: %w", err)
//	}
func ValidateBuildURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q (must be http or https)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL has no host: %q", rawURL)
	}

	return nil
}

// ValidateExtension validates an artifact extension such as "tap".
// The leading dot is not part of the extension.
func ValidateExtension(ext string) error {
	if ext == "" {
		return fmt.Errorf("extension cannot be empty")
	}

	if !extensionPattern.MatchString(ext) {
		return fmt.Errorf("invalid extension %q (must be 1-8 alphanumeric chars, no dot)", ext)
	}

	return nil
}
