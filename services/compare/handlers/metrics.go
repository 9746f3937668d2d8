// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the /metrics endpoint. Registered on the default
// registry so promhttp.Handler picks them up.
var (
	comparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapdiff_comparisons_total",
		Help: "Total comparison runs requested over HTTP.",
	})

	comparisonFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapdiff_comparison_failures_total",
		Help: "Comparison runs that failed to produce a report.",
	})
)
