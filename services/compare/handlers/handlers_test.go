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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/tapdiff/pkg/logging"
	"github.com/AleutianAI/tapdiff/services/compare/detect"
	"github.com/AleutianAI/tapdiff/services/compare/engine"
	"github.com/AleutianAI/tapdiff/services/compare/fetch"
	"github.com/AleutianAI/tapdiff/services/compare/report"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

// equalityOracle scores 1.0 for identical lines and 0.0 otherwise.
type equalityOracle struct{}

func (equalityOracle) Similarities(ctx context.Context, current, baseline []string) ([][]float64, error) {
	matrix := make([][]float64, len(current))
	for i, cur := range current {
		row := make([]float64, len(baseline))
		for j, base := range baseline {
			if cur == base {
				row[j] = 1.0
			}
		}
		matrix[i] = row
	}
	return matrix, nil
}

// fakeJenkins serves two build pages, each linking one .tap artifact.
func fakeJenkins(t *testing.T, baseLog, currentLog string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/base/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="run.tap">run.tap</a>`)
	})
	mux.HandleFunc("/base/run.tap", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, baseLog)
	})
	mux.HandleFunc("/current/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="run.tap">run.tap</a>`)
	})
	mux.HandleFunc("/current/run.tap", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, currentLog)
	})
	return httptest.NewServer(mux)
}

func setupTestRouter() *gin.Engine {
	quiet := logging.New(logging.Config{Quiet: true})
	eng := engine.New(detect.NewDetector(equalityOracle{}), engine.Config{Logger: quiet})
	fetcher := fetch.NewClient().WithLogger(quiet)
	return NewRouter(NewHandlers(eng, fetcher))
}

func postCompare(router *gin.Engine, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/v1/compare", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestHandleCompare(t *testing.T) {
	srv := fakeJenkins(t,
		"Login - Test results:\nTEST: login ok",
		"Login - Test results:\nnot ok 1 - login\nTEST: login broken")
	defer srv.Close()

	router := setupTestRouter()
	w := postCompare(router, CompareRequest{
		BaseURL:    srv.URL + "/base/",
		CurrentURL: srv.URL + "/current/",
	})

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Reports, 1)

	suites := resp.Reports[0].Suites
	require.Len(t, suites, 1)
	assert.Equal(t, "Login", suites[0].Name)
	assert.Equal(t, report.MatchExact, suites[0].Match)
	require.Len(t, suites[0].Real, 1)
	assert.Equal(t, "TEST: login broken", suites[0].Real[0].Text)

	assert.Contains(t, resp.Text, "===== NEW LOG: run.tap =====")
	assert.Contains(t, resp.Text, "TEST: login broken")
}

func TestHandleCompare_BadRequests(t *testing.T) {
	router := setupTestRouter()

	cases := []struct {
		name string
		body any
	}{
		{"missing fields", map[string]string{"base_url": "http://x"}},
		{"bad scheme", CompareRequest{BaseURL: "ftp://x", CurrentURL: "http://y"}},
		{"bad extension", CompareRequest{BaseURL: "http://x", CurrentURL: "http://y", Extension: "../etc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postCompare(router, tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleCompare_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	router := setupTestRouter()
	w := postCompare(router, CompareRequest{
		BaseURL:    srv.URL + "/base/",
		CurrentURL: srv.URL + "/current/",
	})

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "tapdiff_comparisons_total") {
		t.Error("metrics output missing comparison counter")
	}
}
