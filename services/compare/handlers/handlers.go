// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers exposes the comparison engine over HTTP for CI
// integrations that would rather POST two build URLs than shell out
// to the CLI.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/tapdiff/pkg/validation"
	"github.com/AleutianAI/tapdiff/services/compare/engine"
	"github.com/AleutianAI/tapdiff/services/compare/fetch"
	"github.com/AleutianAI/tapdiff/services/compare/report"
)

// CompareRequest is the body of POST /v1/compare.
type CompareRequest struct {
	// BaseURL is the Jenkins build page of the known-good run.
	BaseURL string `json:"base_url" binding:"required"`

	// CurrentURL is the build page of the run under inspection.
	CurrentURL string `json:"current_url" binding:"required"`

	// Extension selects which artifacts to download. Defaults to "tap".
	Extension string `json:"extension"`
}

// CompareResponse wraps the per-file reports with run bookkeeping.
type CompareResponse struct {
	RunID     string              `json:"run_id"`
	Timestamp time.Time           `json:"timestamp"`
	Reports   []report.FileReport `json:"reports"`
	Text      string              `json:"text"`
}

// Handlers holds the dependencies shared by the HTTP endpoints.
type Handlers struct {
	engine  *engine.Engine
	fetcher *fetch.Client
}

// NewHandlers wires the comparison engine and artifact fetcher.
func NewHandlers(eng *engine.Engine, fetcher *fetch.Client) *Handlers {
	return &Handlers{engine: eng, fetcher: fetcher}
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// HandleCompare runs a full baseline-vs-current comparison.
//
// # Description
//
// Downloads the artifacts from both build pages, builds the baseline
// suite index, compares every current file against it, and returns
// both the structured reports and the rendered text. Each run gets a
// UUID so log lines from concurrent requests can be correlated.
func (h *Handlers) HandleCompare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Extension == "" {
		req.Extension = "tap"
	}

	if err := validation.ValidateBuildURL(req.BaseURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base_url: " + err.Error()})
		return
	}
	if err := validation.ValidateBuildURL(req.CurrentURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid current_url: " + err.Error()})
		return
	}
	if err := validation.ValidateExtension(req.Extension); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extension: " + err.Error()})
		return
	}

	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	log.Info("comparison requested", "base", req.BaseURL, "current", req.CurrentURL)

	comparisonsTotal.Inc()

	ctx := c.Request.Context()

	baseFiles, err := h.fetcher.FetchAll(ctx, req.BaseURL, req.Extension)
	if err != nil {
		log.Error("baseline fetch failed", "error", err)
		comparisonFailures.Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "baseline fetch failed", "run_id": runID})
		return
	}

	currentFiles, err := h.fetcher.FetchAll(ctx, req.CurrentURL, req.Extension)
	if err != nil {
		log.Error("current fetch failed", "error", err)
		comparisonFailures.Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "current fetch failed", "run_id": runID})
		return
	}

	idx := engine.BuildIndex(toLogFiles(baseFiles))

	var (
		reports []report.FileReport
		text    string
	)
	for _, file := range toLogFiles(currentFiles) {
		fr, err := h.engine.CompareFile(ctx, file, idx)
		if err != nil {
			log.Error("comparison failed", "file", file.Name, "error", err)
			comparisonFailures.Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed", "run_id": runID})
			return
		}
		reports = append(reports, *fr)
		text += fr.Render()
	}

	log.Info("comparison complete", "files", len(reports))

	c.JSON(http.StatusOK, CompareResponse{
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Reports:   reports,
		Text:      text,
	})
}

func toLogFiles(files []fetch.File) []engine.LogFile {
	out := make([]engine.LogFile, len(files))
	for i, f := range files {
		out[i] = engine.LogFile{Name: f.Name, Content: f.Content}
	}
	return out
}
