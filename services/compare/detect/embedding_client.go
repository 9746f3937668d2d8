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

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// DefaultEmbeddingTimeout is the default timeout for embedding requests.
const DefaultEmbeddingTimeout = 30 * time.Second

// EmbeddingClient is a SimilarityOracle backed by the embeddings
// service.
//
// # Description
//
// EmbeddingClient talks to the Python embeddings service, which runs
// transformer models (MiniLM, BGE) to turn log lines into dense
// vectors. One suite pair costs two batched /batch_embed calls — one
// per side — and the similarity matrix is the pairwise cosine
// similarity of the resulting vectors.
//
// # Thread Safety
//
// EmbeddingClient is safe for concurrent use.
type EmbeddingClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewEmbeddingClient creates a client for the embeddings service at
// the given base URL (e.g., "http://localhost:8000").
func NewEmbeddingClient(baseURL string) *EmbeddingClient {
	return &EmbeddingClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultEmbeddingTimeout,
		},
		timeout: DefaultEmbeddingTimeout,
	}
}

// WithTimeout sets a custom timeout for embedding requests.
func (c *EmbeddingClient) WithTimeout(timeout time.Duration) *EmbeddingClient {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *EmbeddingClient) WithHTTPClient(hc *http.Client) *EmbeddingClient {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured base URL.
func (c *EmbeddingClient) BaseURL() string {
	return c.baseURL
}

// embeddingRequest is the request body for the /batch_embed endpoint.
type embeddingRequest struct {
	Texts []string `json:"texts"`
}

// embeddingResponse is the response from the /batch_embed endpoint.
type embeddingResponse struct {
	ID        string      `json:"id"`
	Timestamp int64       `json:"timestamp"`
	Model     string      `json:"model"`
	Vectors   [][]float32 `json:"vectors"`
	Dim       int         `json:"dim"`
}

// healthResponse is the response from the /health endpoint.
type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Similarities implements SimilarityOracle.
//
// # Description
//
// Embeds both line sets in one batched call per side and returns the
// current-by-baseline cosine-similarity matrix. Scores are raw cosine
// values; normalized sentence embeddings land them in practice near
// [0,1] but no clamping is applied.
//
// # Outputs
//
//   - [][]float64: matrix[i][j] is the similarity of current[i] to
//     baseline[j].
//   - error: Non-nil if either embedding call fails or the service
//     returns a vector count that does not match its input.
func (c *EmbeddingClient) Similarities(ctx context.Context, current, baseline []string) ([][]float64, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}

	currentVecs, err := c.BatchEmbed(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("embed current lines: %w", err)
	}
	baselineVecs, err := c.BatchEmbed(ctx, baseline)
	if err != nil {
		return nil, fmt.Errorf("embed baseline lines: %w", err)
	}

	if len(currentVecs) != len(current) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d current lines", len(currentVecs), len(current))
	}
	if len(baselineVecs) != len(baseline) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d baseline lines", len(baselineVecs), len(baseline))
	}

	matrix := make([][]float64, len(currentVecs))
	for i, cv := range currentVecs {
		row := make([]float64, len(baselineVecs))
		for j, bv := range baselineVecs {
			row[j] = CosineSimilarity(cv, bv)
		}
		matrix[i] = row
	}

	return matrix, nil
}

// BatchEmbed computes embeddings for multiple texts in one request.
func (c *EmbeddingClient) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts is empty", ErrInvalidInput)
	}

	bodyBytes, err := json.Marshal(embeddingRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/batch_embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return embResp.Vectors, nil
}

// Health checks if the embeddings service is available and its model
// is loaded. Model loading is a one-time expensive initialization on
// the service side; callers should health-check once per run rather
// than per suite.
func (c *EmbeddingClient) Health(ctx context.Context) error {
	if ctx == nil {
		return ErrInvalidInput
	}

	url := c.baseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embeddings service unhealthy: status %d: %s", resp.StatusCode, string(body))
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}

	if health.Status != "ok" {
		return fmt.Errorf("embeddings service not ready: %s", health.Status)
	}

	return nil
}

// CosineSimilarity computes the cosine similarity between two
// vectors. Returns 0 for mismatched lengths or zero-norm inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Ensure EmbeddingClient implements SimilarityOracle.
var _ SimilarityOracle = (*EmbeddingClient)(nil)
