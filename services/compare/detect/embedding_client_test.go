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
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeEmbedServer serves /batch_embed with fixed unit vectors per
// known text and /health with the given status.
func fakeEmbedServer(t *testing.T, vectors map[string][]float32, healthy bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/batch_embed", func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := embeddingResponse{ID: "test", Model: "stub", Dim: 2}
		for _, text := range req.Texts {
			vec, ok := vectors[text]
			if !ok {
				vec = []float32{0, 0}
			}
			resp.Vectors = append(resp.Vectors, vec)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if !healthy {
			status = "loading"
		}
		_ = json.NewEncoder(w).Encode(healthResponse{Status: status, Model: "stub"})
	})

	return httptest.NewServer(mux)
}

func TestEmbeddingClient_Similarities(t *testing.T) {
	srv := fakeEmbedServer(t, map[string][]float32{
		"alpha": {1, 0},
		"beta":  {0, 1},
		"mixed": {1, 1},
	}, true)
	defer srv.Close()

	client := NewEmbeddingClient(srv.URL)
	matrix, err := client.Similarities(context.Background(),
		[]string{"alpha", "mixed"}, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matrix) != 2 || len(matrix[0]) != 2 {
		t.Fatalf("matrix shape = %dx%d, want 2x2", len(matrix), len(matrix[0]))
	}
	if matrix[0][0] < 0.999 {
		t.Errorf("identical vectors scored %.3f, want ~1.0", matrix[0][0])
	}
	if matrix[0][1] != 0 {
		t.Errorf("orthogonal vectors scored %.3f, want 0", matrix[0][1])
	}
	if diff := math.Abs(matrix[1][0] - 1/math.Sqrt2); diff > 1e-6 {
		t.Errorf("matrix[1][0] = %.6f, want 1/sqrt(2)", matrix[1][0])
	}
}

func TestEmbeddingClient_FeedsDetector(t *testing.T) {
	srv := fakeEmbedServer(t, map[string][]float32{
		"TEST: build passes": {1, 0},
		"error: timeout":     {0, 1},
	}, true)
	defer srv.Close()

	d := NewDetector(NewEmbeddingClient(srv.URL))
	changes, err := d.DetectChanges(context.Background(),
		[]string{"TEST: build passes"},
		[]string{"TEST: build passes", "error: timeout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := changeTexts(changes)
	if len(got) != 1 || got[0] != "error: timeout" {
		t.Errorf("changes = %v, want [error: timeout]", got)
	}
}

func TestEmbeddingClient_BatchEmbedErrors(t *testing.T) {
	t.Run("empty texts", func(t *testing.T) {
		client := NewEmbeddingClient("http://localhost:1")
		if _, err := client.BatchEmbed(context.Background(), nil); err == nil {
			t.Error("expected error for empty texts")
		}
	})

	t.Run("server error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model crashed", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewEmbeddingClient(srv.URL)
		if _, err := client.BatchEmbed(context.Background(), []string{"x"}); err == nil {
			t.Error("expected error for 500 response")
		}
	})
}

func TestEmbeddingClient_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := fakeEmbedServer(t, nil, true)
		defer srv.Close()

		if err := NewEmbeddingClient(srv.URL).Health(context.Background()); err != nil {
			t.Errorf("Health = %v, want nil", err)
		}
	})

	t.Run("model still loading", func(t *testing.T) {
		srv := fakeEmbedServer(t, nil, false)
		defer srv.Close()

		if err := NewEmbeddingClient(srv.URL).Health(context.Background()); err == nil {
			t.Error("Health = nil, want not-ready error")
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"mismatched lengths", []float32{1}, []float32{1, 2}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}
