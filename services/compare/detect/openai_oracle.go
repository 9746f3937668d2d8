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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIOracle is a SimilarityOracle backed by the OpenAI embeddings
// API, for deployments that do not run the local embeddings service.
type OpenAIOracle struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIOracle creates an oracle using the OPENAI_API_KEY
// environment variable, falling back to the Podman secret mount the
// deployment images use.
func NewOpenAIOracle() (*OpenAIOracle, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err != nil {
			slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		apiKey = strings.TrimSpace(string(apiKeyBytes))
		slog.Info("Read the OpenAI API Key from Podman Secrets")
	}

	return &OpenAIOracle{
		client: openai.NewClient(apiKey),
		model:  openai.SmallEmbedding3,
	}, nil
}

// WithModel overrides the embedding model.
func (o *OpenAIOracle) WithModel(model openai.EmbeddingModel) *OpenAIOracle {
	o.model = model
	return o
}

// Similarities implements SimilarityOracle. One embeddings call per
// side, then the pairwise cosine matrix.
func (o *OpenAIOracle) Similarities(ctx context.Context, current, baseline []string) ([][]float64, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}

	currentVecs, err := o.embed(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("embed current lines: %w", err)
	}
	baselineVecs, err := o.embed(ctx, baseline)
	if err != nil {
		return nil, fmt.Errorf("embed baseline lines: %w", err)
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

// embed fetches embeddings for a batch of texts, reordered by the
// response index so output position matches input position.
func (o *OpenAIOracle) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts is empty", ErrInvalidInput)
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: o.model,
	})
	if err != nil {
		slog.Error("OpenAI embeddings call failed", "error", err)
		return nil, fmt.Errorf("OpenAI embeddings call failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("OpenAI returned out-of-range embedding index %d", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	return vectors, nil
}

// Ensure OpenAIOracle implements SimilarityOracle.
var _ SimilarityOracle = (*OpenAIOracle)(nil)
