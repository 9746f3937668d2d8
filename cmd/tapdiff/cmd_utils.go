// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/tapdiff/cmd/tapdiff/config"
	"github.com/AleutianAI/tapdiff/services/compare/detect"
	"github.com/AleutianAI/tapdiff/services/compare/engine"
)

// newOracle builds the similarity backend the config asks for.
func newOracle(cfg config.EmbeddingsConfig) (detect.SimilarityOracle, error) {
	switch cfg.Backend {
	case "", "local":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultConfig().Embeddings.BaseURL
		}
		return detect.NewEmbeddingClient(baseURL), nil
	case "openai":
		oracle, err := detect.NewOpenAIOracle()
		if err != nil {
			return nil, fmt.Errorf("openai backend: %w", err)
		}
		if cfg.Model != "" {
			oracle = oracle.WithModel(openai.EmbeddingModel(cfg.Model))
		}
		return oracle, nil
	default:
		return nil, fmt.Errorf("unknown embeddings backend %q", cfg.Backend)
	}
}

// newEngine assembles the comparison engine from the global config.
func newEngine() (*engine.Engine, error) {
	oracle, err := newOracle(config.Global.Embeddings)
	if err != nil {
		return nil, err
	}

	th := config.Global.Thresholds
	detector := detect.NewDetector(oracle)
	if th.Main != 0 || th.Fallback != 0 || th.Textual != 0 {
		detector = detector.WithThresholds(th.Main, th.Fallback, th.Textual)
	}

	return engine.New(detector, engine.Config{
		FuzzyCutoff: config.Global.Alignment.FuzzyCutoff,
	}), nil
}

// artifactExtension resolves the extension flag against the config.
func artifactExtension() string {
	if extension != "" {
		return extension
	}
	if config.Global.Artifacts.Extension != "" {
		return config.Global.Artifacts.Extension
	}
	return "tap"
}
