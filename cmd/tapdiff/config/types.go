// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

type TapdiffConfig struct {
	// Thresholds: similarity cutoffs for change detection
	Thresholds ThresholdConfig `yaml:"thresholds"`

	// Alignment: suite-name matching between runs
	Alignment AlignmentConfig `yaml:"alignment"`

	// Embeddings: which similarity backend scores log lines
	Embeddings EmbeddingsConfig `yaml:"embeddings"`

	// Artifacts: what to download from build pages
	Artifacts ArtifactConfig `yaml:"artifacts"`

	// Server: settings for serve mode
	Server ServerConfig `yaml:"server"`
}

type ThresholdConfig struct {
	Main     float64 `yaml:"main"`     // below this a line is changed
	Fallback float64 `yaml:"fallback"` // above this the textual check runs
	Textual  float64 `yaml:"textual"`  // difflib cutoff for the textual check
}

type AlignmentConfig struct {
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff"` // minimum suite-name similarity
}

type EmbeddingsConfig struct {
	// Backend can be "local" (embeddings sidecar) or "openai".
	Backend string `yaml:"backend"`

	// BaseURL of the embeddings sidecar when Backend is "local".
	BaseURL string `yaml:"base_url,omitempty"`

	// Model overrides the OpenAI embedding model when Backend is "openai".
	Model string `yaml:"model,omitempty"`
}

type ArtifactConfig struct {
	Extension string `yaml:"extension"` // e.g. "tap"
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

func DefaultConfig() TapdiffConfig {
	return TapdiffConfig{
		Thresholds: ThresholdConfig{
			Main:     0.88,
			Fallback: 0.85,
			Textual:  0.87,
		},
		Alignment: AlignmentConfig{
			FuzzyCutoff: 0.6,
		},
		Embeddings: EmbeddingsConfig{
			Backend: "local",
			BaseURL: "http://localhost:8001",
		},
		Artifacts: ArtifactConfig{
			Extension: "tap",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
