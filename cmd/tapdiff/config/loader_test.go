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

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".tapdiff", "tapdiff.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	var cfg TapdiffConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	// Verify some defaults
	if cfg.Thresholds.Main != 0.88 {
		t.Errorf("Thresholds.Main = %v, want 0.88", cfg.Thresholds.Main)
	}
	if cfg.Thresholds.Fallback != 0.85 {
		t.Errorf("Thresholds.Fallback = %v, want 0.85", cfg.Thresholds.Fallback)
	}
	if cfg.Embeddings.Backend != "local" {
		t.Errorf("Embeddings.Backend = %q, want %q", cfg.Embeddings.Backend, "local")
	}
	if cfg.Artifacts.Extension != "tap" {
		t.Errorf("Artifacts.Extension = %q, want %q", cfg.Artifacts.Extension, "tap")
	}
}

// TestCreateDefault_DirectoryCreation verifies directory is created.
func TestCreateDefault_DirectoryCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "deep", "nested", "path", "tapdiff.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed with nested path: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(configPath)); os.IsNotExist(err) {
		t.Fatal("nested config directory was not created")
	}
}

// TestDefaultConfig_RoundTrip verifies defaults survive a YAML round trip.
func TestDefaultConfig_RoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var cfg TapdiffConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("round trip changed config: %+v", cfg)
	}
}
