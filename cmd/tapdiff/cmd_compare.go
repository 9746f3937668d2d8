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
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tapdiff/pkg/ux"
	"github.com/AleutianAI/tapdiff/pkg/validation"
	"github.com/AleutianAI/tapdiff/services/compare/engine"
	"github.com/AleutianAI/tapdiff/services/compare/fetch"
	"github.com/AleutianAI/tapdiff/services/compare/report"
)

// sideProvider picks the log source for one side of the comparison:
// a Jenkins build page or a local directory.
func sideProvider(name, pageURL, dir, ext string) (fetch.Provider, error) {
	switch {
	case pageURL != "" && dir != "":
		return nil, fmt.Errorf("%s: give a URL or a directory, not both", name)
	case pageURL != "":
		if err := validation.ValidateBuildURL(pageURL); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fetch.URLProvider{Client: fetch.NewClient(), URL: pageURL, Ext: ext}, nil
	case dir != "":
		return fetch.DirProvider{Dir: dir, Ext: ext}, nil
	default:
		return nil, fmt.Errorf("%s: either a URL or a directory is required", name)
	}
}

func runCompareCommand(cmd *cobra.Command, args []string) {
	ext := artifactExtension()
	if err := validation.ValidateExtension(ext); err != nil {
		log.Fatalf("Invalid extension: %v", err)
	}

	baseline, err := sideProvider("baseline", baseURL, baseDir, ext)
	if err != nil {
		log.Fatalf("Bad arguments: %v", err)
	}
	current, err := sideProvider("current", currentURL, currentDir, ext)
	if err != nil {
		log.Fatalf("Bad arguments: %v", err)
	}

	eng, err := newEngine()
	if err != nil {
		log.Fatalf("Failed to build comparison engine: %v", err)
	}

	ctx := context.Background()

	ux.Title("tapdiff compare")

	baseFiles, err := baseline.Files(ctx)
	if err != nil {
		ux.Error("Baseline logs unavailable: " + err.Error())
		os.Exit(1)
	}
	ux.Info(fmt.Sprintf("baseline: %d log file(s)", len(baseFiles)))

	currentFiles, err := current.Files(ctx)
	if err != nil {
		ux.Error("Current logs unavailable: " + err.Error())
		os.Exit(1)
	}
	ux.Info(fmt.Sprintf("current: %d log file(s)", len(currentFiles)))

	idx := engine.BuildIndex(toLogFiles(baseFiles))

	var (
		rendered  strings.Builder
		changed   int
		noisy     int
		newSuites int
	)
	for _, file := range toLogFiles(currentFiles) {
		fr, err := eng.CompareFile(ctx, file, idx)
		if err != nil {
			ux.Error("Comparison failed: " + err.Error())
			os.Exit(1)
		}
		rendered.WriteString(fr.Render())

		for _, suite := range fr.Suites {
			switch {
			case suite.Match == report.MatchNone:
				newSuites++
			case len(suite.Real) > 0:
				changed++
			case len(suite.Noise) > 0:
				noisy++
			}
		}
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(rendered.String()), 0644); err != nil {
			ux.Error("Failed to write report: " + err.Error())
			os.Exit(1)
		}
		ux.Success("Report written to " + outputPath)
	} else {
		fmt.Print(rendered.String())
	}

	ux.Summary(changed, noisy, newSuites)
	if changed == 0 {
		ux.Success("No meaningful test differences across all files.")
	}
}

func toLogFiles(files []fetch.File) []engine.LogFile {
	out := make([]engine.LogFile, len(files))
	for i, f := range files {
		out[i] = engine.LogFile{Name: f.Name, Content: f.Content}
	}
	return out
}
