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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	baseURL     string
	currentURL  string
	baseDir     string
	currentDir  string
	outputPath  string
	extension   string
	plainOutput bool
	servePort   int

	rootCmd = &cobra.Command{
		Use:   "tapdiff",
		Short: "A cli to compare TAP test logs between Jenkins builds",
		Long: `Tapdiff downloads TAP-style test logs from two builds of the
same job, filters out passing churn, and reports only the test
lines that changed in a semantically meaningful way.`,
	}

	// --- Compare ---
	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Compare a current build's test logs against a baseline build",
		Run:   runCompareCommand, // Defined in cmd_compare.go
	}

	// --- Serve ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison engine as an HTTP service",
		Run:   runServeCommand, // Defined in cmd_serve.go
	}
)

func init() {
	compareCmd.Flags().StringVar(&baseURL, "base-url", "", "Jenkins build page of the known-good baseline run")
	compareCmd.Flags().StringVar(&currentURL, "current-url", "", "Jenkins build page of the run under inspection")
	compareCmd.Flags().StringVar(&baseDir, "base-dir", "", "Local directory of baseline logs (instead of --base-url)")
	compareCmd.Flags().StringVar(&currentDir, "current-dir", "", "Local directory of current logs (instead of --current-url)")
	compareCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	compareCmd.Flags().StringVar(&extension, "extension", "", "Artifact extension to download (default from config)")

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")

	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "Machine-readable output without styling")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
}
