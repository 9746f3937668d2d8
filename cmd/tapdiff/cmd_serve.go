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
	"log"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tapdiff/cmd/tapdiff/config"
	"github.com/AleutianAI/tapdiff/services/compare/fetch"
	"github.com/AleutianAI/tapdiff/services/compare/handlers"
)

func runServeCommand(cmd *cobra.Command, args []string) {
	eng, err := newEngine()
	if err != nil {
		log.Fatalf("Failed to build comparison engine: %v", err)
	}

	router := handlers.NewRouter(handlers.NewHandlers(eng, fetch.NewClient()))

	port := servePort
	if port == 0 {
		port = config.Global.Server.Port
	}
	if port == 0 {
		port = config.DefaultConfig().Server.Port
	}

	log.Println("Starting the tapdiff server on port ", port)
	if err := router.Run(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
