// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Command cinematch-loader imports the TMDB 5000 CSV files into the catalog
// and builds the similarity model artifact offline.
//
//	cinematch-loader import --movies-csv movies.csv --credits-csv credits.csv --rebuild
//	cinematch-loader rebuild
//
// Configuration comes from the same .env, config file and environment
// variables as the server. JWT settings are not required.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
