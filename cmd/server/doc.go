// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Command server runs the Cinematch HTTP API.

Startup order:

 1. .env (if present), then configuration through koanf
 2. zerolog
 3. DuckDB catalog (schema migrations run on open)
 4. similarity engine and model store, when RECOMMEND_ENABLED
 5. auth, handlers and the chi router
 6. the suture tree: model layer, then API layer

The model is loaded or built by the supervised RecommendService, so the API
starts serving immediately and reports "degraded" on /api/v1/health until a
model is ready.

Populate the catalog with cinematch-loader before the first start:

	cinematch-loader import --movies-csv tmdb_5000_movies.csv 	    --credits-csv tmdb_5000_credits.csv --rebuild

SIGINT and SIGTERM cancel the tree; in-flight requests get ten seconds to
finish.
*/
package main
