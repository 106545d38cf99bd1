// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services adapts Cinematch components to suture's Serve pattern.

  - HTTPServerService runs an *http.Server and drains it on shutdown.
  - RecommendService loads or builds the similarity model once, then
    rebuilds it on an interval when one is configured.
  - ModelWatchService reloads the model when another process (usually
    cinematch-loader) replaces the model file.
  - MaintenanceService periodically expires login lockouts and cached
    recommendation responses.

Each service returns ctx.Err() on shutdown and implements fmt.Stringer so
supervisor events name it.
*/
package services
