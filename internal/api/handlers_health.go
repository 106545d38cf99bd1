// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// Health handles GET /api/v1/health.
//
// The response is 200 while the database answers, with status "degraded"
// when no similarity model is serving, and 503 when the database is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	resp := models.HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	if h.db != nil && h.db.Ping(ctx) == nil {
		resp.DatabaseOK = true
		if n, err := h.db.CountMovies(ctx); err == nil {
			resp.MovieCount = n
		}
	}

	if h.engine != nil {
		status := h.engine.Status()
		resp.ModelReady = status.Ready
		resp.ModelMovies = status.Movies
	}

	switch {
	case !resp.DatabaseOK:
		resp.Status = "unhealthy"
		respondStatus(w, r, http.StatusServiceUnavailable, resp, start)
		return
	case h.engine != nil && !resp.ModelReady:
		resp.Status = "degraded"
	}
	respondSuccess(w, r, resp, start)
}
