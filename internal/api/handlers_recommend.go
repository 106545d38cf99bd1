// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations/{id}?n=.
//
// Responses are cached per (id, n) until the TTL expires or a new model is
// installed. With no model serving the list is empty.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendations are disabled", nil)
		return
	}

	id, err := parseMovieID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	n, err := getIntParam(r, "n", h.apiCount())
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if err := h.engine.Config().ValidateCount(n); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	key := strconv.FormatInt(id, 10) + ":" + strconv.Itoa(n)
	if cached, ok := h.recCache.Get(key); ok {
		respondJSON(w, r, http.StatusOK, &models.APIResponse{
			Status: "success",
			Data:   cached,
			Metadata: models.Metadata{
				Timestamp:   time.Now().UTC(),
				QueryTimeMS: time.Since(start).Milliseconds(),
				Cached:      true,
			},
		})
		return
	}

	movie, err := h.db.GetMovie(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load movie", err)
		return
	}

	recs, err := h.engine.Similar(id, n)
	if errors.Is(err, recommend.ErrInvalidCount) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute recommendations", err)
		return
	}

	recommended, err := h.recommendedMovies(ctx, recs)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load recommended movies", err)
		return
	}

	resp := &models.RecommendationsResponse{
		Movie:           movie.Summary(),
		Recommendations: recommended,
	}
	// An empty result while no model serves is not worth caching.
	if h.engine.Ready() {
		h.recCache.Set(key, resp)
	}

	respondSuccess(w, r, resp, start)
}
