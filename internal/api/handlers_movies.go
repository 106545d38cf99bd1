// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// Home handles GET /api/v1/movies/home.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	popular, err := h.db.ListPopular(ctx, database.PopularLimit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load popular movies", err)
		return
	}
	recent, err := h.db.ListRecent(ctx, database.RecentLimit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load recent movies", err)
		return
	}
	topRated, err := h.db.ListTopRated(ctx, database.TopRatedLimit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load top rated movies", err)
		return
	}

	respondSuccess(w, r, models.HomeResponse{
		Popular:  summaries(popular),
		Recent:   summaries(recent),
		TopRated: summaries(topRated),
	}, start)
}

// Search handles GET /api/v1/movies/search?q=&page=.
//
// A blank query returns an empty first page and is not logged. A page past
// the end is clamped to the last page; a page below 1 is page 1.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(query) > maxQueryLen {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Search query is too long", nil)
		return
	}

	page, err := getIntParam(r, "page", 1)
	if err != nil {
		page = 1
	}

	result, err := h.db.SearchMovies(ctx, query, page, database.DefaultPageSize)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Search failed", err)
		return
	}

	if query != "" {
		var username *string
		if u, ok := requestUser(ctx); ok {
			username = &u
		}
		if _, err := h.db.LogSearch(ctx, query, username, result.Total); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to log search")
		}
	}

	respondSuccess(w, r, models.SearchResponse{
		Query:   query,
		Results: summaries(result.Movies),
		Pagination: models.Pagination{
			Page:       result.Page,
			PageSize:   result.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}, start)
}

// MovieDetail handles GET /api/v1/movies/{id}.
//
// Recommendations are best effort: a missing model or a resolution failure
// yields an empty list, not an error.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	id, err := parseMovieID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
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

	resp := models.MovieDetailResponse{
		Movie:           movie,
		Recommendations: []models.RecommendedMovie{},
	}

	if h.engine != nil {
		recs, err := h.engine.Similar(id, h.detailCount())
		if err == nil {
			recommended, resolveErr := h.recommendedMovies(ctx, recs)
			err = resolveErr
			if resolveErr == nil {
				resp.Recommendations = recommended
			}
		}
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("movie_id", id).Msg("Recommendations unavailable for detail view")
		}
	}

	if username, ok := requestUser(ctx); ok {
		rating, err := h.db.GetUserRating(ctx, username, id)
		switch {
		case err == nil:
			resp.UserRating = &rating.Rating
		case !errors.Is(err, database.ErrNotFound):
			logging.Ctx(ctx).Warn().Err(err).Int64("movie_id", id).Msg("Failed to load user rating")
		}
	}

	respondSuccess(w, r, resp, start)
}

// RateMovie handles POST /api/v1/movies/{id}/rating. Requires authentication.
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	username, ok := requestUser(ctx)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required", nil)
		return
	}

	id, err := parseMovieID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	var req models.RatingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.db.GetMovie(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load movie", err)
		return
	}

	action, err := h.db.UpsertRating(ctx, username, id, req.Rating)
	switch {
	case errors.Is(err, database.ErrInvalidRating):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Rating must be between 1 and 5", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to save rating", err)
		return
	}

	logging.Ctx(ctx).Info().Int64("movie_id", id).Int("rating", req.Rating).Str("action", string(action)).Msg("Rating saved")

	status := http.StatusOK
	if action == models.ActionCreated {
		status = http.StatusCreated
	}
	respondStatus(w, r, status, models.RatingResponse{Action: action, Rating: req.Rating, MovieID: id}, start)
}
