// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "time"

// APIResponse is the envelope of every JSON response.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}
//	{"status":"error","error":{"code":"NOT_FOUND","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a stable error code and optional field details.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Pagination describes a page of a larger result.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// RatingRequest is the body of POST /movies/{id}/rating.
type RatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// CredentialsRequest is the body of the register and login endpoints.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginResponse is returned by a successful login or registration.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// RatingResponse is returned by POST /movies/{id}/rating.
type RatingResponse struct {
	Action  UpsertAction `json:"action"`
	Rating  int          `json:"rating"`
	MovieID int64        `json:"movie_id"`
}

// RecommendedMovie is one entry of a recommendations response.
type RecommendedMovie struct {
	MovieSummary
	Score float64 `json:"score"`
}

// RecommendationsResponse is returned by GET /recommendations/{id}.
type RecommendationsResponse struct {
	Movie           MovieSummary       `json:"movie"`
	Recommendations []RecommendedMovie `json:"recommendations"`
}

// MovieDetailResponse is returned by GET /movies/{id}.
type MovieDetailResponse struct {
	Movie           *Movie             `json:"movie"`
	Recommendations []RecommendedMovie `json:"recommendations"`
	UserRating      *int               `json:"user_rating,omitempty"`
}

// HomeResponse is returned by GET /movies/home.
type HomeResponse struct {
	Popular  []MovieSummary `json:"popular"`
	Recent   []MovieSummary `json:"recent"`
	TopRated []MovieSummary `json:"top_rated"`
}

// SearchResponse is returned by GET /movies/search.
type SearchResponse struct {
	Query      string         `json:"query"`
	Results    []MovieSummary `json:"results"`
	Pagination Pagination     `json:"pagination"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	DatabaseOK    bool   `json:"database_ok"`
	MovieCount    int    `json:"movie_count"`
	ModelReady    bool   `json:"model_ready"`
	ModelMovies   int    `json:"model_movies"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// LoadOutcomeResponse is returned by POST /admin/model/rebuild.
type LoadOutcomeResponse struct {
	Result     string `json:"result"`
	Movies     int    `json:"movies"`
	Terms      int    `json:"terms"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	SaveError  string `json:"save_error,omitempty"`
}
