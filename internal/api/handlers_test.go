// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

func TestHealth(t *testing.T) {
	t.Run("healthy with model", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		rec := env.do(t, http.MethodGet, "/api/v1/health", nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var health models.HealthResponse
		decode(t, rec, &health)
		if health.Status != "healthy" || !health.DatabaseOK || health.MovieCount != 4 || !health.ModelReady || health.ModelMovies != 4 || health.Version != "test" {
			t.Errorf("health = %+v", health)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Request-ID") == "" {
			t.Errorf("missing security or request-id headers: %v", rec.Header())
		}
	})

	t.Run("degraded without model", func(t *testing.T) {
		env := newTestEnv(t, envOptions{noModel: true})
		rec := env.do(t, http.MethodGet, "/api/v1/health", nil, "")
		var health models.HealthResponse
		decode(t, rec, &health)
		if rec.Code != http.StatusOK || health.Status != "degraded" || health.ModelReady {
			t.Errorf("got %d %+v", rec.Code, health)
		}
	})
}

func TestHome(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	rec := env.do(t, http.MethodGet, "/api/v1/movies/home", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var home models.HomeResponse
	decode(t, rec, &home)

	ids := func(list []models.MovieSummary) []int64 {
		out := make([]int64, len(list))
		for i, m := range list {
			out[i] = m.ID
		}
		return out
	}
	tests := []struct {
		name string
		got  []int64
		want []int64
	}{
		{name: "popular by popularity", got: ids(home.Popular), want: []int64{1, 2, 3, 4}},
		{name: "recent by release date", got: ids(home.Recent), want: []int64{4, 3, 2, 1}},
		{name: "top rated needs 100 votes", got: ids(home.TopRated), want: []int64{4, 3, 2}},
	}
	for _, tt := range tests {
		if !equalIDs(tt.got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if home.Popular[0].Year != 1991 || len(home.Popular[0].Genres) != 1 {
		t.Errorf("summary = %+v", home.Popular[0])
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := context.Background()

	tests := []struct {
		name      string
		path      string
		wantIDs   []int64
		wantPage  int
		wantTotal int
		logged    bool
	}{
		{name: "title and overview match", path: "/api/v1/movies/search?q=Harbor", wantIDs: []int64{3, 4}, wantPage: 1, wantTotal: 2, logged: true},
		{name: "case insensitive genre", path: "/api/v1/movies/search?q=science%20FICTION", wantIDs: []int64{1, 2}, wantPage: 1, wantTotal: 2, logged: true},
		{name: "director match", path: "/api/v1/movies/search?q=director%20galaxy", wantIDs: []int64{2}, wantPage: 1, wantTotal: 1, logged: true},
		{name: "no match", path: "/api/v1/movies/search?q=zzzz", wantIDs: []int64{}, wantPage: 1, wantTotal: 0, logged: true},
		{name: "blank query", path: "/api/v1/movies/search?q=%20%20", wantIDs: []int64{}, wantPage: 1, wantTotal: 0},
		{name: "page past end clamps", path: "/api/v1/movies/search?q=harbor&page=9", wantIDs: []int64{3, 4}, wantPage: 1, wantTotal: 2, logged: true},
		{name: "garbage page is first page", path: "/api/v1/movies/search?q=harbor&page=abc", wantIDs: []int64{3, 4}, wantPage: 1, wantTotal: 2, logged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := env.db.CountSearches(ctx)
			if err != nil {
				t.Fatal(err)
			}

			rec := env.do(t, http.MethodGet, tt.path, nil, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
			}
			var resp models.SearchResponse
			decode(t, rec, &resp)

			got := make([]int64, len(resp.Results))
			for i, m := range resp.Results {
				got[i] = m.ID
			}
			if !equalIDs(got, tt.wantIDs) {
				t.Errorf("results = %v, want %v", got, tt.wantIDs)
			}
			if resp.Pagination.Page != tt.wantPage || resp.Pagination.Total != tt.wantTotal {
				t.Errorf("pagination = %+v", resp.Pagination)
			}

			after, err := env.db.CountSearches(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if logged := after > before; logged != tt.logged {
				t.Errorf("logged = %v, want %v", logged, tt.logged)
			}
		})
	}

	t.Run("query too long", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/movies/search?q="+strings.Repeat("a", maxQueryLen+1), nil, "")
		expectError(t, rec, http.StatusBadRequest, ErrCodeValidation)
	})
}

func TestMovieDetail(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	t.Run("movie with recommendations", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/movies/1", nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var detail models.MovieDetailResponse
		decode(t, rec, &detail)

		if detail.Movie == nil || detail.Movie.Title != "Star Voyage" || detail.Movie.Director != "Director Star Voyage" {
			t.Fatalf("movie = %+v", detail.Movie)
		}
		if len(detail.Recommendations) != 3 {
			t.Fatalf("recommendations = %d, want the 3 other movies", len(detail.Recommendations))
		}
		if detail.Recommendations[0].ID != 2 {
			t.Errorf("top recommendation = %d, want 2", detail.Recommendations[0].ID)
		}
		for _, r := range detail.Recommendations {
			if r.ID == 1 {
				t.Error("movie must not recommend itself")
			}
		}
		if detail.UserRating != nil {
			t.Error("anonymous request must not carry a rating")
		}
	})

	t.Run("caller rating included", func(t *testing.T) {
		if _, err := env.db.UpsertRating(context.Background(), "alice", 3, 4); err != nil {
			t.Fatal(err)
		}
		rec := env.do(t, http.MethodGet, "/api/v1/movies/3", nil, env.token(t, "alice"))
		var detail models.MovieDetailResponse
		decode(t, rec, &detail)
		if detail.UserRating == nil || *detail.UserRating != 4 {
			t.Errorf("user rating = %v, want 4", detail.UserRating)
		}
	})

	t.Run("errors", func(t *testing.T) {
		expectError(t, env.do(t, http.MethodGet, "/api/v1/movies/999", nil, ""), http.StatusNotFound, ErrCodeNotFound)
		expectError(t, env.do(t, http.MethodGet, "/api/v1/movies/abc", nil, ""), http.StatusBadRequest, ErrCodeValidation)
		expectError(t, env.do(t, http.MethodGet, "/api/v1/movies/-3", nil, ""), http.StatusBadRequest, ErrCodeValidation)
	})
}

func TestMovieDetail_WithoutEngine(t *testing.T) {
	env := newTestEnv(t, envOptions{noEngine: true})
	rec := env.do(t, http.MethodGet, "/api/v1/movies/1", nil, "")
	var detail models.MovieDetailResponse
	decode(t, rec, &detail)
	if rec.Code != http.StatusOK || detail.Recommendations == nil || len(detail.Recommendations) != 0 {
		t.Errorf("got %d with %d recommendations", rec.Code, len(detail.Recommendations))
	}
}

func TestRateMovie(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	token := env.token(t, "bob")

	t.Run("requires auth", func(t *testing.T) {
		expectError(t, env.do(t, http.MethodPost, "/api/v1/movies/1/rating", map[string]int{"rating": 4}, ""), http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("create then update", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/movies/1/rating", map[string]int{"rating": 4}, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		var resp models.RatingResponse
		decode(t, rec, &resp)
		if resp.Action != models.ActionCreated || resp.Rating != 4 || resp.MovieID != 1 {
			t.Errorf("create = %+v", resp)
		}

		rec = env.do(t, http.MethodPost, "/api/v1/movies/1/rating", map[string]int{"rating": 2}, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		decode(t, rec, &resp)
		if resp.Action != models.ActionUpdated || resp.Rating != 2 {
			t.Errorf("update = %+v", resp)
		}

		stored, err := env.db.GetUserRating(context.Background(), "bob", 1)
		if err != nil || stored.Rating != 2 {
			t.Errorf("stored rating = %+v, %v", stored, err)
		}
	})

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{name: "rating too high", path: "/api/v1/movies/1/rating", body: map[string]int{"rating": 6}, status: http.StatusBadRequest, code: ErrCodeValidation},
		{name: "rating zero", path: "/api/v1/movies/1/rating", body: map[string]int{"rating": 0}, status: http.StatusBadRequest, code: ErrCodeValidation},
		{name: "not json", path: "/api/v1/movies/1/rating", body: "rating=5", status: http.StatusBadRequest, code: ErrCodeValidation},
		{name: "unknown field", path: "/api/v1/movies/1/rating", body: map[string]int{"rating": 3, "stars": 3}, status: http.StatusBadRequest, code: ErrCodeValidation},
		{name: "unknown movie", path: "/api/v1/movies/999/rating", body: map[string]int{"rating": 3}, status: http.StatusNotFound, code: ErrCodeNotFound},
		{name: "bad id", path: "/api/v1/movies/x/rating", body: map[string]int{"rating": 3}, status: http.StatusBadRequest, code: ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, env.do(t, http.MethodPost, tt.path, tt.body, token), tt.status, tt.code)
		})
	}
}

func TestRateMovie_AuthModeNone(t *testing.T) {
	env := newTestEnv(t, envOptions{authMode: auth.ModeNone})

	rec := env.do(t, http.MethodPost, "/api/v1/movies/2/rating", map[string]int{"rating": 5}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	stored, err := env.db.GetUserRating(context.Background(), auth.AnonymousUser, 2)
	if err != nil || stored.Rating != 5 {
		t.Errorf("anonymous rating = %+v, %v", stored, err)
	}

	expectError(t, env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "someone", "password": "password1"}, ""), http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestRouteErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{noModel: true})
	expectError(t, env.do(t, http.MethodGet, "/api/v1/nope", nil, ""), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, env.do(t, http.MethodDelete, "/api/v1/movies/1", nil, ""), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")

	rec := env.do(t, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "recommend_model_movies") {
		t.Errorf("metrics endpoint: %d", rec.Code)
	}
}

func TestParseMovieID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "19995", want: 19995},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", tt.raw)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		got, err := parseMovieID(req)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseMovieID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}

func TestOutcomeResponse(t *testing.T) {
	t.Parallel()

	resp := outcomeResponse(recommend.LoadOutcome{Result: recommend.LoadResultRebuildFailed, Err: recommend.ErrEmptyCorpus})
	if resp.Result != "rebuild_failed" || resp.Error != recommend.ErrEmptyCorpus.Error() {
		t.Errorf("outcomeResponse() = %+v", resp)
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
