// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// DetailRecommendations is the number of similar movies on a detail response.
const DetailRecommendations = 8

// maxQueryLen bounds search terms.
const maxQueryLen = 200

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health
//   - handlers_movies.go: home, search, detail, rating
//   - handlers_recommend.go: similar-movie recommendations
//   - handlers_auth.go: register and login
//   - handlers_admin.go: model status and rebuild
type Handler struct {
	db         *database.DB
	engine     *recommend.Engine // nil when recommendations are disabled
	config     *config.Config
	jwtManager *auth.JWTManager // nil when auth_mode is none
	lockout    *auth.LockoutManager
	policy     auth.PasswordPolicy
	authLog    *logging.AuthLogger

	recCache       *cache.LRU[*models.RecommendationsResponse]
	rebuildLimiter *rate.Limiter

	version   string
	startTime time.Time
}

// NewHandler creates the API handler. engine and jwtManager may be nil.
func NewHandler(db *database.DB, engine *recommend.Engine, cfg *config.Config, jwtManager *auth.JWTManager, authLog *logging.AuthLogger) *Handler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if authLog == nil {
		authLog = logging.NewAuthLogger(logging.Logger())
	}

	cooldown := cfg.Recommend.RebuildCooldown
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	h := &Handler{
		db:             db,
		engine:         engine,
		config:         cfg,
		jwtManager:     jwtManager,
		lockout:        auth.NewLockoutManager(auth.DefaultLockoutConfig()),
		policy:         auth.DefaultPasswordPolicy(),
		authLog:        authLog,
		recCache:       cache.NewLRU[*models.RecommendationsResponse]("recommendations", cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL),
		rebuildLimiter: rate.NewLimiter(rate.Every(cooldown), 1),
		version:        "dev",
		startTime:      time.Now(),
	}

	if engine != nil {
		engine.OnModelSwap(func(*recommend.Model) {
			h.ClearCache()
		})
	}
	return h
}

// SetVersion sets the version reported by the health endpoint.
func (h *Handler) SetVersion(v string) {
	h.version = v
}

// ClearCache drops every cached recommendation response.
func (h *Handler) ClearCache() {
	h.recCache.Clear()
	logging.Debug().Msg("Recommendation cache cleared")
}

// CleanupExpired removes expired cache entries and lockout records. It is
// driven by the maintenance loop in the supervisor.
func (h *Handler) CleanupExpired() (cacheEntries, lockouts int) {
	return h.recCache.CleanupExpired(), h.lockout.CleanupExpired()
}

// detailCount is the number of recommendations on a movie detail response.
func (h *Handler) detailCount() int {
	if n := h.config.Recommend.DetailCount; n > 0 {
		return n
	}
	return DetailRecommendations
}

// apiCount is the default n of the recommendations endpoint.
func (h *Handler) apiCount() int {
	if n := h.config.Recommend.APICount; n > 0 {
		return n
	}
	if h.engine != nil {
		return h.engine.Config().DefaultCount
	}
	return recommend.DefaultConfig().DefaultCount
}

// recommendedMovies resolves recommendation ids to catalog summaries,
// keeping the similarity order. Movies deleted since the model was built are
// dropped.
func (h *Handler) recommendedMovies(ctx context.Context, recs []recommend.Recommendation) ([]models.RecommendedMovie, error) {
	out := make([]models.RecommendedMovie, 0, len(recs))
	if len(recs) == 0 {
		return out, nil
	}

	ids := make([]int64, len(recs))
	scores := make(map[int64]float64, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
		scores[rec.ID] = rec.Score
	}

	movies, err := h.db.GetMoviesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve recommendations: %w", err)
	}
	for _, m := range movies {
		out = append(out, models.RecommendedMovie{MovieSummary: m.Summary(), Score: scores[m.ID]})
	}
	return out, nil
}

func summaries(movies []*models.Movie) []models.MovieSummary {
	out := make([]models.MovieSummary, len(movies))
	for i, m := range movies {
		out[i] = m.Summary()
	}
	return out
}

// requestUser returns the authenticated username, if any.
func requestUser(ctx context.Context) (string, bool) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok || claims.Username() == "" {
		return "", false
	}
	return claims.Username(), true
}
