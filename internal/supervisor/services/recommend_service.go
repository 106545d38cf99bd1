// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// ModelEngine is the part of *recommend.Engine the services drive.
type ModelEngine interface {
	LoadOrBuild(ctx context.Context) recommend.LoadOutcome
	Rebuild(ctx context.Context) recommend.LoadOutcome
	Reload(ctx context.Context) (recommend.LoadOutcome, error)
}

// RecommendServiceConfig controls the model lifecycle.
type RecommendServiceConfig struct {
	// BuildOnStartup builds from the catalog when no usable model is
	// persisted. When false the service only loads the persisted model.
	BuildOnStartup bool

	// RebuildInterval rebuilds on a timer. Zero disables periodic rebuilds.
	RebuildInterval time.Duration
}

// RecommendService installs the first model and optionally keeps it fresh.
type RecommendService struct {
	engine ModelEngine
	config RecommendServiceConfig
	logger zerolog.Logger
	name   string

	// initialized keeps a supervisor restart from repeating the startup load.
	initialized atomic.Bool
}

// NewRecommendService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(engine ModelEngine, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	return &RecommendService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "recommend").Logger(),
		name:   "recommend-service",
	}
}

// Serve implements suture.Service.
func (s *RecommendService) Serve(ctx context.Context) error {
	if !s.initialized.Swap(true) {
		s.startup(ctx)
	}

	if s.config.RebuildInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.logOutcome("scheduled", s.engine.Rebuild(ctx))
		}
	}
}

func (s *RecommendService) startup(ctx context.Context) {
	if s.config.BuildOnStartup {
		s.logOutcome("startup", s.engine.LoadOrBuild(ctx))
		return
	}

	outcome, err := s.engine.Reload(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("no persisted model loaded and startup build disabled; recommendations are empty until a rebuild")
		return
	}
	s.logOutcome("startup", outcome)
}

//nolint:gocritic // outcome passed by value, it is logged once
func (s *RecommendService) logOutcome(trigger string, outcome recommend.LoadOutcome) {
	switch {
	case errors.Is(outcome.Err, recommend.ErrRebuildInProgress):
		s.logger.Info().Str("trigger", trigger).Msg("model rebuild skipped, another is in progress")
	case outcome.Err != nil:
		s.logger.Warn().Err(outcome.Err).
			Str("trigger", trigger).
			Bool("serving", outcome.Serving()).
			Msg("model rebuild failed")
	default:
		ev := s.logger.Info().
			Str("trigger", trigger).
			Str("result", outcome.Result.String()).
			Int("movies", outcome.Movies).
			Int("terms", outcome.Terms)
		if outcome.SaveErr != nil {
			ev = ev.AnErr("save_error", outcome.SaveErr)
		}
		ev.Msg("similarity model ready")
	}
}

func (s *RecommendService) String() string {
	return s.name
}
