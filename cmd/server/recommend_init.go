// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// RecommendComponents holds the engine and what must be released on exit.
// Engine is nil when recommendations are disabled.
type RecommendComponents struct {
	Engine     *recommend.Engine
	closeStore func() error
	logger     zerolog.Logger
}

// Close releases the model store.
func (c *RecommendComponents) Close() {
	if c.closeStore == nil {
		return
	}
	if err := c.closeStore(); err != nil {
		c.logger.Error().Err(err).Msg("error closing model store")
	}
}

// initRecommend creates the engine and adds its services to the model layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	rc := &cfg.Recommend
	if !rc.Enabled {
		logger.Info().Msg("Recommendation engine disabled (RECOMMEND_ENABLED=false)")
		return &RecommendComponents{logger: logger}, nil
	}

	store, closeStore, err := recommend.OpenStore(rc)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(recommend.ConfigFromApp(rc), db, store, logger)
	if err != nil {
		_ = closeStore() //nolint:errcheck // construction error takes precedence
		return nil, err
	}

	logger.Info().
		Str("store", store.Location()).
		Int("max_features", engine.Config().MaxFeatures).
		Bool("build_on_startup", rc.BuildOnStartup).
		Dur("rebuild_interval", rc.RebuildInterval).
		Msg("initializing recommendation engine")

	tree.AddModelService(services.NewRecommendService(engine, services.RecommendServiceConfig{
		BuildOnStartup:  rc.BuildOnStartup,
		RebuildInterval: rc.RebuildInterval,
	}, logger))

	if rc.WatchModel {
		if rc.ModelStore == recommend.StoreBadger {
			logger.Warn().Msg("RECOMMEND_WATCH_MODEL only applies to the file store, ignoring")
		} else {
			tree.AddModelService(services.NewModelWatchService(rc.ModelPath, engine, services.DefaultWatchDebounce, logger))
		}
	}

	return &RecommendComponents{Engine: engine, closeStore: closeStore, logger: logger}, nil
}
