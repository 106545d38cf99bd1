// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// Model store kinds accepted by OpenStore.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
)

// ConfigFromApp maps application settings onto an engine config. Zero values
// keep the engine defaults.
func ConfigFromApp(rc *config.RecommendConfig) *Config {
	cfg := DefaultConfig()
	if rc.MaxFeatures > 0 {
		cfg.MaxFeatures = rc.MaxFeatures
	}
	if rc.Workers > 0 {
		cfg.Workers = rc.Workers
	}
	if rc.MaxCount > 0 {
		cfg.MaxCount = rc.MaxCount
	}
	if rc.APICount > 0 {
		cfg.DefaultCount = rc.APICount
	}
	if rc.BuildTimeout > 0 {
		cfg.BuildTimeout = rc.BuildTimeout
	}
	return cfg
}

// OpenStore opens the configured model store. The returned close function
// releases it and is safe to call for stores that hold nothing open.
func OpenStore(rc *config.RecommendConfig) (storage.ModelStore, func() error, error) {
	switch rc.ModelStore {
	case StoreFile, "":
		store, err := storage.NewFileStore(rc.ModelPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	case StoreBadger:
		store, err := storage.OpenBadgerStore(rc.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown model store %q", rc.ModelStore)
	}
}
