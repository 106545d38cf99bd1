// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// DefaultWatchDebounce coalesces the events of one file replacement.
const DefaultWatchDebounce = 500 * time.Millisecond

// ModelReloader reloads the persisted model.
type ModelReloader interface {
	Reload(ctx context.Context) (recommend.LoadOutcome, error)
}

// ModelWatchService reloads the model when its file is replaced. The file
// store writes through a rename, so the parent directory is watched and
// events are filtered by name.
type ModelWatchService struct {
	path     string
	reloader ModelReloader
	debounce time.Duration
	logger   zerolog.Logger
	name     string

	readyOnce sync.Once
	ready     chan struct{}
}

// NewModelWatchService watches path. A non-positive debounce uses
// DefaultWatchDebounce.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelWatchService(path string, reloader ModelReloader, debounce time.Duration, logger zerolog.Logger) *ModelWatchService {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &ModelWatchService{
		path:     filepath.Clean(path),
		reloader: reloader,
		debounce: debounce,
		logger:   logger.With().Str("service", "model-watch").Str("path", path).Logger(),
		name:     "model-watch",
		ready:    make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (s *ModelWatchService) Serve(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create model watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info().Msg("watching model file")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("model watcher closed")
			}
			if filepath.Clean(event.Name) != s.path || event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return errors.New("model watcher closed")
			}
			s.logger.Warn().Err(watchErr).Msg("model watcher error")

		case <-fire:
			fire = nil
			s.reload(ctx)
		}
	}
}

func (s *ModelWatchService) reload(ctx context.Context) {
	outcome, err := s.reloader.Reload(ctx)
	switch {
	case errors.Is(err, recommend.ErrRebuildInProgress):
		s.logger.Info().Msg("model file changed during a rebuild, reload skipped")
	case err != nil:
		s.logger.Warn().Err(err).Msg("model file changed but could not be loaded, keeping current model")
	default:
		s.logger.Info().Int("movies", outcome.Movies).Int("terms", outcome.Terms).Msg("model file reloaded")
	}
}

func (s *ModelWatchService) String() string {
	return s.name
}
