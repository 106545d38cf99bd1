// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// DataProvider supplies the catalog corpus at build time.
type DataProvider interface {
	// GetRecommendDocuments returns every movie in a stable order.
	GetRecommendDocuments(ctx context.Context) ([]Document, error)
}

// Engine serves recommendations from an atomically swapped Model.
type Engine struct {
	cfg      *Config
	provider DataProvider
	store    storage.ModelStore
	logger   zerolog.Logger

	model atomic.Pointer[Model]

	// rebuildMu serializes builds and reloads; queries never take it.
	rebuildMu  sync.Mutex
	rebuilding atomic.Bool

	mu          sync.RWMutex
	lastOutcome *LoadOutcome
	lastLoadAt  time.Time
	onSwap      []func(*Model)
}

// NewEngine creates an engine. store may be nil to disable persistence.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewEngine(cfg *Config, provider DataProvider, store storage.ModelStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	return &Engine{
		cfg:      cfg.Clone(),
		provider: provider,
		store:    store,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// OnModelSwap registers fn to run after each new model is installed.
// Callbacks run synchronously on the goroutine that installed the model.
func (e *Engine) OnModelSwap(fn func(*Model)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSwap = append(e.onSwap, fn)
}

// Model returns the serving model, or nil if none is available.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

// Ready reports whether a model is serving.
func (e *Engine) Ready() bool {
	return e.model.Load() != nil
}

// LoadOrBuild installs the persisted model if it is usable, and otherwise
// builds one from the catalog. It is the startup hook.
func (e *Engine) LoadOrBuild(ctx context.Context) LoadOutcome {
	if !e.rebuildMu.TryLock() {
		return e.busyOutcome()
	}
	defer e.rebuildMu.Unlock()

	loadErr := e.loadLocked(ctx)
	if loadErr == nil {
		return e.record(e.outcomeFor(LoadResultLoaded))
	}

	if errors.Is(loadErr, storage.ErrNotFound) {
		e.logger.Info().Msg("no persisted model found, building from catalog")
	} else {
		e.logger.Warn().Err(loadErr).Msg("persisted model unusable, rebuilding from catalog")
	}

	outcome := e.buildLocked(ctx)
	outcome.LoadErr = loadErr
	return e.record(outcome)
}

// Rebuild builds a fresh model from the catalog and swaps it in. The
// previous model keeps serving until the new one is complete, and keeps
// serving if the build fails. A concurrent call returns immediately with
// ErrRebuildInProgress.
func (e *Engine) Rebuild(ctx context.Context) LoadOutcome {
	if !e.rebuildMu.TryLock() {
		return e.busyOutcome()
	}
	defer e.rebuildMu.Unlock()

	return e.record(e.buildLocked(ctx))
}

// Reload replaces the serving model with the persisted one. On failure the
// current model is kept and the error returned.
func (e *Engine) Reload(ctx context.Context) (LoadOutcome, error) {
	if !e.rebuildMu.TryLock() {
		return e.busyOutcome(), ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()

	if err := e.loadLocked(ctx); err != nil {
		outcome := e.outcomeFor(LoadResultRebuildFailed)
		outcome.LoadErr = err
		outcome.Err = err
		return e.record(outcome), err
	}
	return e.record(e.outcomeFor(LoadResultLoaded)), nil
}

// loadLocked loads and installs the persisted model. Caller holds rebuildMu.
func (e *Engine) loadLocked(ctx context.Context) error {
	if e.store == nil {
		return storage.ErrNotFound
	}

	payload, meta, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	if meta.Format != ModelFormat {
		return fmt.Errorf("incompatible model format %q (want %q)", meta.Format, ModelFormat)
	}

	model, err := DecodeModel(payload)
	if err != nil {
		return err
	}

	// Our own save of the serving model comes back through the watcher.
	if current := e.model.Load(); current != nil &&
		current.BuiltAt.Equal(model.BuiltAt) && current.Size() == model.Size() {
		e.logger.Debug().Time("built_at", model.BuiltAt).Msg("persisted model already serving")
		return nil
	}

	e.install(model)
	e.logger.Info().
		Str("store", e.store.Location()).
		Int("movies", model.Size()).
		Int("terms", model.Vectorizer.Len()).
		Time("built_at", model.BuiltAt).
		Msg("loaded persisted similarity model")
	return nil
}

// buildLocked builds, installs and persists a model. Caller holds rebuildMu.
func (e *Engine) buildLocked(ctx context.Context) LoadOutcome {
	e.rebuilding.Store(true)
	defer e.rebuilding.Store(false)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.BuildTimeout)
	defer cancel()

	start := time.Now()

	docs, err := e.provider.GetRecommendDocuments(ctx)
	if err != nil {
		return e.failedBuild(fmt.Errorf("load corpus: %w", err))
	}
	if len(docs) == 0 {
		return e.failedBuild(ErrEmptyCorpus)
	}

	e.logger.Info().Int("movies", len(docs)).Msg("building similarity model")

	model, err := BuildModel(ctx, BuildCorpus(docs), e.cfg)
	if err != nil {
		return e.failedBuild(err)
	}
	duration := time.Since(start)

	e.install(model)

	outcome := e.outcomeFor(LoadResultRebuilt)
	outcome.Duration = duration
	outcome.SaveErr = e.save(ctx, model, duration)

	e.logger.Info().
		Int("movies", model.Size()).
		Int("terms", model.Vectorizer.Len()).
		Dur("duration", duration).
		Bool("persisted", outcome.SaveErr == nil && e.store != nil).
		Msg("similarity model built")

	return outcome
}

// save persists model, logging and returning any failure.
func (e *Engine) save(ctx context.Context, model *Model, duration time.Duration) error {
	if e.store == nil {
		return nil
	}

	payload, err := EncodeModel(model)
	if err == nil {
		err = e.store.Save(ctx, payload, storage.Metadata{
			Format:          ModelFormat,
			BuiltAt:         model.BuiltAt,
			MovieCount:      model.Size(),
			TermCount:       model.Vectorizer.Len(),
			BuildDurationMS: duration.Milliseconds(),
		})
	}
	if err != nil {
		e.logger.Warn().Err(err).Str("store", e.store.Location()).Msg("failed to persist similarity model")
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

func (e *Engine) failedBuild(err error) LoadOutcome {
	if errors.Is(err, ErrEmptyCorpus) {
		e.logger.Warn().Msg("catalog is empty, recommendations unavailable")
	} else {
		e.logger.Error().Err(err).Msg("similarity model build failed")
	}
	outcome := e.outcomeFor(LoadResultRebuildFailed)
	outcome.Err = err
	return outcome
}

func (e *Engine) busyOutcome() LoadOutcome {
	outcome := e.outcomeFor(LoadResultRebuildFailed)
	outcome.Err = ErrRebuildInProgress
	return outcome
}

// outcomeFor describes the currently serving model.
func (e *Engine) outcomeFor(result LoadResult) LoadOutcome {
	outcome := LoadOutcome{Result: result}
	if m := e.model.Load(); m != nil {
		outcome.Movies = m.Size()
		outcome.Terms = m.Vectorizer.Len()
	}
	return outcome
}

// install swaps in model and notifies listeners.
func (e *Engine) install(model *Model) {
	e.model.Store(model)
	metrics.SetServingModel(model.Size(), model.Vectorizer.Len(), model.BuiltAt)

	e.mu.RLock()
	listeners := make([]func(*Model), len(e.onSwap))
	copy(listeners, e.onSwap)
	e.mu.RUnlock()

	for _, fn := range listeners {
		fn(model)
	}
}

func (e *Engine) record(outcome LoadOutcome) LoadOutcome {
	if errors.Is(outcome.Err, ErrRebuildInProgress) {
		return outcome
	}
	metrics.RecordModelLoad(outcome.Result.String(), outcome.Duration, outcome.SaveErr != nil)

	e.mu.Lock()
	o := outcome
	e.lastOutcome = &o
	e.lastLoadAt = time.Now()
	e.mu.Unlock()
	return outcome
}

// Recommendations returns up to n movie IDs most similar to movieID, best
// first, excluding movieID. An unknown ID or a missing model yields an empty
// result. Only an out-of-range n is an error.
func (e *Engine) Recommendations(movieID int64, n int) ([]int64, error) {
	recs, err := e.Similar(movieID, n)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids, nil
}

// Similar is Recommendations with similarity scores.
func (e *Engine) Similar(movieID int64, n int) ([]Recommendation, error) {
	start := time.Now()

	if err := e.cfg.ValidateCount(n); err != nil {
		metrics.RecordRecommendQuery("invalid", time.Since(start))
		return nil, err
	}

	model := e.model.Load()
	if model == nil {
		metrics.RecordRecommendQuery("no_model", time.Since(start))
		return []Recommendation{}, nil
	}
	if _, ok := model.Index.Row(movieID); !ok {
		metrics.RecordRecommendQuery("unknown_movie", time.Since(start))
		return []Recommendation{}, nil
	}

	recs := model.Similar(movieID, n)
	metrics.RecordRecommendQuery("ok", time.Since(start))
	return recs, nil
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	status := Status{
		Rebuilding: e.rebuilding.Load(),
		Config: StatusLimit{
			DefaultCount: e.cfg.DefaultCount,
			MaxCount:     e.cfg.MaxCount,
		},
	}
	if e.store != nil {
		status.Store = e.store.Location()
	}
	if m := e.model.Load(); m != nil {
		status.Ready = true
		status.Movies = m.Size()
		status.Terms = m.Vectorizer.Len()
		status.BuiltAt = m.BuiltAt
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.lastOutcome != nil {
		status.LastResult = e.lastOutcome.Result.String()
		if e.lastOutcome.Err != nil {
			status.LastError = e.lastOutcome.Err.Error()
		}
		status.LastLoadAt = e.lastLoadAt
	}
	return status
}
