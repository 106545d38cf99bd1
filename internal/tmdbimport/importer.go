// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdbimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// DefaultBatchSize is used when the config leaves batch_size unset.
const DefaultBatchSize = 500

// MovieWriter persists batches of movies. *database.DB implements it.
type MovieWriter interface {
	UpsertMovies(ctx context.Context, movies []*models.Movie) []database.UpsertResult
}

// Importer loads the TMDB CSV pair into the catalog.
type Importer struct {
	cfg    config.ImportConfig
	writer MovieWriter

	mu      sync.RWMutex
	running bool
	stats   *ImportStats
}

// NewImporter creates an importer. cfg supplies the file paths and batch size.
func NewImporter(cfg *config.ImportConfig, writer MovieWriter) *Importer {
	c := config.ImportConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return &Importer{cfg: c, writer: writer}
}

// Import reads both files and upserts every joined row. The returned stats
// are valid even when an error is returned.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, fmt.Errorf("import already in progress")
	}
	i.running = true
	i.stats = &ImportStats{StartTime: time.Now()}
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
	}()

	if i.cfg.MoviesCSV == "" || i.cfg.CreditsCSV == "" {
		return i.finish(), fmt.Errorf("both movies and credits CSV paths are required")
	}

	creditsByID, err := readCredits(i.cfg.CreditsCSV)
	if err != nil {
		return i.finish(), err
	}
	logging.Info().Int("credits", len(creditsByID)).Str("path", i.cfg.CreditsCSV).Msg("Loaded credits")

	movies, err := openCSV(i.cfg.MoviesCSV, movieColumns)
	if err != nil {
		return i.finish(), err
	}
	defer func() {
		if closeErr := movies.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing movies CSV")
		}
	}()

	if err := i.processAll(ctx, movies, creditsByID); err != nil {
		return i.finish(), err
	}

	stats := i.finish()
	logging.Info().
		Int64("total", stats.Total).
		Int64("created", stats.Created).
		Int64("updated", stats.Updated).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Int64("unmatched", stats.Unmatched).
		Dur("duration", stats.Duration()).
		Msg("Import completed")
	return stats, nil
}

func (i *Importer) processAll(ctx context.Context, movies *csvReader, creditsByID map[int64]credits) error {
	batch := make([]*models.Movie, 0, i.cfg.BatchSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := movies.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		id, _ := parseID(rec.get("id"))
		cr, ok := creditsByID[id]
		if !ok {
			i.update(func(s *ImportStats) { s.Unmatched++ })
			continue
		}
		i.update(func(s *ImportStats) { s.Total++ })

		movie, err := mapMovie(rec, cr)
		if err != nil {
			logging.Warn().Err(err).Str("id", rec.get("id")).Str("title", rec.get("title")).Msg("Skipping movie row")
			metrics.RecordImportRecord("skipped")
			i.update(func(s *ImportStats) { s.Skipped++; s.Processed++ })
			continue
		}

		batch = append(batch, movie)
		if len(batch) >= i.cfg.BatchSize {
			i.flush(ctx, batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		i.flush(ctx, batch)
	}
	return nil
}

// flush writes one batch and folds the per-row results into the stats.
func (i *Importer) flush(ctx context.Context, batch []*models.Movie) {
	results := i.writer.UpsertMovies(ctx, batch)

	var created, updated, failed int64
	for idx, res := range results {
		switch {
		case res.Err != nil:
			failed++
			metrics.RecordImportRecord("error")
			logging.Warn().Err(res.Err).Int64("id", res.ID).Str("title", batch[idx].Title).Msg("Failed to import movie")
		case res.Action == models.ActionCreated:
			created++
			metrics.RecordImportRecord("created")
		default:
			updated++
			metrics.RecordImportRecord("updated")
		}
	}

	i.update(func(s *ImportStats) {
		s.Processed += int64(len(results))
		s.Created += created
		s.Updated += updated
		s.Errors += failed
	})

	stats := i.GetStats()
	logging.Info().
		Int64("processed", stats.Processed).
		Int64("created", stats.Created).
		Int64("updated", stats.Updated).
		Int64("errors", stats.Errors).
		Msg("Import batch written")
}

// finish stamps the end time and returns a copy of the stats.
func (i *Importer) finish() *ImportStats {
	i.mu.Lock()
	i.stats.EndTime = time.Now()
	s := *i.stats
	i.mu.Unlock()
	return &s
}

func (i *Importer) update(fn func(*ImportStats)) {
	i.mu.Lock()
	fn(i.stats)
	i.mu.Unlock()
}

// GetStats returns a copy of the current or last run's stats.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.stats == nil {
		return &ImportStats{}
	}
	s := *i.stats
	return &s
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
