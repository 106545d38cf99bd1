// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// LogSearch records a search. username is nil for anonymous callers.
func (db *DB) LogSearch(ctx context.Context, term string, username *string, resultsCount int) (entry *models.SearchLog, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("INSERT", "search_log", time.Now(), &err)

	entry = &models.SearchLog{
		ID:           uuid.NewString(),
		Query:        term,
		Username:     username,
		ResultsCount: resultsCount,
		CreatedAt:    time.Now().UTC(),
	}

	var user interface{}
	if username != nil {
		user = *username
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO search_log (id, query, username, results_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, user, entry.ResultsCount, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to log search: %w", err)
	}

	metrics.SearchQueries.Inc()
	return entry, nil
}

// CountSearches returns the number of logged searches.
func (db *DB) CountSearches(ctx context.Context) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("COUNT", "search_log", time.Now(), &err)

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count searches: %w", err)
	}
	return count, nil
}
