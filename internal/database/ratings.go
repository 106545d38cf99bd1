// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// UpsertRating records username's rating of movieID, replacing any earlier one.
func (db *DB) UpsertRating(ctx context.Context, username string, movieID int64, rating int) (action models.UpsertAction, err error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return "", ErrInvalidRating
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("UPSERT", "ratings", time.Now(), &err)

	err = withConflictRetry(ctx, func() error {
		tx, txErr := db.conn.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}
		defer rollbackQuietly(tx)

		now := time.Now().UTC()
		res, upErr := tx.ExecContext(ctx,
			`UPDATE ratings SET rating = ?, updated_at = ? WHERE username = ? AND movie_id = ?`,
			rating, now, username, movieID)
		if upErr != nil {
			return fmt.Errorf("failed to update rating: %w", upErr)
		}

		a := models.ActionUpdated
		if n, _ := res.RowsAffected(); n == 0 {
			_, insErr := tx.ExecContext(ctx, `
				INSERT INTO ratings (id, username, movie_id, rating, created_at, updated_at)
				VALUES (nextval('seq_ratings_id'), ?, ?, ?, ?, ?)`,
				username, movieID, rating, now, now)
			if insErr != nil {
				return fmt.Errorf("failed to insert rating: %w", insErr)
			}
			a = models.ActionCreated
		}

		if cErr := tx.Commit(); cErr != nil {
			return fmt.Errorf("failed to commit rating: %w", cErr)
		}
		action = a
		return nil
	})
	return action, err
}

// GetUserRating returns username's rating of movieID, or ErrNotFound.
func (db *DB) GetUserRating(ctx context.Context, username string, movieID int64) (rating *models.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("SELECT", "ratings", time.Now(), &err)

	var r models.Rating
	err = db.conn.QueryRowContext(ctx, `
		SELECT id, username, movie_id, rating, created_at, updated_at
		FROM ratings WHERE username = ? AND movie_id = ?`, username, movieID).
		Scan(&r.ID, &r.Username, &r.MovieID, &r.Rating, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &r, nil
}
