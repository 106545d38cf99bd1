// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import "fmt"

// JSON list columns are stored as VARCHAR so the json extension is not needed.
// "cast" is reserved in SQL, hence cast_members. movies carries no secondary
// indexes: DuckDB rewrites updates of indexed columns as delete+insert.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT PRIMARY KEY,
		title VARCHAR NOT NULL,
		overview VARCHAR NOT NULL DEFAULT '',
		release_date DATE,
		runtime INTEGER,
		vote_average DOUBLE NOT NULL DEFAULT 0,
		vote_count INTEGER NOT NULL DEFAULT 0,
		popularity DOUBLE NOT NULL DEFAULT 0,
		genres VARCHAR NOT NULL DEFAULT '[]',
		keywords VARCHAR NOT NULL DEFAULT '[]',
		cast_members VARCHAR NOT NULL DEFAULT '[]',
		crew VARCHAR NOT NULL DEFAULT '[]',
		director VARCHAR NOT NULL DEFAULT '',
		main_cast VARCHAR NOT NULL DEFAULT '',
		genre_names VARCHAR NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_users_id START 1`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_ratings_id START 1`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id BIGINT PRIMARY KEY,
		username VARCHAR NOT NULL,
		movie_id BIGINT NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (username, movie_id)
	)`,

	`CREATE TABLE IF NOT EXISTS search_log (
		id VARCHAR PRIMARY KEY,
		query VARCHAR NOT NULL,
		username VARCHAR,
		results_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// createTables creates all catalog tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
