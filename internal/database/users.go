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

// CreateUser stores a new account. passwordHash must already be hashed.
// A taken username returns ErrUserExists.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (user *models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("INSERT", "users", time.Now(), &err)

	now := time.Now().UTC()
	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (nextval('seq_users_id'), ?, ?, ?)
		RETURNING id`,
		username, passwordHash, now).Scan(&id)
	if isConstraintViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// GetUser returns the account for username, or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, username string) (user *models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("SELECT", "users", time.Now(), &err)

	var u models.User
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
