// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "time"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// User is an account. PasswordHash is a bcrypt hash and never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Rating is a user's score for a movie. (Username, MovieID) is unique.
type Rating struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	MovieID   int64     `json:"movie_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchLog records one catalog search. Username is nil for anonymous searches.
type SearchLog struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Username     *string   `json:"username,omitempty"`
	ResultsCount int       `json:"results_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpsertAction reports whether an upsert inserted or replaced a row.
type UpsertAction string

const (
	ActionCreated UpsertAction = "created"
	ActionUpdated UpsertAction = "updated"
)
