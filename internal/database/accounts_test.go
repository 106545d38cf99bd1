// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/cinematch/internal/models"
)

func TestUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice, err := db.CreateUser(ctx, "alice", "$2a$10$hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	bob, err := db.CreateUser(ctx, "bob", "$2a$10$other")
	if err != nil {
		t.Fatalf("CreateUser(bob) error = %v", err)
	}
	if alice.ID <= 0 || bob.ID <= alice.ID {
		t.Errorf("ids = %d, %d; want increasing positive", alice.ID, bob.ID)
	}

	if _, err := db.CreateUser(ctx, "alice", "x"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrUserExists", err)
	}

	got, err := db.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.ID != alice.ID || got.PasswordHash != "$2a$10$hash" {
		t.Errorf("GetUser() = %+v", got)
	}

	if _, err := db.GetUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	mustUpsert(t, db, testMovie(10, "Rated", 1))

	if _, err := db.GetUserRating(ctx, "alice", 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserRating() before rating error = %v", err)
	}

	action, err := db.UpsertRating(ctx, "alice", 10, 4)
	if err != nil || action != models.ActionCreated {
		t.Fatalf("first UpsertRating() = %q, %v", action, err)
	}
	action, err = db.UpsertRating(ctx, "alice", 10, 2)
	if err != nil || action != models.ActionUpdated {
		t.Fatalf("second UpsertRating() = %q, %v", action, err)
	}
	action, err = db.UpsertRating(ctx, "bob", 10, 5)
	if err != nil || action != models.ActionCreated {
		t.Fatalf("other user UpsertRating() = %q, %v", action, err)
	}

	r, err := db.GetUserRating(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("GetUserRating() error = %v", err)
	}
	if r.Rating != 2 || r.MovieID != 10 || r.Username != "alice" {
		t.Errorf("rating = %+v", r)
	}
	if r.UpdatedAt.Before(r.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", r.UpdatedAt, r.CreatedAt)
	}

	for _, bad := range []int{0, 6, -1} {
		if _, err := db.UpsertRating(ctx, "alice", 10, bad); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("UpsertRating(%d) error = %v, want ErrInvalidRating", bad, err)
		}
	}
}

func TestLogSearch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := "alice"
	entry, err := db.LogSearch(ctx, "nolan", &user, 2)
	if err != nil {
		t.Fatalf("LogSearch() error = %v", err)
	}
	if entry.ID == "" || entry.Query != "nolan" || entry.ResultsCount != 2 {
		t.Errorf("entry = %+v", entry)
	}

	if _, err := db.LogSearch(ctx, "anonymous", nil, 0); err != nil {
		t.Fatalf("anonymous LogSearch() error = %v", err)
	}

	if n, err := db.CountSearches(ctx); err != nil || n != 2 {
		t.Errorf("CountSearches() = %d, %v; want 2", n, err)
	}
}
