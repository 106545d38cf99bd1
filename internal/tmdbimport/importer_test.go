// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdbimport

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// fakeWriter records batches and fails rows whose id is in failIDs.
type fakeWriter struct {
	mu      sync.Mutex
	batches [][]*models.Movie
	seen    map[int64]bool
	failIDs map[int64]bool
}

func (w *fakeWriter) UpsertMovies(_ context.Context, movies []*models.Movie) []database.UpsertResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seen == nil {
		w.seen = make(map[int64]bool)
	}
	batch := make([]*models.Movie, len(movies))
	copy(batch, movies)
	w.batches = append(w.batches, batch)

	results := make([]database.UpsertResult, len(movies))
	for i, m := range movies {
		res := database.UpsertResult{ID: m.ID, Action: models.ActionCreated}
		switch {
		case w.failIDs[m.ID]:
			res = database.UpsertResult{ID: m.ID, Err: errors.New("rejected")}
		case w.seen[m.ID]:
			res.Action = models.ActionUpdated
		}
		w.seen[m.ID] = true
		results[i] = res
	}
	return results
}

func writeCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

var movieHeader = []string{
	"budget", "genres", "homepage", "id", "keywords", "original_language", "original_title",
	"overview", "popularity", "production_companies", "release_date", "revenue", "runtime",
	"status", "tagline", "title", "vote_average", "vote_count",
}

func movieRow(id, title, genres, overview string) []string {
	return []string{
		"1000", genres, "", id, `[{"id": 1, "name": "space"}]`, "en", title,
		overview, "12.5", "[]", "2001-04-05", "0", "101",
		"Released", "", title, "6.5", "200",
	}
}

func writeFixtures(t *testing.T) (moviesPath, creditsPath string) {
	t.Helper()
	dir := t.TempDir()

	moviesPath = writeCSV(t, dir, "movies.csv", [][]string{
		movieHeader,
		movieRow("1", "Space Odyssey", `[{"id": 878, "name": "Science Fiction"}]`, "A voyage, with \"quotes\" and commas."),
		movieRow("2", "Harbor Nights", `[{"id": 18, "name": "Drama"}]`, "Line one\nline two"),
		movieRow("3", "", `[]`, "No title"),
		movieRow("4", "No Credits", `[]`, "Never joined"),
		movieRow("5", "Broken Genres", `not json`, "Still imported"),
	})
	creditsPath = writeCSV(t, dir, "credits.csv", [][]string{
		{"movie_id", "title", "cast", "crew"},
		{"1", "Ignored Title", `[{"id": 10, "name": "Ada Actor", "order": 0}]`, `[{"id": 20, "name": "Dee Rector", "job": "Director", "department": "Directing"}]`},
		{"2", "", `[]`, `[]`},
		{"3", "", `[]`, `[]`},
		{"5", "", `garbage`, `[]`},
	})
	return moviesPath, creditsPath
}

func TestImport(t *testing.T) {
	t.Parallel()

	moviesPath, creditsPath := writeFixtures(t)
	writer := &fakeWriter{failIDs: map[int64]bool{2: true}}
	importer := NewImporter(&config.ImportConfig{MoviesCSV: moviesPath, CreditsCSV: creditsPath, BatchSize: 2}, writer)

	stats, err := importer.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	want := ImportStats{Total: 4, Processed: 4, Created: 2, Skipped: 1, Errors: 1, Unmatched: 1}
	if stats.Total != want.Total || stats.Processed != want.Processed || stats.Created != want.Created ||
		stats.Updated != 0 || stats.Skipped != want.Skipped || stats.Errors != want.Errors || stats.Unmatched != want.Unmatched {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
	if stats.EndTime.IsZero() || stats.Duration() < 0 {
		t.Errorf("end time not stamped: %+v", stats)
	}
	if stats.Progress() != 100 {
		t.Errorf("Progress() = %v", stats.Progress())
	}

	if len(writer.batches) != 2 || len(writer.batches[0]) != 2 || len(writer.batches[1]) != 1 {
		t.Fatalf("batches = %d, want sizes 2 and 1", len(writer.batches))
	}

	first := writer.batches[0][0]
	if first.Title != "Space Odyssey" || first.Director != "Dee Rector" || first.MainCast != "Ada Actor" {
		t.Errorf("joined movie = %+v", first)
	}
	if !strings.Contains(writer.batches[0][1].Overview, "\n") {
		t.Error("multi-line overview should survive CSV quoting")
	}
	if broken := writer.batches[1][0]; broken.ID != 5 || len(broken.Genres) != 0 || len(broken.Cast) != 0 {
		t.Errorf("lenient row = %+v", broken)
	}
}

func TestImport_SecondRunUpdates(t *testing.T) {
	t.Parallel()

	moviesPath, creditsPath := writeFixtures(t)
	writer := &fakeWriter{}
	importer := NewImporter(&config.ImportConfig{MoviesCSV: moviesPath, CreditsCSV: creditsPath}, writer)

	if _, err := importer.Import(context.Background()); err != nil {
		t.Fatal(err)
	}
	stats, err := importer.Import(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Created != 0 || stats.Updated != 3 {
		t.Errorf("second run created=%d updated=%d, want 0/3", stats.Created, stats.Updated)
	}
	if importer.IsRunning() {
		t.Error("IsRunning() should be false after Import returns")
	}
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()

	moviesPath, creditsPath := writeFixtures(t)
	badHeader := writeCSV(t, t.TempDir(), "bad.csv", [][]string{{"id", "title"}, {"1", "x"}})

	tests := []struct {
		name string
		cfg  config.ImportConfig
	}{
		{name: "missing paths", cfg: config.ImportConfig{}},
		{name: "missing movies file", cfg: config.ImportConfig{MoviesCSV: filepath.Join(t.TempDir(), "nope.csv"), CreditsCSV: creditsPath}},
		{name: "credits missing columns", cfg: config.ImportConfig{MoviesCSV: moviesPath, CreditsCSV: badHeader}},
		{name: "movies missing columns", cfg: config.ImportConfig{MoviesCSV: badHeader, CreditsCSV: creditsPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			stats, err := NewImporter(&cfg, &fakeWriter{}).Import(context.Background())
			if err == nil {
				t.Fatal("Import() should fail")
			}
			if stats == nil {
				t.Error("stats should be returned with the error")
			}
		})
	}
}

func TestImport_Canceled(t *testing.T) {
	t.Parallel()

	moviesPath, creditsPath := writeFixtures(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewImporter(&config.ImportConfig{MoviesCSV: moviesPath, CreditsCSV: creditsPath}, &fakeWriter{}).Import(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Import() error = %v, want context.Canceled", err)
	}
}

func TestImport_IntoDuckDB(t *testing.T) {
	moviesPath, creditsPath := writeFixtures(t)

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	stats, err := NewImporter(&config.ImportConfig{MoviesCSV: moviesPath, CreditsCSV: creditsPath}, db).Import(ctx)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Created != 3 || stats.Errors != 0 {
		t.Errorf("stats = %+v", *stats)
	}

	m, err := db.GetMovie(ctx, 1)
	if err != nil {
		t.Fatalf("GetMovie() error = %v", err)
	}
	if m.Director != "Dee Rector" || m.GenreNames != "Science Fiction" || m.Runtime == nil || *m.Runtime != 101 {
		t.Errorf("stored movie = %+v", m)
	}

	count, err := db.CountMovies(ctx)
	if err != nil || count != 3 {
		t.Errorf("CountMovies() = %d, %v", count, err)
	}
}
