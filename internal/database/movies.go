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
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/database/query"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// Home page list sizes.
const (
	PopularLimit     = 20
	RecentLimit      = 10
	TopRatedLimit    = 10
	TopRatedMinVotes = 100

	// DefaultPageSize is the search page size.
	DefaultPageSize = 12
)

// searchColumns are matched case-insensitively by SearchMovies.
var searchColumns = []string{"title", "overview", "genre_names", "main_cast", "director"}

const movieColumns = `id, title, overview, release_date, runtime, vote_average, vote_count, popularity,
	genres, keywords, cast_members, crew, director, main_cast, genre_names, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// UpsertMovie inserts m or replaces the existing row with the same id.
// created_at is kept on update.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) (action models.UpsertAction, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("UPSERT", "movies", time.Now(), &err)

	err = withConflictRetry(ctx, func() error {
		tx, txErr := db.conn.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}
		defer rollbackQuietly(tx)

		a, upErr := upsertMovieTx(ctx, tx, m, time.Now().UTC())
		if upErr != nil {
			return upErr
		}
		if cErr := tx.Commit(); cErr != nil {
			return fmt.Errorf("failed to commit movie %d: %w", m.ID, cErr)
		}
		action = a
		return nil
	})
	return action, err
}

// UpsertResult is the outcome of one row of UpsertMovies.
type UpsertResult struct {
	ID     int64
	Action models.UpsertAction
	Err    error
}

// UpsertMovies writes a batch in one transaction. If the batch fails, each
// row is retried on its own so one bad row does not lose the others.
func (db *DB) UpsertMovies(ctx context.Context, movies []*models.Movie) []UpsertResult {
	results, err := db.upsertBatch(ctx, movies)
	if err == nil {
		return results
	}

	logging.Ctx(ctx).Warn().Err(err).Int("rows", len(movies)).Msg("Batch upsert failed, retrying rows individually")

	results = make([]UpsertResult, len(movies))
	for i, m := range movies {
		action, rowErr := db.UpsertMovie(ctx, m)
		results[i] = UpsertResult{ID: m.ID, Action: action, Err: rowErr}
	}
	return results
}

func (db *DB) upsertBatch(ctx context.Context, movies []*models.Movie) (results []UpsertResult, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("UPSERT_BATCH", "movies", time.Now(), &err)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	now := time.Now().UTC()
	results = make([]UpsertResult, len(movies))
	for i, m := range movies {
		action, rowErr := upsertMovieTx(ctx, tx, m, now)
		if rowErr != nil {
			return nil, rowErr
		}
		results[i] = UpsertResult{ID: m.ID, Action: action}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return results, nil
}

func upsertMovieTx(ctx context.Context, tx *sql.Tx, m *models.Movie, now time.Time) (models.UpsertAction, error) {
	if m == nil || m.ID <= 0 || strings.TrimSpace(m.Title) == "" {
		return "", ErrInvalidMovie
	}

	cols, err := encodeMovieJSON(m)
	if err != nil {
		return "", err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)`, m.ID).Scan(&exists); err != nil {
		return "", fmt.Errorf("failed to check movie %d: %w", m.ID, err)
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
			UPDATE movies SET
				title = ?, overview = ?, release_date = CAST(? AS DATE), runtime = ?,
				vote_average = ?, vote_count = ?, popularity = ?,
				genres = ?, keywords = ?, cast_members = ?, crew = ?,
				director = ?, main_cast = ?, genre_names = ?, updated_at = ?
			WHERE id = ?`,
			m.Title, m.Overview, dateArg(m.ReleaseDate), intArg(m.Runtime),
			m.VoteAverage, m.VoteCount, m.Popularity,
			cols.genres, cols.keywords, cols.cast, cols.crew,
			m.Director, m.MainCast, m.GenreNames, now,
			m.ID)
		if err != nil {
			return "", fmt.Errorf("failed to update movie %d: %w", m.ID, err)
		}
		return models.ActionUpdated, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, CAST(? AS DATE), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Overview, dateArg(m.ReleaseDate), intArg(m.Runtime),
		m.VoteAverage, m.VoteCount, m.Popularity,
		cols.genres, cols.keywords, cols.cast, cols.crew,
		m.Director, m.MainCast, m.GenreNames, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert movie %d: %w", m.ID, err)
	}
	return models.ActionCreated, nil
}

// GetMovie returns the movie with the given id, or ErrNotFound.
func (db *DB) GetMovie(ctx context.Context, id int64) (movie *models.Movie, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("SELECT", "movies", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	movie, err = scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return movie, nil
}

// GetMoviesByIDs returns the movies for ids in the order requested.
// Unknown ids are skipped.
func (db *DB) GetMoviesByIDs(ctx context.Context, ids []int64) (movies []*models.Movie, err error) {
	if len(ids) == 0 {
		return []*models.Movie{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("SELECT_IN", "movies", time.Now(), &err)

	where, args := query.NewWhereBuilder().AddIDs("id", ids).BuildWithPrefix()
	found, err := db.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies `+where, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Movie, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	movies = make([]*models.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			movies = append(movies, m)
		}
	}
	return movies, nil
}

// ListPopular returns the most popular movies.
func (db *DB) ListPopular(ctx context.Context, limit int) ([]*models.Movie, error) {
	return db.listMovies(ctx, "popular", query.NewWhereBuilder(), "popularity DESC, id", limit)
}

// ListRecent returns the newest movies with a known release date.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]*models.Movie, error) {
	return db.listMovies(ctx, "recent", query.NewWhereBuilder().AddNotNull("release_date"), "release_date DESC, id", limit)
}

// ListTopRated returns the best-rated movies with at least TopRatedMinVotes votes.
func (db *DB) ListTopRated(ctx context.Context, limit int) ([]*models.Movie, error) {
	return db.listMovies(ctx, "top_rated", query.NewWhereBuilder().AddMin("vote_count", TopRatedMinVotes), "vote_average DESC, id", limit)
}

func (db *DB) listMovies(ctx context.Context, name string, wb *query.WhereBuilder, orderBy string, limit int) (movies []*models.Movie, err error) {
	if limit <= 0 {
		return []*models.Movie{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("SELECT_"+strings.ToUpper(name), "movies", time.Now(), &err)

	where, args := wb.BuildWithPrefix()
	// orderBy and limit are never user input
	q := fmt.Sprintf(`SELECT %s FROM movies %s ORDER BY %s LIMIT %d`, movieColumns, where, orderBy, limit)
	return db.queryMovies(ctx, q, args...)
}

// SearchPage is one page of search results.
type SearchPage struct {
	Movies     []*models.Movie
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// SearchMovies matches query case-insensitively against title, overview,
// genre names, main cast and director, most popular first. A page outside
// the result range is clamped to the first or last page. A blank query
// returns an empty page.
func (db *DB) SearchMovies(ctx context.Context, term string, page, pageSize int) (result *SearchPage, err error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	result = &SearchPage{Movies: []*models.Movie{}, Page: 1, PageSize: pageSize}

	term = strings.TrimSpace(term)
	if term == "" {
		return result, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("SEARCH", "movies", time.Now(), &err)

	where, args := query.NewWhereBuilder().AddContainsAny(searchColumns, term).BuildWithPrefix()

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies `+where, args...).Scan(&result.Total); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}
	if result.Total == 0 {
		return result, nil
	}

	result.TotalPages = (result.Total + pageSize - 1) / pageSize
	if page > result.TotalPages {
		page = result.TotalPages
	}
	result.Page = page

	q := fmt.Sprintf(`SELECT %s FROM movies %s ORDER BY popularity DESC, id LIMIT %d OFFSET %d`,
		movieColumns, where, pageSize, (page-1)*pageSize)
	result.Movies, err = db.queryMovies(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CountMovies returns the catalog size.
func (db *DB) CountMovies(ctx context.Context) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("COUNT", "movies", time.Now(), &err)

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

func (db *DB) queryMovies(ctx context.Context, q string, args ...interface{}) ([]*models.Movie, error) {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []*models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m                              models.Movie
		release                        sql.NullTime
		runtime                        sql.NullInt64
		genres, keywords, cast, crewJS string
	)
	err := row.Scan(&m.ID, &m.Title, &m.Overview, &release, &runtime,
		&m.VoteAverage, &m.VoteCount, &m.Popularity,
		&genres, &keywords, &cast, &crewJS,
		&m.Director, &m.MainCast, &m.GenreNames, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if release.Valid {
		d := release.Time.UTC()
		m.ReleaseDate = &d
	}
	if runtime.Valid {
		r := int(runtime.Int64)
		m.Runtime = &r
	}

	// Stored lists are written by encodeMovieJSON; a corrupt one degrades to empty.
	m.Genres = decodeList[models.NamedEntity](genres)
	m.Keywords = decodeList[models.NamedEntity](keywords)
	m.Cast = decodeList[models.CastMember](cast)
	m.Crew = decodeList[models.CrewMember](crewJS)
	return &m, nil
}

type movieJSON struct {
	genres, keywords, cast, crew string
}

func encodeMovieJSON(m *models.Movie) (movieJSON, error) {
	var out movieJSON
	var err error
	if out.genres, err = encodeList(m.Genres); err != nil {
		return out, fmt.Errorf("encode genres: %w", err)
	}
	if out.keywords, err = encodeList(m.Keywords); err != nil {
		return out, fmt.Errorf("encode keywords: %w", err)
	}
	if out.cast, err = encodeList(m.Cast); err != nil {
		return out, fmt.Errorf("encode cast: %w", err)
	}
	if out.crew, err = encodeList(m.Crew); err != nil {
		return out, fmt.Errorf("encode crew: %w", err)
	}
	return out, nil
}

func encodeList[T any](list []T) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList[T any](s string) []T {
	out := []T{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []T{}
	}
	return out
}

func dateArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func intArg(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
