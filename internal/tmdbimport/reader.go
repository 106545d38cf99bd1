// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdbimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Columns read from tmdb_5000_movies.csv.
var movieColumns = []string{
	"id", "title", "overview", "release_date", "runtime",
	"vote_average", "vote_count", "popularity", "genres", "keywords",
}

// Columns read from tmdb_5000_credits.csv.
var creditColumns = []string{"movie_id", "cast", "crew"}

// record is one CSV row addressed by header name.
type record struct {
	index  map[string]int
	fields []string
}

// get returns the named column, or "" when the row is short.
func (r record) get(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// csvReader reads a headed CSV file row by row.
type csvReader struct {
	file  *os.File
	r     *csv.Reader
	index map[string]int
	path  string
}

// openCSV opens path and checks the header carries every required column.
func openCSV(path string, required []string) (*csvReader, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%s is missing columns: %s", path, strings.Join(missing, ", "))
	}

	return &csvReader{file: f, r: r, index: index, path: path}, nil
}

// next returns the next row, or io.EOF.
func (c *csvReader) next() (record, error) {
	fields, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return record{}, io.EOF
		}
		return record{}, fmt.Errorf("read %s: %w", c.path, err)
	}
	return record{index: c.index, fields: fields}, nil
}

func (c *csvReader) Close() error {
	return c.file.Close()
}

// credits holds the raw cast and crew JSON of one movie.
type credits struct {
	cast string
	crew string
}

// readCredits loads the credits file keyed by movie id. A later row for the
// same id replaces an earlier one.
func readCredits(path string) (map[int64]credits, error) {
	c, err := openCSV(path, creditColumns)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	out := make(map[int64]credits)
	for {
		rec, err := c.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		id, ok := parseID(rec.get("movie_id"))
		if !ok {
			continue
		}
		out[id] = credits{cast: rec.get("cast"), crew: rec.get("crew")}
	}
}
