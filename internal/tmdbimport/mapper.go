// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdbimport

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/models"
)

var (
	errInvalidID    = errors.New("invalid movie id")
	errMissingTitle = errors.New("missing title")
)

// mapMovie builds a catalog movie from a movies row and its credits.
func mapMovie(rec record, cr credits) (*models.Movie, error) {
	id, ok := parseID(rec.get("id"))
	if !ok {
		return nil, errInvalidID
	}
	title := strings.TrimSpace(rec.get("title"))
	if title == "" {
		return nil, errMissingTitle
	}

	m := &models.Movie{
		ID:          id,
		Title:       title,
		Overview:    rec.get("overview"),
		ReleaseDate: parseDate(rec.get("release_date")),
		Runtime:     parseRuntime(rec.get("runtime")),
		VoteAverage: parseFloat(rec.get("vote_average")),
		VoteCount:   int(parseFloat(rec.get("vote_count"))),
		Popularity:  parseFloat(rec.get("popularity")),
		Genres:      parseList[models.NamedEntity](rec.get("genres")),
		Keywords:    parseList[models.NamedEntity](rec.get("keywords")),
		Cast:        parseList[models.CastMember](cr.cast),
		Crew:        parseList[models.CrewMember](cr.crew),
	}
	m.Denormalize()
	return m, nil
}

// parseList decodes a JSON array column. Anything that is not a well-formed
// array of objects yields an empty list.
func parseList[T any](raw string) []T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseDate accepts YYYY-MM-DD; anything else is an unknown date.
func parseDate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// parseRuntime accepts integer or float text ("120", "120.0").
func parseRuntime(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	v := int(f)
	return &v
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
