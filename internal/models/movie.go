// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"strings"
	"time"
)

// NamedEntity is a TMDB {id, name} pair, used for genres and keywords.
type NamedEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is one entry of a TMDB cast list.
type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

// CrewMember is one entry of a TMDB crew list.
type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

// Movie is a catalog entry. ID is the TMDB id.
type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Runtime     *int       `json:"runtime,omitempty"`
	VoteAverage float64    `json:"vote_average"`
	VoteCount   int        `json:"vote_count"`
	Popularity  float64    `json:"popularity"`

	Genres   []NamedEntity `json:"genres"`
	Keywords []NamedEntity `json:"keywords"`
	Cast     []CastMember  `json:"cast"`
	Crew     []CrewMember  `json:"crew"`

	// Denormalized for search.
	Director   string `json:"director"`
	MainCast   string `json:"main_cast"`
	GenreNames string `json:"genre_names"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Year returns the release year, or 0 when the date is unknown.
func (m *Movie) Year() int {
	if m.ReleaseDate == nil {
		return 0
	}
	return m.ReleaseDate.Year()
}

// GenreList returns the genre names in TMDB order.
func (m *Movie) GenreList() []string {
	return entityNames(m.Genres)
}

// KeywordList returns the keyword names in TMDB order.
func (m *Movie) KeywordList() []string {
	return entityNames(m.Keywords)
}

// CastNames returns the billed cast names in credit order.
func (m *Movie) CastNames() []string {
	names := make([]string, 0, len(m.Cast))
	for _, c := range m.Cast {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// FindDirector returns the first crew member whose job is Director.
func (m *Movie) FindDirector() string {
	for _, c := range m.Crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// Denormalize fills Director, MainCast and GenreNames from the JSON lists.
func (m *Movie) Denormalize() {
	m.Director = m.FindDirector()
	m.MainCast = strings.Join(m.CastNames(), ", ")
	m.GenreNames = strings.Join(m.GenreList(), ", ")
}

func entityNames(list []NamedEntity) []string {
	names := make([]string, 0, len(list))
	for _, e := range list {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names
}

// MovieSummary is the compact form of a movie used in lists.
type MovieSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres"`
}

// maxSummaryGenres bounds the genres shown in list entries.
const maxSummaryGenres = 3

// Summary returns the list form of m.
func (m *Movie) Summary() MovieSummary {
	genres := m.GenreList()
	if len(genres) > maxSummaryGenres {
		genres = genres[:maxSummaryGenres]
	}
	return MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year(),
		VoteAverage: m.VoteAverage,
		Genres:      genres,
	}
}
