// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"reflect"
	"testing"
	"time"
)

func sampleMovie() *Movie {
	release := time.Date(2009, 12, 10, 0, 0, 0, 0, time.UTC)
	return &Movie{
		ID:          19995,
		Title:       "Avatar",
		ReleaseDate: &release,
		VoteAverage: 7.2,
		Genres: []NamedEntity{
			{ID: 28, Name: "Action"}, {ID: 12, Name: "Adventure"},
			{ID: 14, Name: "Fantasy"}, {ID: 878, Name: "Science Fiction"},
		},
		Keywords: []NamedEntity{{ID: 1463, Name: "culture clash"}, {ID: 2964, Name: ""}},
		Cast: []CastMember{
			{ID: 65731, Name: "Sam Worthington", Order: 0},
			{ID: 8691, Name: "Zoe Saldana", Order: 1},
		},
		Crew: []CrewMember{
			{ID: 1, Name: "Stephen E. Rivkin", Job: "Editor"},
			{ID: 2710, Name: "James Cameron", Job: "Director"},
			{ID: 9, Name: "Someone Else", Job: "Director"},
		},
	}
}

func TestMovieDenormalize(t *testing.T) {
	t.Parallel()

	m := sampleMovie()
	m.Denormalize()

	if m.Director != "James Cameron" {
		t.Errorf("Director = %q", m.Director)
	}
	if m.MainCast != "Sam Worthington, Zoe Saldana" {
		t.Errorf("MainCast = %q", m.MainCast)
	}
	if m.GenreNames != "Action, Adventure, Fantasy, Science Fiction" {
		t.Errorf("GenreNames = %q", m.GenreNames)
	}
}

func TestMovieLists(t *testing.T) {
	t.Parallel()

	m := sampleMovie()
	if got := m.KeywordList(); !reflect.DeepEqual(got, []string{"culture clash"}) {
		t.Errorf("KeywordList() = %v", got)
	}

	empty := &Movie{}
	if empty.FindDirector() != "" || len(empty.CastNames()) != 0 || empty.Year() != 0 {
		t.Error("empty movie should yield empty derived fields")
	}
}

func TestMovieSummary(t *testing.T) {
	t.Parallel()

	s := sampleMovie().Summary()
	want := MovieSummary{
		ID:          19995,
		Title:       "Avatar",
		Year:        2009,
		VoteAverage: 7.2,
		Genres:      []string{"Action", "Adventure", "Fantasy"},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Summary() = %+v, want %+v", s, want)
	}
}
