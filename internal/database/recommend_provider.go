// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

var _ recommend.DataProvider = (*DB)(nil)

// GetRecommendDocuments returns the whole catalog as recommendation
// documents, ordered by id so repeated builds see the same corpus.
func (db *DB) GetRecommendDocuments(ctx context.Context) (docs []recommend.Document, err error) {
	defer observe("SELECT_CORPUS", "movies", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, overview, genres, keywords, cast_members FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}
	defer rows.Close()

	docs = []recommend.Document{}
	for rows.Next() {
		var (
			m                      models.Movie
			genres, keywords, cast string
		)
		if err := rows.Scan(&m.ID, &m.Overview, &genres, &keywords, &cast); err != nil {
			return nil, fmt.Errorf("failed to scan corpus row: %w", err)
		}
		m.Genres = decodeList[models.NamedEntity](genres)
		m.Keywords = decodeList[models.NamedEntity](keywords)
		m.Cast = decodeList[models.CastMember](cast)

		docs = append(docs, DocumentFromMovie(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return docs, nil
}

// DocumentFromMovie converts a catalog movie to its recommendation document.
// Entries without a name are kept so the cast and keyword cutoffs count
// list positions, not names.
func DocumentFromMovie(m *models.Movie) recommend.Document {
	doc := recommend.Document{
		ID:       m.ID,
		Genres:   make([]string, len(m.Genres)),
		Cast:     make([]string, len(m.Cast)),
		Keywords: make([]string, len(m.Keywords)),
		Overview: m.Overview,
	}
	for i, g := range m.Genres {
		doc.Genres[i] = g.Name
	}
	for i, c := range m.Cast {
		doc.Cast[i] = c.Name
	}
	for i, k := range m.Keywords {
		doc.Keywords[i] = k.Name
	}
	return doc
}
