// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "strings"

const (
	// FeatureCastLimit is the number of leading cast entries used in feature text.
	FeatureCastLimit = 5

	// FeatureKeywordLimit is the number of leading keywords used in feature text.
	FeatureKeywordLimit = 10
)

// Document is the engine's read-only view of a catalog movie.
type Document struct {
	ID       int64
	Genres   []string
	Cast     []string
	Keywords []string
	Overview string
}

// CorpusEntry is one row of the corpus used to fit a model.
type CorpusEntry struct {
	ID   int64
	Text string
}

// BuildFeatureText joins genres, the first five cast names, the first ten
// keywords and the overview, in that order, with single spaces.
// Empty or missing parts contribute empty tokens and never cause a failure.
//
//nolint:gocritic // hugeParam: Document passed by value for a pure function
func BuildFeatureText(doc Document) string {
	cast := doc.Cast
	if len(cast) > FeatureCastLimit {
		cast = cast[:FeatureCastLimit]
	}
	keywords := doc.Keywords
	if len(keywords) > FeatureKeywordLimit {
		keywords = keywords[:FeatureKeywordLimit]
	}

	return strings.Join([]string{
		strings.Join(doc.Genres, " "),
		strings.Join(cast, " "),
		strings.Join(keywords, " "),
		doc.Overview,
	}, " ")
}

// BuildCorpus converts documents into corpus entries, preserving order.
func BuildCorpus(docs []Document) []CorpusEntry {
	corpus := make([]CorpusEntry, len(docs))
	for i := range docs {
		corpus[i] = CorpusEntry{ID: docs[i].ID, Text: BuildFeatureText(docs[i])}
	}
	return corpus
}
