// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrEmptyCorpus is returned when a model is built from no movies.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInvalidCount is returned for a result count outside the allowed range.
	ErrInvalidCount = errors.New("invalid recommendation count")

	// ErrRebuildInProgress is returned when a rebuild is already running.
	ErrRebuildInProgress = errors.New("model rebuild already in progress")
)

// Recommendation is a similar movie and its cosine similarity score.
type Recommendation struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}

// Model is an immutable fitted similarity model.
type Model struct {
	Vectorizer *Vectorizer
	Matrix     *SimilarityMatrix
	Index      *IDIndex
	BuiltAt    time.Time
}

// BuildModel fits a model over corpus. Row i of the matrix is corpus[i].
func BuildModel(ctx context.Context, corpus []CorpusEntry, cfg *Config) (*Model, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	ids := make([]int64, len(corpus))
	texts := make([]string, len(corpus))
	for i, entry := range corpus {
		ids[i] = entry.ID
		texts[i] = entry.Text
	}

	index, err := NewIDIndex(ids)
	if err != nil {
		return nil, fmt.Errorf("build id index: %w", err)
	}

	vectorizer, err := FitVectorizer(texts, cfg.MaxFeatures, cfg.NGramMin, cfg.NGramMax)
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}

	vectors := make([]SparseVector, len(texts))
	for i, text := range texts {
		if i%256 == 0 && ctx.Err() != nil {
			return nil, fmt.Errorf("transform corpus: %w", ctx.Err())
		}
		vectors[i] = vectorizer.Transform(text)
	}

	matrix, err := ComputeSimilarity(ctx, vectors, cfg.Workers)
	if err != nil {
		return nil, err
	}

	return &Model{
		Vectorizer: vectorizer,
		Matrix:     matrix,
		Index:      index,
		BuiltAt:    time.Now().UTC(),
	}, nil
}

// Size returns the number of movies in the model.
func (m *Model) Size() int {
	return m.Index.Len()
}

// Similar returns up to n movies most similar to id, best first, never
// including id itself. Equal scores keep corpus order. Unknown IDs yield
// an empty result.
func (m *Model) Similar(id int64, n int) []Recommendation {
	row, ok := m.Index.Row(id)
	if !ok || n <= 0 {
		return []Recommendation{}
	}

	scores := m.Matrix.Row(row)
	candidates := make([]int, 0, len(scores)-1)
	for j := range scores {
		if j != row {
			candidates = append(candidates, j)
		}
	}

	slices.SortStableFunc(candidates, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		default:
			return 0
		}
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]Recommendation, len(candidates))
	for i, j := range candidates {
		out[i] = Recommendation{ID: m.Index.ID(j), Score: float64(scores[j])}
	}
	return out
}
