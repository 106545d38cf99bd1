// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sync"
)

// SimilarityMatrix is a dense, symmetric, row-major square matrix of
// cosine similarities stored as float32.
type SimilarityMatrix struct {
	Size   int
	Values []float32
}

// At returns entry (i, j).
func (m *SimilarityMatrix) At(i, j int) float32 {
	return m.Values[i*m.Size+j]
}

// Row returns row i without copying. Callers must not modify it.
func (m *SimilarityMatrix) Row(i int) []float32 {
	return m.Values[i*m.Size : (i+1)*m.Size]
}

// validate checks the structural invariants of a decoded matrix.
func (m *SimilarityMatrix) validate() error {
	if m.Size < 0 || len(m.Values) != m.Size*m.Size {
		return fmt.Errorf("similarity matrix has %d values for size %d", len(m.Values), m.Size)
	}
	return nil
}

type posting struct {
	doc    int
	weight float64
}

// ComputeSimilarity builds the cosine-similarity matrix of L2-normalized
// vectors. Each pair (i, j) with i < j is computed once, from row i's terms
// in index order, and mirrored, so the result is exactly symmetric. The
// diagonal is 1.0 for every row, including rows with an empty vector.
//
// Rows are spread over workers; the output does not depend on the worker count.
func ComputeSimilarity(ctx context.Context, vectors []SparseVector, workers int) (*SimilarityMatrix, error) {
	n := len(vectors)
	m := &SimilarityMatrix{Size: n, Values: make([]float32, n*n)}
	if n == 0 {
		return m, nil
	}
	if workers < 1 {
		workers = 1
	}

	// Inverted index: term -> postings in ascending document order.
	postings := make(map[int][]posting)
	for doc, vec := range vectors {
		for k, term := range vec.Indices {
			postings[term] = append(postings[term], posting{doc: doc, weight: vec.Values[k]})
		}
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := make([]float64, n)
			for i := range rows {
				computeUpperRow(m, vectors[i], i, postings, acc)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case rows <- i:
		}
	}
	close(rows)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	return m, nil
}

// computeUpperRow fills entries (i, j) and (j, i) for j > i. Workers own
// distinct i, and each (i, j) pair is written by exactly one worker.
func computeUpperRow(m *SimilarityMatrix, vec SparseVector, i int, postings map[int][]posting, acc []float64) {
	n := m.Size
	for j := i + 1; j < n; j++ {
		acc[j] = 0
	}
	for k, term := range vec.Indices {
		w := vec.Values[k]
		for _, p := range postings[term] {
			if p.doc > i {
				acc[p.doc] += w * p.weight
			}
		}
	}

	m.Values[i*n+i] = 1
	for j := i + 1; j < n; j++ {
		s := float32(acc[j])
		m.Values[i*n+j] = s
		m.Values[j*n+i] = s
	}
}
