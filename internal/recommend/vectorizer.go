// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// SparseVector is a term-weight vector with indices in ascending order.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Dot returns the dot product of two sparse vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer is a fitted TF-IDF model: a vocabulary in lexical order and
// one smoothed IDF weight per term.
type Vectorizer struct {
	Terms    []string
	IDF      []float64
	NGramMin int
	NGramMax int

	vocabulary map[string]int
}

// FitVectorizer fits a vectorizer over texts.
//
// The vocabulary keeps the maxFeatures terms with the highest total count
// across the corpus (ties by lexical order) and is then indexed in lexical
// order. IDF is ln((1+n)/(1+df)) + 1. A corpus made only of stop-words
// yields an empty vocabulary, not an error.
func FitVectorizer(texts []string, maxFeatures, ngramMin, ngramMax int) (*Vectorizer, error) {
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, fmt.Errorf("invalid n-gram range [%d, %d]", ngramMin, ngramMax)
	}
	if maxFeatures < 1 {
		return nil, fmt.Errorf("max features must be positive, got %d", maxFeatures)
	}

	totals := make(map[string]int)
	docFreq := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, term := range analyze(text, ngramMin, ngramMax) {
			totals[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(texts))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	v := &Vectorizer{
		Terms:    terms,
		IDF:      idf,
		NGramMin: ngramMin,
		NGramMax: ngramMax,
	}
	v.buildVocabulary()
	return v, nil
}

// NewVectorizer rebuilds a fitted vectorizer from its persisted state.
func NewVectorizer(terms []string, idf []float64, ngramMin, ngramMax int) (*Vectorizer, error) {
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("vocabulary has %d terms but %d idf weights", len(terms), len(idf))
	}
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, fmt.Errorf("invalid n-gram range [%d, %d]", ngramMin, ngramMax)
	}
	v := &Vectorizer{Terms: terms, IDF: idf, NGramMin: ngramMin, NGramMax: ngramMax}
	v.buildVocabulary()
	if len(v.vocabulary) != len(terms) {
		return nil, fmt.Errorf("vocabulary contains duplicate terms")
	}
	return v, nil
}

func (v *Vectorizer) buildVocabulary() {
	v.vocabulary = make(map[string]int, len(v.Terms))
	for i, term := range v.Terms {
		v.vocabulary[term] = i
	}
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int {
	return len(v.Terms)
}

// Index returns the vocabulary index of term.
func (v *Vectorizer) Index(term string) (int, bool) {
	idx, ok := v.vocabulary[term]
	return idx, ok
}

// Transform returns the L2-normalized TF-IDF vector of text. Terms outside
// the vocabulary are ignored; text with no known terms yields an empty vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]int)
	for _, term := range analyze(text, v.NGramMin, v.NGramMax) {
		if idx, ok := v.Index(term); ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		w := float64(counts[idx]) * v.IDF[idx]
		values[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}

	return SparseVector{Indices: indices, Values: values}
}
