// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// ModelFormat tags persisted models. A stored model with a different tag is
// treated as incompatible and rebuilt.
const ModelFormat = "cinematch-similarity/v1"

// modelSnapshot is the gob-encoded form of a Model.
type modelSnapshot struct {
	Terms    []string
	IDF      []float64
	NGramMin int
	NGramMax int
	Size     int
	Values   []float32
	IDs      []int64
	BuiltAt  time.Time
}

// EncodeModel serializes m.
func EncodeModel(m *Model) ([]byte, error) {
	snap := modelSnapshot{
		Terms:    m.Vectorizer.Terms,
		IDF:      m.Vectorizer.IDF,
		NGramMin: m.Vectorizer.NGramMin,
		NGramMax: m.Vectorizer.NGramMax,
		Size:     m.Matrix.Size,
		Values:   m.Matrix.Values,
		IDs:      m.Index.ids,
		BuiltAt:  m.BuiltAt,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeModel deserializes a model and checks it is structurally valid.
func DecodeModel(data []byte) (*Model, error) {
	var snap modelSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	vectorizer, err := NewVectorizer(snap.Terms, snap.IDF, snap.NGramMin, snap.NGramMax)
	if err != nil {
		return nil, fmt.Errorf("invalid vectorizer: %w", err)
	}

	matrix := &SimilarityMatrix{Size: snap.Size, Values: snap.Values}
	if err := matrix.validate(); err != nil {
		return nil, err
	}
	if snap.Size == 0 {
		return nil, fmt.Errorf("model has no movies")
	}

	if len(snap.IDs) != snap.Size {
		return nil, fmt.Errorf("model has %d ids for %d rows", len(snap.IDs), snap.Size)
	}
	index, err := NewIDIndex(snap.IDs)
	if err != nil {
		return nil, fmt.Errorf("invalid id index: %w", err)
	}

	return &Model{
		Vectorizer: vectorizer,
		Matrix:     matrix,
		Index:      index,
		BuiltAt:    snap.BuiltAt,
	}, nil
}
