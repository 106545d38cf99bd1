// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package storage persists serialized recommendation models.
//
// A model is stored as one opaque blob: a gob-encoded envelope holding
// metadata and the gzip-compressed payload. The metadata carries a SHA-256
// checksum of the uncompressed payload, verified on every load.
//
// Two backends are provided: FileStore writes a single file (atomically,
// via rename), and BadgerStore keeps the blob under a key in BadgerDB.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no model has been stored yet.
	ErrNotFound = errors.New("model not found")

	// ErrChecksumMismatch is returned when a stored payload fails verification.
	ErrChecksumMismatch = errors.New("model checksum mismatch")
)

// Metadata describes a stored model.
type Metadata struct {
	// Format identifies the payload encoding; loaders reject unknown formats.
	Format string `json:"format"`

	// BuiltAt is when the model was built.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the model was stored.
	SavedAt time.Time `json:"saved_at"`

	// MovieCount is the number of movies in the model.
	MovieCount int `json:"movie_count"`

	// TermCount is the vocabulary size.
	TermCount int `json:"term_count"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// BuildDurationMS is how long the build took.
	BuildDurationMS int64 `json:"build_duration_ms"`
}

// ModelStore persists a single model blob.
type ModelStore interface {
	// Save replaces the stored model.
	Save(ctx context.Context, payload []byte, meta Metadata) error

	// Load returns the stored payload and its metadata, or ErrNotFound.
	Load(ctx context.Context) ([]byte, *Metadata, error)

	// Location describes where the model lives, for logs.
	Location() string
}

// envelope is the encoded blob format.
type envelope struct {
	Metadata       Metadata
	CompressedData []byte
}

// encodeEnvelope compresses payload and wraps it with checksummed metadata.
//
//nolint:gocritic // meta passed by value so callers keep their copy unchanged
func encodeEnvelope(payload []byte, meta Metadata) ([]byte, Metadata, error) {
	hash := sha256.Sum256(payload)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(payload); err != nil {
		return nil, meta, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}); err != nil {
		return nil, meta, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), meta, nil
}

// decodeEnvelope reverses encodeEnvelope and verifies the checksum.
func decodeEnvelope(r io.Reader) ([]byte, *Metadata, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, nil, fmt.Errorf("decode envelope: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after full read is not actionable

	payload, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(payload)
	if sum := hex.EncodeToString(hash[:]); sum != env.Metadata.Checksum {
		return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, env.Metadata.Checksum, sum)
	}

	return payload, &env.Metadata, nil
}
