// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout in BadgerDB.
const (
	modelBlobKey = "model:similarity:blob"
	modelMetaKey = "model:similarity:meta"
)

// BadgerStore keeps the model blob in BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	owned  bool
	dbPath string
}

// OpenBadgerStore opens (or creates) a BadgerDB at dir for model storage.
// The returned store owns the database and closes it in Close.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger model store: %w", err)
	}
	return &BadgerStore{db: db, owned: true, dbPath: dir}, nil
}

// NewBadgerStore wraps an already open database. The caller keeps ownership.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, dbPath: db.Opts().Dir}
}

// Location returns the database directory.
func (s *BadgerStore) Location() string {
	if s.dbPath == "" {
		return "badger:memory"
	}
	return "badger:" + s.dbPath
}

// Save stores the blob and a JSON copy of its metadata in one transaction.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, payload []byte, meta Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	blob, stored, err := encodeEnvelope(payload, meta)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(modelBlobKey), blob); err != nil {
			return fmt.Errorf("set model blob: %w", err)
		}

		metaJSON, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("marshal model metadata: %w", err)
		}
		if err := txn.Set([]byte(modelMetaKey), metaJSON); err != nil {
			return fmt.Errorf("set model metadata: %w", err)
		}
		return nil
	})
}

// Load reads and verifies the stored blob.
func (s *BadgerStore) Load(ctx context.Context) ([]byte, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelBlobKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get model blob: %w", err)
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return decodeEnvelope(bytes.NewReader(blob))
}

// Metadata returns the stored metadata without decoding the model.
func (s *BadgerStore) Metadata(ctx context.Context) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelMetaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get model metadata: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
