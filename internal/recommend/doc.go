// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements the content-based movie recommendation engine.
//
// # Pipeline
//
// Building a model runs four stages over the catalog corpus:
//
//  1. Feature text: genres, top cast, top keywords and overview joined into
//     one string per movie (BuildFeatureText).
//  2. Vectorizer: a TF-IDF model fitted over the corpus with English
//     stop-words removed, unigrams plus bigrams, and a capped vocabulary.
//  3. Similarity: a dense, symmetric cosine-similarity matrix over the
//     L2-normalized TF-IDF vectors.
//  4. Index: an explicit movie ID to matrix row mapping.
//
// The result is an immutable Model. Queries rank every other row of the
// query movie's matrix row by descending score, breaking ties by corpus
// order.
//
// # Engine
//
// Engine is the service object handed to HTTP handlers and supervisor
// services. It holds the current Model behind an atomic pointer, so queries
// never block and a rebuild swaps the new model in only once it is complete.
// LoadOrBuild and Rebuild report which path was taken through a LoadOutcome
// rather than swallowing failures.
//
// # Persistence
//
// Models are serialized with encoding/gob and written through a
// storage.ModelStore (file or BadgerDB). Any load failure falls back to a
// rebuild; a save failure is logged and reported but never fails the build.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, store, logger)
//	outcome := engine.LoadOrBuild(ctx)
//	ids, err := engine.Recommendations(movieID, 10)
package recommend
