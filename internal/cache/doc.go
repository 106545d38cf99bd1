// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package cache provides an in-memory LRU cache with TTL expiry.
//
// The API layer caches recommendation responses keyed by movie and count,
// and clears the cache whenever the recommendation model is swapped:
//
//	recs := cache.NewLRU[*models.RecommendationsResponse]("recommendations", 1000, 10*time.Minute)
//	engine.OnModelSwap(func(*recommend.Model) { recs.Clear() })
package cache
