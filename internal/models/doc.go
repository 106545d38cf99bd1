// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package models defines the data structures shared by the database, import
and API layers.

Catalog models:
  - Movie: a TMDB movie with its genres, keywords, cast and crew
  - Rating: a user's 1-5 star rating of a movie
  - SearchLog: one catalog search
  - User: an account that can rate movies

API models:
  - APIResponse, APIError, Metadata: the JSON envelope of every endpoint
  - request payloads validated with go-playground/validator tags
*/
package models
