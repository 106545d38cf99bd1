// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package query provides SQL query building utilities for the database package.
//
// WhereBuilder assembles parameterized WHERE clauses so catalog queries never
// interpolate user input into SQL:
//
//	wb := query.NewWhereBuilder()
//	wb.AddContainsAny([]string{"title", "director"}, "nolan")
//	wb.AddMin("vote_count", 100)
//	whereClause, args := wb.Build()
//	// (contains(lower(title), ?) OR contains(lower(director), ?)) AND vote_count >= ?
//	// ["nolan", "nolan", 100]
package query
