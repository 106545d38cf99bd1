// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdbimport

import "time"

// ImportStats holds statistics about an import run.
type ImportStats struct {
	// Total is the number of joined movie rows.
	Total int64 `json:"total"`

	// Processed counts rows handled so far, including skipped and failed ones.
	Processed int64 `json:"processed"`

	Created int64 `json:"created"`
	Updated int64 `json:"updated"`

	// Skipped counts rows that could not be mapped to a movie (bad id, no title).
	Skipped int64 `json:"skipped"`

	// Errors counts rows the database rejected.
	Errors int64 `json:"errors"`

	// Unmatched counts movies rows with no credits row.
	Unmatched int64 `json:"unmatched"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns how long the import ran, or has been running.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.Total) * 100
}

// Imported is the number of rows written.
func (s *ImportStats) Imported() int64 {
	return s.Created + s.Updated
}
