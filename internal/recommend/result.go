// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "time"

// LoadResult reports which path a load or rebuild took.
type LoadResult int

const (
	// LoadResultRebuildFailed means no new model was produced; the previous
	// model (or none) keeps serving.
	LoadResultRebuildFailed LoadResult = iota

	// LoadResultLoaded means the persisted model was loaded.
	LoadResultLoaded

	// LoadResultRebuilt means a model was built from the live catalog.
	LoadResultRebuilt
)

// String returns the metric/log label for r.
func (r LoadResult) String() string {
	switch r {
	case LoadResultLoaded:
		return "loaded"
	case LoadResultRebuilt:
		return "rebuilt"
	default:
		return "rebuild_failed"
	}
}

// LoadOutcome describes a completed LoadOrBuild, Rebuild or Reload call.
type LoadOutcome struct {
	Result LoadResult

	// Movies and Terms describe the model now serving (zero if none).
	Movies int
	Terms  int

	// Duration is the time spent building, zero for a plain load.
	Duration time.Duration

	// LoadErr is why the persisted model could not be used, if a load was tried.
	LoadErr error

	// Err is why a rebuild failed. Set only with LoadResultRebuildFailed.
	Err error

	// SaveErr is set when a rebuilt model could not be persisted.
	SaveErr error
}

// Serving reports whether a model is available after this outcome.
func (o LoadOutcome) Serving() bool {
	return o.Movies > 0
}

// Status is a point-in-time view of the engine.
type Status struct {
	Ready      bool        `json:"ready"`
	Movies     int         `json:"movies"`
	Terms      int         `json:"terms"`
	BuiltAt    time.Time   `json:"built_at,omitempty"`
	Rebuilding bool        `json:"rebuilding"`
	LastResult string      `json:"last_result,omitempty"`
	LastError  string      `json:"last_error,omitempty"`
	LastLoadAt time.Time   `json:"last_load_at,omitempty"`
	Store      string      `json:"store,omitempty"`
	Config     StatusLimit `json:"limits"`
}

// StatusLimit exposes the query limits to clients.
type StatusLimit struct {
	DefaultCount int `json:"default_count"`
	MaxCount     int `json:"max_count"`
}
