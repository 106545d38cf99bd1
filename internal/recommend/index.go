// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "fmt"

// IDIndex maps movie IDs to matrix rows and back. Row order is corpus order.
type IDIndex struct {
	ids  []int64
	rows map[int64]int
}

// NewIDIndex builds an index over ids in the given order.
// Duplicate IDs are rejected since they would make rows ambiguous.
func NewIDIndex(ids []int64) (*IDIndex, error) {
	idx := &IDIndex{
		ids:  make([]int64, len(ids)),
		rows: make(map[int64]int, len(ids)),
	}
	copy(idx.ids, ids)
	for row, id := range ids {
		if prev, dup := idx.rows[id]; dup {
			return nil, fmt.Errorf("duplicate movie id %d at rows %d and %d", id, prev, row)
		}
		idx.rows[id] = row
	}
	return idx, nil
}

// Row returns the matrix row of id.
func (x *IDIndex) Row(id int64) (int, bool) {
	row, ok := x.rows[id]
	return row, ok
}

// ID returns the movie ID at row. It panics if row is out of range.
func (x *IDIndex) ID(row int) int64 {
	return x.ids[row]
}

// Len returns the number of indexed movies.
func (x *IDIndex) Len() int {
	return len(x.ids)
}

// IDs returns a copy of the IDs in row order.
func (x *IDIndex) IDs() []int64 {
	out := make([]int64, len(x.ids))
	copy(out, x.ids)
	return out
}
