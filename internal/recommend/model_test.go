// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	return cfg
}

func scenarioCorpus() []CorpusEntry {
	return []CorpusEntry{
		{ID: 1, Text: "comedy tom hanks friendship"},
		{ID: 2, Text: "comedy ensemble friendship"},
		{ID: 3, Text: "war drama historical"},
	}
}

func genreCorpus() []CorpusEntry {
	return []CorpusEntry{
		{ID: 101, Text: "science fiction space alien invasion earth"},
		{ID: 102, Text: "science fiction space station crew survival"},
		{ID: 103, Text: "romance comedy wedding paris"},
		{ID: 104, Text: "romance drama wedding love letters"},
		{ID: 105, Text: "war drama soldiers normandy invasion"},
		{ID: 106, Text: "animation family talking animals"},
		{ID: 107, Text: "the and of"},
	}
}

func mustBuild(t *testing.T, corpus []CorpusEntry) *Model {
	t.Helper()
	m, err := BuildModel(context.Background(), corpus, testConfig())
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	return m
}

func TestBuildModelScenario(t *testing.T) {
	t.Parallel()

	m := mustBuild(t, scenarioCorpus())
	recs := m.Similar(1, 2)

	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].ID != 2 || recs[1].ID != 3 {
		t.Errorf("order = %v, want [2 3]", recs)
	}
	if recs[0].Score <= recs[1].Score {
		t.Errorf("B score %v should exceed C score %v", recs[0].Score, recs[1].Score)
	}
	if recs[1].Score != 0 {
		t.Errorf("disjoint vocabulary score = %v, want 0", recs[1].Score)
	}
}

func TestBuildModelEmptyCorpus(t *testing.T) {
	t.Parallel()

	_, err := BuildModel(context.Background(), nil, testConfig())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("error = %v, want ErrEmptyCorpus", err)
	}
}

func TestBuildModelDuplicateIDs(t *testing.T) {
	t.Parallel()

	corpus := []CorpusEntry{{ID: 7, Text: "a"}, {ID: 7, Text: "b"}}
	if _, err := BuildModel(context.Background(), corpus, testConfig()); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestBuildModelCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildModel(ctx, genreCorpus(), testConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSimilarityProperties(t *testing.T) {
	t.Parallel()

	m := mustBuild(t, genreCorpus())
	n := m.Matrix.Size

	for i := 0; i < n; i++ {
		if math.Abs(float64(m.Matrix.At(i, i))-1) > floatTolerance {
			t.Errorf("diagonal (%d,%d) = %v", i, i, m.Matrix.At(i, i))
		}
		for j := 0; j < n; j++ {
			if m.Matrix.At(i, j) != m.Matrix.At(j, i) {
				t.Errorf("asymmetric at (%d,%d): %v vs %v", i, j, m.Matrix.At(i, j), m.Matrix.At(j, i))
			}
			if s := m.Matrix.At(i, j); s < 0 || s > 1+floatTolerance {
				t.Errorf("out of range at (%d,%d): %v", i, j, s)
			}
		}
	}
}

func TestSimilarityDeterministic(t *testing.T) {
	t.Parallel()

	first := mustBuild(t, genreCorpus())

	cfg := testConfig()
	cfg.Workers = 1
	second, err := BuildModel(context.Background(), genreCorpus(), cfg)
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}

	if !reflect.DeepEqual(first.Matrix.Values, second.Matrix.Values) {
		t.Error("matrices differ between builds")
	}
	if !reflect.DeepEqual(first.Vectorizer.Terms, second.Vectorizer.Terms) {
		t.Error("vocabularies differ between builds")
	}
}

func TestModelSimilar(t *testing.T) {
	t.Parallel()

	m := mustBuild(t, genreCorpus())

	t.Run("excludes self and bounds size", func(t *testing.T) {
		for _, id := range m.Index.IDs() {
			for _, n := range []int{1, 3, 6, 50} {
				recs := m.Similar(id, n)
				if want := min(n, m.Size()-1); len(recs) != want {
					t.Errorf("Similar(%d, %d) len = %d, want %d", id, n, len(recs), want)
				}
				for _, r := range recs {
					if r.ID == id {
						t.Errorf("Similar(%d, %d) contains self", id, n)
					}
				}
			}
		}
	})

	t.Run("sorted descending", func(t *testing.T) {
		recs := m.Similar(101, 6)
		for i := 1; i < len(recs); i++ {
			if recs[i].Score > recs[i-1].Score {
				t.Errorf("not sorted at %d: %v", i, recs)
			}
		}
		if recs[0].ID != 102 {
			t.Errorf("top match = %d, want 102", recs[0].ID)
		}
	})

	t.Run("ties keep corpus order", func(t *testing.T) {
		// 106 shares nothing with anyone, so every candidate scores 0.
		recs := m.Similar(106, 6)
		want := []int64{101, 102, 103, 104, 105, 107}
		got := make([]int64, len(recs))
		for i, r := range recs {
			got[i] = r.ID
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ids = %v, want %v", got, want)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if recs := m.Similar(999, 5); recs == nil || len(recs) != 0 {
			t.Errorf("Similar(unknown) = %v, want empty", recs)
		}
	})

	t.Run("non-positive n", func(t *testing.T) {
		if recs := m.Similar(101, 0); len(recs) != 0 {
			t.Errorf("Similar(n=0) = %v", recs)
		}
	})
}

func TestModelSingleMovie(t *testing.T) {
	t.Parallel()

	m := mustBuild(t, []CorpusEntry{{ID: 42, Text: "lonely planet"}})
	if recs := m.Similar(42, 5); len(recs) != 0 {
		t.Errorf("Similar() = %v, want empty", recs)
	}
	if m.Matrix.At(0, 0) != 1 {
		t.Errorf("diagonal = %v", m.Matrix.At(0, 0))
	}
}

func TestStopWordOnlyMovieHasUnitDiagonal(t *testing.T) {
	t.Parallel()

	m := mustBuild(t, genreCorpus())
	row, ok := m.Index.Row(107)
	if !ok {
		t.Fatal("107 missing from index")
	}
	if m.Matrix.At(row, row) != 1 {
		t.Errorf("diagonal = %v, want 1", m.Matrix.At(row, row))
	}
	for j := 0; j < m.Size(); j++ {
		if j != row && m.Matrix.At(row, j) != 0 {
			t.Errorf("off-diagonal (%d,%d) = %v, want 0", row, j, m.Matrix.At(row, j))
		}
	}
}

func TestNewIDIndex(t *testing.T) {
	t.Parallel()

	if _, err := NewIDIndex([]int64{1, 2, 1}); err == nil {
		t.Error("expected duplicate error")
	}

	idx, err := NewIDIndex([]int64{30, 10, 20})
	if err != nil {
		t.Fatalf("NewIDIndex() error = %v", err)
	}
	if row, ok := idx.Row(10); !ok || row != 1 {
		t.Errorf("Row(10) = %d, %v", row, ok)
	}
	if idx.ID(2) != 20 {
		t.Errorf("ID(2) = %d", idx.ID(2))
	}
	ids := idx.IDs()
	ids[0] = 99
	if idx.ID(0) != 30 {
		t.Error("IDs() must return a copy")
	}
}

func TestConfigValidateCount(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, n := range []int{0, -1, cfg.MaxCount + 1} {
		if err := cfg.ValidateCount(n); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("ValidateCount(%d) = %v, want ErrInvalidCount", n, err)
		}
	}
	for _, n := range []int{1, cfg.MaxCount} {
		if err := cfg.ValidateCount(n); err != nil {
			t.Errorf("ValidateCount(%d) = %v", n, err)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"max features", func(c *Config) { c.MaxFeatures = 0 }},
		{"ngram range", func(c *Config) { c.NGramMin = 3 }},
		{"max count", func(c *Config) { c.MaxCount = 0 }},
		{"default above max", func(c *Config) { c.DefaultCount = c.MaxCount + 1 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"timeout", func(c *Config) { c.BuildTimeout = 0 }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
