// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains the recommendation engine parameters.
type Config struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int `json:"max_features"`

	// NGramMin and NGramMax bound the n-gram lengths counted as terms.
	NGramMin int `json:"ngram_min"`
	NGramMax int `json:"ngram_max"`

	// DefaultCount is used by callers that do not specify a result count.
	DefaultCount int `json:"default_count"`

	// MaxCount is the largest accepted result count.
	MaxCount int `json:"max_count"`

	// Workers is the number of goroutines computing similarity rows.
	Workers int `json:"workers"`

	// BuildTimeout bounds a full model build.
	BuildTimeout time.Duration `json:"build_timeout"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFeatures:  3000,
		NGramMin:     1,
		NGramMax:     2,
		DefaultCount: 10,
		MaxCount:     100,
		Workers:      runtime.NumCPU(),
		BuildTimeout: 10 * time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxFeatures < 1 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.NGramMin < 1 || c.NGramMax < c.NGramMin {
		return fmt.Errorf("ngram range must satisfy 1 <= min <= max, got [%d, %d]", c.NGramMin, c.NGramMax)
	}
	if c.MaxCount < 1 {
		return fmt.Errorf("max_count must be positive, got %d", c.MaxCount)
	}
	if c.DefaultCount < 1 || c.DefaultCount > c.MaxCount {
		return fmt.Errorf("default_count must be in [1, %d], got %d", c.MaxCount, c.DefaultCount)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.BuildTimeout <= 0 {
		return fmt.Errorf("build_timeout must be positive, got %v", c.BuildTimeout)
	}
	return nil
}

// ValidateCount rejects result counts outside [1, MaxCount].
func (c *Config) ValidateCount(n int) error {
	if n < 1 || n > c.MaxCount {
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidCount, n, c.MaxCount)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
