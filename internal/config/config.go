// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package config loads Cinematch configuration.
//
// Values are layered, lowest priority first:
//
//  1. built-in defaults
//  2. a YAML file (CONFIG_PATH, or config.yaml / /etc/cinematch/config.yaml)
//  3. environment variables from the mapping table in koanf.go
//
// Binaries call LoadDotEnv before Load so a local .env file can supply
// environment variables during development.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	Import    ImportConfig    `koanf:"import"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds authentication and request-limiting settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"` // jwt or none
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	Enabled bool `koanf:"enabled"`

	// ModelStore selects where the fitted model is persisted: file or badger.
	ModelStore string `koanf:"model_store"`

	// ModelPath is the model file for the file store.
	ModelPath string `koanf:"model_path"`

	// BadgerPath is the directory for the badger store.
	BadgerPath string `koanf:"badger_path"`

	MaxFeatures int `koanf:"max_features"`
	Workers     int `koanf:"workers"` // 0 = runtime.NumCPU()

	// DetailCount is the number of recommendations on a movie detail response.
	DetailCount int `koanf:"detail_count"`

	// APICount is the default n for /recommendations/{id}.
	APICount int `koanf:"api_count"`

	MaxCount int `koanf:"max_count"`

	BuildOnStartup bool          `koanf:"build_on_startup"`
	BuildTimeout   time.Duration `koanf:"build_timeout"`

	// RebuildInterval triggers periodic rebuilds; 0 disables them.
	RebuildInterval time.Duration `koanf:"rebuild_interval"`

	// RebuildCooldown is the minimum spacing of admin-triggered rebuilds.
	RebuildCooldown time.Duration `koanf:"rebuild_cooldown"`

	// WatchModel reloads the model when another process rewrites the file.
	WatchModel bool `koanf:"watch_model"`

	CacheTTL  time.Duration `koanf:"cache_ttl"`
	CacheSize int           `koanf:"cache_size"`
}

// ImportConfig holds TMDB CSV import settings.
type ImportConfig struct {
	MoviesCSV  string `koanf:"movies_csv"`
	CreditsCSV string `koanf:"credits_csv"`
	BatchSize  int    `koanf:"batch_size"`
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
