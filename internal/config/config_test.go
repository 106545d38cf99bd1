// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestDefaultConfigValidWithSecret(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "oidc" }, "AUTH_MODE"},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "at least 32"},
		{"placeholder secret", func(c *Config) { c.Security.JWTSecret = "CHANGEME-CHANGEME-CHANGEME-CHANGEME" }, "placeholder"},
		{"no auth in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, "AUTH_MODE=none"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit requests", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"model store", func(c *Config) { c.Recommend.ModelStore = "s3" }, "RECOMMEND_MODEL_STORE"},
		{"model path", func(c *Config) { c.Recommend.ModelPath = "" }, "RECOMMEND_MODEL_PATH"},
		{"api count above max", func(c *Config) { c.Recommend.APICount = 500 }, "RECOMMEND_API_COUNT"},
		{"detail count zero", func(c *Config) { c.Recommend.DetailCount = 0 }, "RECOMMEND_DETAIL_COUNT"},
		{"batch size", func(c *Config) { c.Import.BatchSize = 0 }, "IMPORT_BATCH_SIZE"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSkipsDisabledSections(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Recommend.Enabled = false
	cfg.Recommend.ModelStore = "bogus"
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg = validConfig()
	cfg.Security.AuthMode = "none"
	cfg.Security.JWTSecret = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with auth disabled error = %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled() = true for none")
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard with jwt should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://movies.example.org"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RECOMMEND_MODEL_STORE", "badger")
	t.Setenv("RECOMMEND_CACHE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Recommend.ModelStore != "badger" {
		t.Errorf("model store = %q", cfg.Recommend.ModelStore)
	}
	if cfg.Recommend.CacheTTL != 90*time.Second {
		t.Errorf("cache ttl = %v", cfg.Recommend.CacheTTL)
	}
	want := []string{"https://a.example.org", "https://b.example.org"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("cors = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Recommend.DetailCount != 8 || cfg.Recommend.ModelPath != "data/movie_similarity_model.gob.gz" {
		t.Errorf("defaults lost: %+v", cfg.Recommend)
	}
}

func TestLoadWithKoanfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8181
security:
  jwt_secret: ` + testSecret + `
recommend:
  api_count: 20
  max_features: 5000
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8181 || cfg.Recommend.APICount != 20 || cfg.Recommend.MaxFeatures != 5000 {
		t.Errorf("file values not applied: %+v / %+v", cfg.Server, cfg.Recommend)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env should override file, level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfInvalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_MODE", "jwt")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("expected validation error without JWT_SECRET")
	}
}

func TestLoadOffline(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("IMPORT_MOVIES_CSV", "movies.csv")

	cfg, err := LoadOffline()
	if err != nil {
		t.Fatalf("LoadOffline() error = %v", err)
	}
	if cfg.Import.MoviesCSV != "movies.csv" {
		t.Errorf("movies csv = %q", cfg.Import.MoviesCSV)
	}

	t.Setenv("IMPORT_BATCH_SIZE", "0")
	if _, err := LoadOffline(); err == nil || !strings.Contains(err.Error(), "IMPORT_BATCH_SIZE") {
		t.Errorf("LoadOffline() error = %v, want IMPORT_BATCH_SIZE", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"DUCKDB_PATH":           "database.path",
		"recommend_watch_model": "recommend.watch_model",
		"PATH":                  "",
		"HOME":                  "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CINEMATCH_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CINEMATCH_DOTENV_PROBE", "")
	os.Unsetenv("CINEMATCH_DOTENV_PROBE") //nolint:errcheck // restored by t.Setenv cleanup

	if err := LoadDotEnv(path, filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("CINEMATCH_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("probe = %q", got)
	}
}
