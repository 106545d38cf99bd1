// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const testSecret = "api_test_secret_with_more_than_32_characters"

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// testDBSemaphore serializes DuckDB-backed tests.
var testDBSemaphore = make(chan struct{}, 1)

type testEnv struct {
	db      *database.DB
	engine  *recommend.Engine
	handler *Handler
	jwt     *auth.JWTManager
	server  http.Handler
}

type envOptions struct {
	noEngine  bool
	noModel   bool
	authMode  string
	cooldown  time.Duration
	noCatalog bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if !opts.noCatalog {
		seedCatalog(t, db)
	}

	cfg := &config.Config{}
	cfg.Recommend.CacheSize = 100
	cfg.Recommend.CacheTTL = time.Minute
	cfg.Recommend.RebuildCooldown = opts.cooldown
	if cfg.Recommend.RebuildCooldown == 0 {
		cfg.Recommend.RebuildCooldown = time.Hour
	}
	cfg.Security.AuthMode = auth.ModeJWT
	if opts.authMode != "" {
		cfg.Security.AuthMode = opts.authMode
	}
	cfg.Security.JWTSecret = testSecret
	cfg.Security.SessionTimeout = time.Hour
	cfg.Security.RateLimitDisabled = true

	logger := logging.NewTestLogger(io.Discard)

	var engine *recommend.Engine
	if !opts.noEngine {
		engine, err = recommend.NewEngine(recommend.DefaultConfig(), db, nil, logger)
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
	}

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode == auth.ModeJWT {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			t.Fatal(err)
		}
	}
	authMW, err := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, logging.NewAuthLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	handler := NewHandler(db, engine, cfg, jwtManager, logging.NewAuthLogger(logger))
	handler.SetVersion("test")

	if engine != nil && !opts.noModel {
		if outcome := engine.LoadOrBuild(ctx); outcome.Err != nil {
			t.Fatalf("LoadOrBuild() error = %v", outcome.Err)
		}
	}

	router := NewRouter(handler, authMW, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	return &testEnv{db: db, engine: engine, handler: handler, jwt: jwtManager, server: router.SetupChi()}
}

func movie(id int64, title string, popularity float64, genre, overview string) *models.Movie {
	m := &models.Movie{
		ID:          id,
		Title:       title,
		Overview:    overview,
		VoteAverage: 5 + float64(id%5),
		VoteCount:   int(id) * 60,
		Popularity:  popularity,
		Genres:      []models.NamedEntity{{ID: id, Name: genre}},
		Keywords:    []models.NamedEntity{},
		Cast:        []models.CastMember{},
		Crew:        []models.CrewMember{{ID: 100 + id, Name: "Director " + title, Job: "Director"}},
	}
	released := time.Date(1990+int(id), time.March, 1, 0, 0, 0, 0, time.UTC)
	m.ReleaseDate = &released
	m.Denormalize()
	return m
}

// seedCatalog writes two space films and two harbor dramas.
func seedCatalog(t *testing.T, db *database.DB) {
	t.Helper()
	movies := []*models.Movie{
		movie(1, "Star Voyage", 50, "Science Fiction", "astronauts explore a distant galaxy aboard a starship"),
		movie(2, "Galaxy Quest", 40, "Science Fiction", "astronauts defend a distant galaxy from invaders"),
		movie(3, "Harbor Nights", 30, "Drama", "a fisherman falls in love in a quiet harbor town"),
		movie(4, "Harbor Days", 20, "Drama", "a widow finds love again in a quiet harbor town"),
	}
	for _, res := range db.UpsertMovies(context.Background(), movies) {
		if res.Err != nil {
			t.Fatalf("seed movie %d: %v", res.ID, res.Err)
		}
	}
}

// do sends a request through the full router.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T, username string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateToken(1, username)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// envelope decodes a response, with Data left raw for a typed second decode.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decode(t, rec, nil)
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Errorf("error envelope = %+v, want code %s", env, code)
	}
}
