// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// startWatch runs a watch service on a fresh directory and waits until the
// watch is registered.
func startWatch(t *testing.T, engine *mockEngine, debounce time.Duration) (path string, stop func()) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "models", "model.gob.gz")
	svc := NewModelWatchService(path, engine, debounce, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-svc.ready:
	case err := <-errCh:
		t.Fatalf("Serve() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher not ready")
	}

	return path, func() {
		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
	}
}

func reloadsAfter(engine *mockEngine, d time.Duration) int {
	time.Sleep(d)
	_, _, reloads := engine.counts()
	return reloads
}

func TestModelWatchService_ReloadsOnReplace(t *testing.T) {
	engine := newMockEngine()
	path, stop := startWatch(t, engine, 50*time.Millisecond)
	defer stop()

	// Same write-then-rename sequence as the file store.
	tmp := path + ".tmp-1"
	if err := os.WriteFile(tmp, []byte("model"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, _, reloads := engine.counts(); reloads == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("model was not reloaded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestModelWatchService_DebouncesBursts(t *testing.T) {
	engine := newMockEngine()
	path, stop := startWatch(t, engine, 200*time.Millisecond)
	defer stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if got := reloadsAfter(engine, 700*time.Millisecond); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestModelWatchService_IgnoresOtherFiles(t *testing.T) {
	engine := newMockEngine()
	path, stop := startWatch(t, engine, 20*time.Millisecond)
	defer stop()

	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := reloadsAfter(engine, 200*time.Millisecond); got != 0 {
		t.Errorf("reloads = %d, want 0", got)
	}
}

func TestModelWatchService_ReloadFailureKeepsWatching(t *testing.T) {
	engine := newMockEngine()
	engine.reloadErr = errors.New("checksum mismatch")
	path, stop := startWatch(t, engine, 20*time.Millisecond)
	defer stop()

	if err := os.WriteFile(path, []byte("corrupt"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := reloadsAfter(engine, 300*time.Millisecond); got < 1 {
		t.Fatal("reload was not attempted")
	}

	engine.mu.Lock()
	engine.reloadErr = nil
	engine.mu.Unlock()

	before := reloadsAfter(engine, 0)
	if err := os.WriteFile(path, []byte("good"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := reloadsAfter(engine, 300*time.Millisecond); got <= before {
		t.Error("watcher stopped after a failed reload")
	}
}

func TestNewModelWatchService_Defaults(t *testing.T) {
	svc := NewModelWatchService("data/../data/model.gob.gz", newMockEngine(), 0, zerolog.Nop())
	if svc.debounce != DefaultWatchDebounce {
		t.Errorf("debounce = %v", svc.debounce)
	}
	if svc.path != filepath.Join("data", "model.gob.gz") {
		t.Errorf("path = %q", svc.path)
	}
	if svc.String() != "model-watch" {
		t.Errorf("String() = %q", svc.String())
	}
}
