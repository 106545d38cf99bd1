// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"sync"
	"time"
)

// LockoutConfig holds configuration for the account lockout system.
type LockoutConfig struct {
	// MaxAttempts is the number of failed attempts before lockout.
	MaxAttempts int

	// LockoutDuration is the base lockout period.
	LockoutDuration time.Duration

	// MaxLockoutDuration caps the doubling applied to repeat lockouts.
	MaxLockoutDuration time.Duration
}

// DefaultLockoutConfig returns the login lockout defaults.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:        5,
		LockoutDuration:    15 * time.Minute,
		MaxLockoutDuration: 24 * time.Hour,
	}
}

type lockoutEntry struct {
	failedAttempts int
	lockoutCount   int
	lockedUntil    time.Time
	lastAttempt    time.Time
}

// LockoutManager locks a username out after repeated failed logins.
// State is in memory and resets on restart.
type LockoutManager struct {
	cfg     LockoutConfig
	mu      sync.Mutex
	entries map[string]*lockoutEntry
	now     func() time.Time
}

// NewLockoutManager creates a lockout manager. Zero fields take defaults.
func NewLockoutManager(cfg LockoutConfig) *LockoutManager {
	def := DefaultLockoutConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.MaxLockoutDuration < cfg.LockoutDuration {
		cfg.MaxLockoutDuration = def.MaxLockoutDuration
	}
	return &LockoutManager{
		cfg:     cfg,
		entries: make(map[string]*lockoutEntry),
		now:     time.Now,
	}
}

// CheckLocked reports whether subject is locked and for how much longer.
func (m *LockoutManager) CheckLocked(subject string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[subject]
	if !ok {
		return false, 0
	}
	if remaining := entry.lockedUntil.Sub(m.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (m *LockoutManager) RecordFailure(subject string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[subject]
	if !ok {
		entry = &lockoutEntry{}
		m.entries[subject] = entry
	}
	entry.failedAttempts++
	entry.lastAttempt = now

	if entry.failedAttempts < m.cfg.MaxAttempts {
		return false, 0
	}

	duration := m.cfg.LockoutDuration << entry.lockoutCount
	if duration <= 0 || duration > m.cfg.MaxLockoutDuration {
		duration = m.cfg.MaxLockoutDuration
	}
	entry.lockoutCount++
	entry.failedAttempts = 0
	entry.lockedUntil = now.Add(duration)
	return true, duration
}

// RecordSuccess clears the failure history for subject.
func (m *LockoutManager) RecordSuccess(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, subject)
}

// CleanupExpired drops unlocked entries idle for longer than MaxLockoutDuration.
func (m *LockoutManager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for subject, entry := range m.entries {
		if now.After(entry.lockedUntil) && now.Sub(entry.lastAttempt) > m.cfg.MaxLockoutDuration {
			delete(m.entries, subject)
			removed++
		}
	}
	return removed
}
