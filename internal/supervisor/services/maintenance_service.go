// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaintenanceInterval is how often expired state is swept.
const DefaultMaintenanceInterval = 5 * time.Minute

// ExpiryCleaner drops expired entries. *api.Handler satisfies it with its
// response cache and login lockouts.
type ExpiryCleaner interface {
	CleanupExpired() (cacheEntries, lockouts int)
}

// MaintenanceService sweeps expired in-memory state on a timer.
type MaintenanceService struct {
	cleaner  ExpiryCleaner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(cleaner ExpiryCleaner, interval time.Duration, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = DefaultMaintenanceInterval
	}
	return &MaintenanceService{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger.With().Str("service", "maintenance").Logger(),
		name:     "maintenance",
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cached, lockouts := s.cleaner.CleanupExpired()
			if cached+lockouts > 0 {
				s.logger.Debug().Int("cache_entries", cached).Int("lockouts", lockouts).Msg("expired entries removed")
			}
		}
	}
}

func (s *MaintenanceService) String() string {
	return s.name
}
