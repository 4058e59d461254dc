// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package services

import (
	"context"
	"time"

	"github.com/scoutdeck/scoutdeck/internal/catalog"
	"github.com/scoutdeck/scoutdeck/internal/logging"
)

// CatalogFetcher matches catalog.Client's fetch method.
type CatalogFetcher interface {
	Fetch(ctx context.Context) ([]catalog.Candidate, error)
}

// CatalogService loads the candidate catalog on startup and refreshes it
// periodically. A failed fetch keeps the previous snapshot; subscribers
// only ever see complete catalogs.
type CatalogService struct {
	fetcher  CatalogFetcher
	store    *catalog.Store
	interval time.Duration
}

// NewCatalogService creates a supervised catalog refresher. A zero
// interval disables periodic refresh after the initial load.
func NewCatalogService(fetcher CatalogFetcher, store *catalog.Store, interval time.Duration) *CatalogService {
	return &CatalogService{fetcher: fetcher, store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *CatalogService) Serve(ctx context.Context) error {
	s.refresh(ctx)

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *CatalogService) refresh(ctx context.Context) {
	candidates, err := s.fetcher.Fetch(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("catalog refresh failed, keeping previous snapshot")
		return
	}
	snap := s.store.Replace(candidates)
	logging.Info().
		Int("candidates", len(snap.Candidates)).
		Uint64("version", snap.Version).
		Msg("catalog refreshed")
}

// String implements fmt.Stringer for supervision logs.
func (s *CatalogService) String() string { return "catalog-refresher" }
