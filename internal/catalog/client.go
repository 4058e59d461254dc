// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/metrics"
)

// maxCatalogBytes bounds a catalog response body read.
const maxCatalogBytes = 32 << 20

// Client fetches and normalizes the candidate catalog from the source.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a catalog client from configuration. Fetches are
// rate-limited so a supervisor restart loop cannot hammer the source.
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// Fetch retrieves the full candidate set from the catalog source and
// normalizes it into canonical candidates, preserving catalog order.
func (c *Client) Fetch(ctx context.Context) ([]Candidate, error) {
	if c.url == "" {
		return nil, fmt.Errorf("catalog source URL not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read catalog body: %w", err)
	}

	candidates, err := Normalize(payload)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.CatalogLoads.WithLabelValues("success").Inc()
	metrics.CatalogCandidates.Set(float64(len(candidates)))
	return candidates, nil
}

// Snapshot is an immutable view of a loaded catalog.
type Snapshot struct {
	Candidates []Candidate
	Version    uint64
	LoadedAt   time.Time
}
