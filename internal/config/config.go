// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package config loads and validates Scoutdeck configuration using Koanf v2
// with layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Scoutdeck server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	VoteAPI  VoteAPIConfig  `koanf:"vote_api"`
	Engine   EngineConfig   `koanf:"engine"`
	Progress ProgressConfig `koanf:"progress"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	// URL is the catalog source endpoint returning the raw candidate array.
	URL string `koanf:"url"`

	// RefreshInterval is how often the supervised refresher re-fetches the
	// catalog. Zero disables periodic refresh after the initial load.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// RequestTimeout bounds a single catalog fetch.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RateLimit is the maximum catalog fetches per second. The refresher is
	// polite to the source even when supervision restarts it in a tight loop.
	RateLimit float64 `koanf:"rate_limit"`
}

// VoteAPIConfig holds vote persistence API settings.
type VoteAPIConfig struct {
	// URL is the base URL of the vote persistence API.
	URL string `koanf:"url"`

	// RequestTimeout bounds a single createVote/deleteVote call. Without a
	// bound a hung call is indistinguishable from a slow success, so this
	// must be positive.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// Breaker settings mirror the circuit breaker around the client.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
}

// EngineConfig holds the deterministic selection-engine constants. They are
// configurable so tests and staged rollouts can vary them without rebuilds.
type EngineConfig struct {
	// DiscoveryThreshold is the lifetime vote count at which a session moves
	// from Discovery to Personalized ordering.
	DiscoveryThreshold int `koanf:"discovery_threshold"`

	// TopicWeight, StageWeight and UseCaseWeight are the affinity score
	// contributions per topic match, stage presence, and use-case match.
	TopicWeight   int `koanf:"topic_weight"`
	StageWeight   int `koanf:"stage_weight"`
	UseCaseWeight int `koanf:"use_case_weight"`

	// PoolTarget is the personalized pool cap; PreferenceRatio is the share
	// of it drawn from the top of the affinity ordering.
	PoolTarget      int     `koanf:"pool_target"`
	PreferenceRatio float64 `koanf:"preference_ratio"`

	// SettleDelay is how long the presented candidate stays locked after a
	// decision before the next candidate is presented. It exists so the UI
	// shell's exit animation finishes against a stable identity.
	SettleDelay time.Duration `koanf:"settle_delay"`
}

// ProgressConfig holds the completed-session progress store settings.
type ProgressConfig struct {
	// Path is the BadgerDB directory. Empty selects an in-memory store.
	Path string `koanf:"path"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values applied. These are
// layered first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8460,
			Timeout: 30 * time.Second,
		},
		Catalog: CatalogConfig{
			URL:             "",
			RefreshInterval: 5 * time.Minute,
			RequestTimeout:  15 * time.Second,
			RateLimit:       1.0,
		},
		VoteAPI: VoteAPIConfig{
			URL:                 "",
			RequestTimeout:      10 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      2 * time.Minute,
		},
		Engine: EngineConfig{
			DiscoveryThreshold: 20,
			TopicWeight:        20,
			StageWeight:        15,
			UseCaseWeight:      10,
			PoolTarget:         100,
			PreferenceRatio:    0.7,
			SettleDelay:        300 * time.Millisecond,
		},
		Progress: ProgressConfig{
			Path: "/data/scoutdeck/progress",
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Engine.DiscoveryThreshold < 0 {
		return fmt.Errorf("engine.discovery_threshold must be non-negative, got %d", c.Engine.DiscoveryThreshold)
	}
	if c.Engine.PoolTarget <= 0 {
		return fmt.Errorf("engine.pool_target must be positive, got %d", c.Engine.PoolTarget)
	}
	if c.Engine.PreferenceRatio < 0 || c.Engine.PreferenceRatio > 1 {
		return fmt.Errorf("engine.preference_ratio must be in [0,1], got %v", c.Engine.PreferenceRatio)
	}
	if c.Engine.TopicWeight < 0 || c.Engine.StageWeight < 0 || c.Engine.UseCaseWeight < 0 {
		return fmt.Errorf("engine weights must be non-negative")
	}
	if c.Engine.SettleDelay < 0 {
		return fmt.Errorf("engine.settle_delay must be non-negative, got %v", c.Engine.SettleDelay)
	}
	if c.VoteAPI.RequestTimeout <= 0 {
		return fmt.Errorf("vote_api.request_timeout must be positive, got %v", c.VoteAPI.RequestTimeout)
	}
	if c.VoteAPI.BreakerFailureRatio <= 0 || c.VoteAPI.BreakerFailureRatio > 1 {
		return fmt.Errorf("vote_api.breaker_failure_ratio must be in (0,1], got %v", c.VoteAPI.BreakerFailureRatio)
	}
	if c.Catalog.RateLimit <= 0 {
		return fmt.Errorf("catalog.rate_limit must be positive, got %v", c.Catalog.RateLimit)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}
