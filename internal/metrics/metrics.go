// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package metrics exposes Prometheus instrumentation for Scoutdeck.
//
// Covered surfaces:
//   - Vote commit protocol (optimistic writes, rollbacks, supersedes)
//   - Candidate pool rebuilds by phase
//   - Catalog normalization data quality
//   - Session lifecycle and completions
//   - HTTP API latency and throughput
//   - Vote persistence circuit breaker state
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Vote commit protocol metrics
	VotesCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_votes_committed_total",
			Help: "Total number of optimistic vote commits by decision",
		},
		[]string{"decision"}, // "interested", "passed", "retracted"
	)

	VotesConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutdeck_votes_confirmed_total",
			Help: "Total number of votes confirmed by the persistence API",
		},
	)

	VotesRolledBack = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_votes_rolled_back_total",
			Help: "Total number of optimistic votes reversed after remote failure",
		},
		[]string{"outcome"}, // "reverted", "stale_noop"
	)

	VotesSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutdeck_votes_superseded_total",
			Help: "Total number of optimistic votes replaced by a newer commit for the same pair",
		},
	)

	// Candidate pool metrics
	PoolRebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_pool_rebuilds_total",
			Help: "Total number of candidate pool recomputations by session phase",
		},
		[]string{"phase"}, // "discovery", "personalized"
	)

	PoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoutdeck_pool_size",
			Help: "Size of the most recently built candidate pool",
		},
	)

	// Catalog data quality metrics
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_catalog_loads_total",
			Help: "Total number of catalog source fetches by result",
		},
		[]string{"result"}, // "success", "error"
	)

	CatalogCandidates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoutdeck_catalog_candidates",
			Help: "Number of candidates in the most recently loaded catalog",
		},
	)

	// MalformedTagFields counts tag collections that failed to parse and
	// degraded to empty. Silent data-quality problems stay observable here.
	MalformedTagFields = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_malformed_tag_fields_total",
			Help: "Total number of candidate tag collections that failed to parse",
		},
		[]string{"field"}, // "topics", "use_cases"
	)

	// Session metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoutdeck_sessions_active",
			Help: "Current number of live swipe sessions",
		},
	)

	SessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutdeck_sessions_completed_total",
			Help: "Total number of sessions that exhausted their candidate pool",
		},
	)

	DecisionsIgnored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutdeck_decisions_ignored_total",
			Help: "Total number of decisions dropped by the re-entrancy guard while locked",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoutdeck_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	// Vote persistence circuit breaker metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scoutdeck_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutdeck_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker by outcome",
		},
		[]string{"name", "outcome"}, // "success", "failure", "rejected"
	)

	// Progress store metrics
	CompletedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoutdeck_completed_users",
			Help: "Number of distinct users who have exhausted the pool at least once",
		},
	)

	// WebSocket metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoutdeck_websocket_clients",
			Help: "Current number of connected websocket clients",
		},
	)
)
