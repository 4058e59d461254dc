// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package voteapi

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
	"github.com/scoutdeck/scoutdeck/internal/logging"
	"github.com/scoutdeck/scoutdeck/internal/metrics"
)

// BreakerClient wraps a Persister with a circuit breaker so a flapping vote
// persistence API fails fast instead of queuing up doomed in-flight commits.
// A rejected call rolls back like any other failure, which is the intended
// recovery behavior: the candidate becomes visible again.
//
// The breaker uses real time for its interval and timeout bookkeeping; unit
// tests exercise the wrapped client directly.
type BreakerClient struct {
	inner Persister
	cb    *gobreaker.CircuitBreaker[struct{}]
	name  string
}

// NewBreakerClient wraps a persister with a circuit breaker. The breaker
// opens once the failure ratio is reached over at least BreakerMinRequests
// calls, and probes again after BreakerTimeout.
func NewBreakerClient(inner Persister, cfg config.VoteAPIConfig) *BreakerClient {
	name := "vote-persistence"
	metrics.BreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.BreakerFailureRatio
			if trip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_ratio", ratio).
					Msg("opening vote persistence circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("vote persistence circuit state transition")
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerClient{inner: inner, cb: cb, name: name}
}

// CreateVote persists a vote through the breaker.
func (b *BreakerClient) CreateVote(ctx context.Context, vote ledger.Vote) error {
	return b.execute(func() error {
		return b.inner.CreateVote(ctx, vote)
	})
}

// DeleteVote removes a vote through the breaker.
func (b *BreakerClient) DeleteVote(ctx context.Context, candidateID, userID string) error {
	return b.execute(func() error {
		return b.inner.DeleteVote(ctx, candidateID, userID)
	})
}

func (b *BreakerClient) execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.BreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.BreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return err
	}
	metrics.BreakerRequests.WithLabelValues(b.name, "success").Inc()
	return nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
