// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package voteapi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
)

// stubPersister fails or succeeds on demand and counts calls.
type stubPersister struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubPersister) CreateVote(ctx context.Context, vote ledger.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubPersister) DeleteVote(ctx context.Context, candidateID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubPersister) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func breakerConfig() config.VoteAPIConfig {
	return config.VoteAPIConfig{
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.6,
		BreakerTimeout:      time.Minute,
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	inner := &stubPersister{}
	client := NewBreakerClient(inner, breakerConfig())

	if err := client.CreateVote(context.Background(), ledger.Vote{ID: "v1"}); err != nil {
		t.Fatalf("CreateVote: %v", err)
	}
	if err := client.DeleteVote(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("DeleteVote: %v", err)
	}
	if inner.callCount() != 2 {
		t.Errorf("inner calls = %d, want 2", inner.callCount())
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &stubPersister{err: ErrRemoteFailure}
	client := NewBreakerClient(inner, breakerConfig())

	for i := 0; i < 3; i++ {
		if err := client.CreateVote(context.Background(), ledger.Vote{}); err == nil {
			t.Fatalf("call %d should fail", i)
		}
	}

	// The circuit is open now: calls are rejected without reaching the inner
	// client.
	before := inner.callCount()
	err := client.CreateVote(context.Background(), ledger.Vote{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if inner.callCount() != before {
		t.Error("open circuit must not call the inner persister")
	}
}

func TestBreakerStaysClosedUnderMinRequests(t *testing.T) {
	inner := &stubPersister{err: ErrRemoteFailure}
	client := NewBreakerClient(inner, breakerConfig())

	// Two failures are under the three-request minimum.
	_ = client.CreateVote(context.Background(), ledger.Vote{})
	_ = client.CreateVote(context.Background(), ledger.Vote{})

	inner.mu.Lock()
	inner.err = nil
	inner.mu.Unlock()

	if err := client.CreateVote(context.Background(), ledger.Vote{}); err != nil {
		t.Errorf("circuit should still be closed: %v", err)
	}
}
