// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package session

import (
	"github.com/scoutdeck/scoutdeck/internal/catalog"
)

// NextView is the read model for "what is on screen now".
type NextView struct {
	State     string             `json:"state"`
	Phase     string             `json:"phase"`
	Candidate *catalog.Candidate `json:"candidate,omitempty"`
	PoolSize  int                `json:"pool_size"`
	VoteCount int                `json:"vote_count"`
	Completed bool               `json:"completed"`

	// LastFailure is the retryable failure signal from the most recent
	// rolled-back commit, if any.
	LastFailure *CommitFailure `json:"last_failure,omitempty"`
}

// PoolView is the read model for the full ordered pool.
type PoolView struct {
	Phase           string              `json:"phase"`
	Candidates      []catalog.Candidate `json:"candidates"`
	PreferenceCount int                 `json:"preference_count"`
	Scores          map[string]int      `json:"scores,omitempty"`
}

// Next returns the current presentation state.
func (s *Session) Next() NextView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := NextView{
		State:     s.state.String(),
		Phase:     s.pool.Phase.String(),
		PoolSize:  s.pool.Len(),
		VoteCount: s.ledger.CastCount(s.userID),
		Completed: s.state == StateCompleted,
	}
	if s.presented != nil {
		c := *s.presented
		view.Candidate = &c
	}
	if s.lastFailure != nil {
		f := *s.lastFailure
		view.LastFailure = &f
	}
	return view
}

// Pool returns the current ordered pool.
func (s *Session) Pool() PoolView {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]catalog.Candidate, len(s.pool.Candidates))
	copy(candidates, s.pool.Candidates)

	var scores map[string]int
	if len(s.pool.Scores) > 0 {
		scores = make(map[string]int, len(s.pool.Scores))
		for id, score := range s.pool.Scores {
			scores[id] = score
		}
	}

	return PoolView{
		Phase:           s.pool.Phase.String(),
		Candidates:      candidates,
		PreferenceCount: s.pool.PreferenceCount,
		Scores:          scores,
	}
}

// Completed reports whether the session has exhausted its pool.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateCompleted
}

// CurrentState returns the session state, for tests and diagnostics.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
