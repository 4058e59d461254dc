// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package catalog

import (
	"sync"
	"time"
)

// Store holds the most recently loaded catalog snapshot and notifies
// subscribers on replacement. Readers always see a complete catalog; a load
// in progress never exposes a partial slice.
type Store struct {
	mu          sync.RWMutex
	current     Snapshot
	subscribers []func(Snapshot)
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new catalog snapshot and notifies subscribers.
func (s *Store) Replace(candidates []Candidate) Snapshot {
	s.mu.Lock()
	s.current = Snapshot{
		Candidates: candidates,
		Version:    s.current.Version + 1,
		LoadedAt:   time.Now(),
	}
	snap := s.current
	subs := make([]func(Snapshot), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// Snapshot returns the current catalog snapshot. A zero-version snapshot
// means no catalog has been loaded yet.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a callback invoked on every catalog replacement.
// Callbacks run on the replacing goroutine and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
