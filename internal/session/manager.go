// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scoutdeck/scoutdeck/internal/catalog"
	"github.com/scoutdeck/scoutdeck/internal/engine"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
	"github.com/scoutdeck/scoutdeck/internal/metrics"
	"github.com/scoutdeck/scoutdeck/internal/progress"
	"github.com/scoutdeck/scoutdeck/internal/voteapi"
)

// Manager creates sessions on demand and fans catalog replacements out to
// every live session. Sessions share one ledger, so a vote arriving from a
// user's other device is visible to this one on its next recomputation.
type Manager struct {
	ledger      *ledger.Ledger
	persister   voteapi.Persister
	progress    progress.Store
	notifier    Notifier
	cfg         engine.Config
	settleDelay time.Duration
	logger      zerolog.Logger

	mu       sync.RWMutex
	catalog  []catalog.Candidate
	sessions map[string]*Session
}

// NewManager creates a session manager. Attach it to a catalog store with
// catalogStore.Subscribe(manager.OnCatalog).
func NewManager(
	lg *ledger.Ledger,
	persister voteapi.Persister,
	prog progress.Store,
	notifier Notifier,
	cfg engine.Config,
	settleDelay time.Duration,
	logger zerolog.Logger,
) *Manager {
	return &Manager{
		ledger:      lg,
		persister:   persister,
		progress:    prog,
		notifier:    notifier,
		cfg:         cfg,
		settleDelay: settleDelay,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// Session returns the live session for a user, creating one over the current
// catalog if needed.
func (m *Manager) Session(userID string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[userID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}

	opts := []Option{}
	if m.notifier != nil {
		opts = append(opts, WithNotifier(m.notifier))
	}
	s = New(userID, m.catalog, m.ledger, m.persister, m.progress, m.cfg, m.settleDelay, m.logger, opts...)
	m.sessions[userID] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return s
}

// OnCatalog installs a new catalog snapshot for future sessions and replaces
// it in every live one.
func (m *Manager) OnCatalog(snap catalog.Snapshot) {
	m.mu.Lock()
	m.catalog = snap.Candidates
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.Unlock()

	for _, s := range live {
		s.ReplaceCatalog(snap.Candidates)
	}
	m.logger.Info().
		Int("candidates", len(snap.Candidates)).
		Uint64("version", snap.Version).
		Int("sessions", len(live)).
		Msg("catalog replaced across sessions")
}

// Ledger exposes the shared vote ledger, for bootstrap loading.
func (m *Manager) Ledger() *ledger.Ledger { return m.ledger }
