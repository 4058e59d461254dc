// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package session owns the swipe session state machine and the vote commit
// protocol.
//
// A session holds which candidate is currently presented, pins that identity
// while a decision settles (the UI shell's exit-animation window), and
// advances afterward. All mutation routes through Decide/Retract and pool
// recomputation; nothing outside this package writes session state ad hoc.
//
// # Commit protocol
//
// A decision applies to the vote ledger optimistically and synchronously,
// then persists remotely in the background. Remote failure triggers the
// handle's structural rollback (exact inverse, stale-safe) and surfaces a
// retryable failure to the client. Later commits for different candidates
// are independent and may resolve out of order.
package session

import (
	"context"
	"errors"
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

// State is the swipe session state.
type State int

const (
	// StateIdle means no candidate is presented; the next one derives live
	// from the pool head.
	StateIdle State = iota
	// StatePresenting means a candidate is shown, unlocked; the pool may
	// recompute under it.
	StatePresenting
	// StateLocked means a decision is settling; the presented identity is
	// pinned against pool recomputations.
	StateLocked
	// StateCompleted means the pool is exhausted for a non-empty catalog.
	StateCompleted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresenting:
		return "presenting"
	case StateLocked:
		return "locked"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Sentinel errors returned when a request arrives in the wrong state. A
// well-behaved UI shell never triggers them; other API clients can.
var (
	// ErrDecisionInFlight rejects a decision submitted while one is settling.
	ErrDecisionInFlight = errors.New("a decision is already in flight")
	// ErrNothingPresented rejects a decision with no candidate on screen.
	ErrNothingPresented = errors.New("no candidate is presented")
	// ErrNoActiveVote rejects retracting a vote that does not exist.
	ErrNoActiveVote = errors.New("no active vote for candidate")
)

// Notifier pushes session events to connected clients. Implementations must
// not block. The websocket hub satisfies this.
type Notifier interface {
	Notify(event string, data any)
}

// Event types emitted through the Notifier.
const (
	EventVoteCommitted  = "vote.committed"
	EventVoteConfirmed  = "vote.confirmed"
	EventVoteRolledBack = "vote.rolled_back"
	EventPoolRebuilt    = "pool.rebuilt"
	EventCompleted      = "session.completed"
)

// CommitFailure is the user-facing, retryable failure signal left behind by
// a rolled-back commit. The same decision may simply be attempted again.
type CommitFailure struct {
	CandidateID string    `json:"candidate_id"`
	Interested  bool      `json:"interested"`
	Retracted   bool      `json:"retracted"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

// Session is one user's swipe session. Safe for concurrent use.
type Session struct {
	userID string
	cfg    engine.Config

	// settleDelay is how long the lock holds after a decision before the
	// next candidate is presented. 300ms by default, covering the card
	// exit animation.
	settleDelay time.Duration

	ledger    *ledger.Ledger
	persister voteapi.Persister
	progress  progress.Store
	notifier  Notifier
	logger    zerolog.Logger

	// afterFunc schedules the settle callback; injectable for tests.
	afterFunc func(time.Duration, func()) *time.Timer

	mu           sync.Mutex
	catalog      []catalog.Candidate
	pool         engine.Pool
	state        State
	presented    *catalog.Candidate
	personalized bool // phase latch: set once, never cleared
	completed    bool // completion latch: progress appends once
	lastFailure  *CommitFailure
}

// Option customizes a session at construction.
type Option func(*Session)

// WithAfterFunc replaces the settle-callback scheduler. Tests use it to
// release locks deterministically.
func WithAfterFunc(fn func(time.Duration, func()) *time.Timer) Option {
	return func(s *Session) { s.afterFunc = fn }
}

// WithNotifier attaches an event notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// New creates a session over a catalog snapshot, building the initial pool
// and presenting its head.
func New(
	userID string,
	candidates []catalog.Candidate,
	lg *ledger.Ledger,
	persister voteapi.Persister,
	prog progress.Store,
	cfg engine.Config,
	settleDelay time.Duration,
	logger zerolog.Logger,
	opts ...Option,
) *Session {
	s := &Session{
		userID:      userID,
		cfg:         cfg,
		settleDelay: settleDelay,
		ledger:      lg,
		persister:   persister,
		progress:    prog,
		logger:      logger.With().Str("component", "session").Str("user_id", userID).Logger(),
		afterFunc:   time.AfterFunc,
		catalog:     candidates,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.rebuildLocked()
	s.mu.Unlock()
	return s
}

// UserID returns the owning user.
func (s *Session) UserID() string { return s.userID }

// Decide commits the user's decision on the currently presented candidate.
// While a prior decision is settling the call is dropped by the re-entrancy
// guard: at most one in-flight decision per session.
func (s *Session) Decide(ctx context.Context, interested bool) error {
	s.mu.Lock()

	if s.state == StateLocked {
		s.mu.Unlock()
		metrics.DecisionsIgnored.Inc()
		s.logger.Debug().Msg("decision ignored, previous decision still settling")
		return ErrDecisionInFlight
	}
	if s.state != StatePresenting || s.presented == nil {
		s.mu.Unlock()
		return ErrNothingPresented
	}

	// Pin the presented identity: a concurrent pool recomputation cannot
	// change what exit-animates.
	captured := *s.presented
	s.state = StateLocked
	s.lastFailure = nil

	handle := s.ledger.Record(captured.ID, s.userID, interested)
	if handle.Superseded() {
		metrics.VotesSuperseded.Inc()
	}
	metrics.VotesCommitted.WithLabelValues(decisionLabel(interested)).Inc()
	s.mu.Unlock()

	s.notify(EventVoteCommitted, handle.Vote())
	s.logger.Debug().
		Str("candidate_id", captured.ID).
		Bool("interested", interested).
		Msg("vote committed optimistically")

	// The remote write suspends; everything else stays interactive. Further
	// swipes are gated only by the re-entrancy guard above.
	go s.persistRecord(handle)

	s.afterFunc(s.settleDelay, s.settle)
	return nil
}

// Retract removes the user's active vote on a candidate, with the same
// optimistic/rollback discipline as Decide. A failed remote delete restores
// the original vote record, not just "no vote".
func (s *Session) Retract(ctx context.Context, candidateID string) error {
	s.mu.Lock()
	handle := s.ledger.Unrecord(candidateID, s.userID)
	if handle == nil {
		s.mu.Unlock()
		return ErrNoActiveVote
	}
	if handle.Superseded() {
		metrics.VotesSuperseded.Inc()
	}
	metrics.VotesCommitted.WithLabelValues("retracted").Inc()
	s.lastFailure = nil
	s.rebuildLocked() // the candidate becomes eligible again
	s.mu.Unlock()

	s.notify(EventVoteCommitted, handle.Vote())
	go s.persistUnrecord(handle, candidateID)
	return nil
}

// persistRecord runs the asynchronous half of the commit protocol for a vote.
func (s *Session) persistRecord(handle *ledger.Handle) {
	vote := handle.Vote()
	err := s.persister.CreateVote(context.Background(), vote)
	if err == nil {
		s.ledger.Confirm(handle)
		metrics.VotesConfirmed.Inc()
		s.notify(EventVoteConfirmed, vote)
		return
	}
	s.rollback(handle, &CommitFailure{
		CandidateID: vote.CandidateID,
		Interested:  vote.Interested,
		Reason:      err.Error(),
		At:          time.Now(),
	})
}

// persistUnrecord runs the asynchronous half of the commit protocol for a
// retraction.
func (s *Session) persistUnrecord(handle *ledger.Handle, candidateID string) {
	err := s.persister.DeleteVote(context.Background(), candidateID, s.userID)
	if err == nil {
		s.ledger.Confirm(handle)
		metrics.VotesConfirmed.Inc()
		return
	}
	s.rollback(handle, &CommitFailure{
		CandidateID: candidateID,
		Retracted:   true,
		Reason:      err.Error(),
		At:          time.Now(),
	})
}

// rollback reverses a failed optimistic write and records the retryable
// failure signal. A stale handle (the pair moved on to a newer commit) is a
// counted no-op.
func (s *Session) rollback(handle *ledger.Handle, failure *CommitFailure) {
	if !handle.Rollback() {
		metrics.VotesRolledBack.WithLabelValues("stale_noop").Inc()
		s.logger.Debug().
			Str("candidate_id", failure.CandidateID).
			Msg("stale rollback skipped, ledger moved on")
		return
	}
	metrics.VotesRolledBack.WithLabelValues("reverted").Inc()

	s.mu.Lock()
	s.lastFailure = failure
	s.rebuildLocked() // worst case the candidate reappears; intended recovery
	s.mu.Unlock()

	s.notify(EventVoteRolledBack, failure)
	s.logger.Warn().
		Str("candidate_id", failure.CandidateID).
		Str("reason", failure.Reason).
		Msg("vote rolled back after remote failure")
}

// settle releases the lock after the settle delay and advances to the next
// candidate off the refreshed pool.
func (s *Session) settle() {
	s.mu.Lock()
	if s.state != StateLocked {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.presented = nil
	s.rebuildLocked()
	s.mu.Unlock()
}

// ReplaceCatalog installs a new catalog snapshot and recomputes the pool.
// A locked session keeps its pinned candidate until settle.
func (s *Session) ReplaceCatalog(candidates []catalog.Candidate) {
	s.mu.Lock()
	s.catalog = candidates
	s.rebuildLocked()
	s.mu.Unlock()
}

// Refresh recomputes the pool from current ledger state, unless a decision
// is settling. Read endpoints call this so votes arriving from a user's
// other session are reflected.
func (s *Session) Refresh() {
	s.mu.Lock()
	if s.state != StateLocked {
		s.rebuildLocked()
	}
	s.mu.Unlock()
}

// rebuildLocked fully recomputes the pool and advances the presented
// candidate. Must be called with mu held. The presented identity is pinned
// while locked.
func (s *Session) rebuildLocked() {
	votes := s.ledger.UserVotes(s.userID)
	decisions := make(map[string]bool, len(votes))
	for candidateID, v := range votes {
		decisions[candidateID] = v.Interested
	}

	castCount := s.ledger.CastCount(s.userID)
	if s.personalized && castCount < s.cfg.DiscoveryThreshold {
		// Phase is monotonic: raw historical casts crossed the threshold
		// once, so the session never drops back to Discovery.
		castCount = s.cfg.DiscoveryThreshold
	}

	s.pool = engine.Build(s.catalog, decisions, castCount, s.cfg)
	if s.pool.Phase == engine.PhasePersonalized {
		s.personalized = true
	}

	s.notify(EventPoolRebuilt, map[string]any{
		"phase": s.pool.Phase.String(),
		"size":  s.pool.Len(),
	})

	if s.state == StateLocked {
		return
	}
	s.advanceLocked()
}

// advanceLocked moves Idle -> Presenting from the pool head, or into the
// completed terminal state when the pool is exhausted. Must be called with
// mu held.
func (s *Session) advanceLocked() {
	if head, ok := s.pool.Head(); ok {
		s.presented = &head
		s.state = StatePresenting
		return
	}

	s.presented = nil
	if len(s.catalog) == 0 {
		s.state = StateIdle
		return
	}

	s.state = StateCompleted
	if s.completed {
		return
	}
	s.completed = true
	metrics.SessionsCompleted.Inc()
	s.notify(EventCompleted, map[string]any{"user_id": s.userID})

	// Append-once is enforced by the store; the latch above just avoids
	// repeat writes from the same session.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.progress.Append(ctx, s.userID); err != nil {
			s.logger.Error().Err(err).Msg("failed to record pool completion")
		}
	}()
}

func (s *Session) notify(event string, data any) {
	if s.notifier != nil {
		s.notifier.Notify(event, data)
	}
}

func decisionLabel(interested bool) string {
	if interested {
		return "interested"
	}
	return "passed"
}
