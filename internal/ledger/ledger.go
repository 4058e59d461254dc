// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package ledger is the authoritative record of (candidate, user, decision)
// triples: remote-confirmed votes merged with a pending optimistic overlay.
//
// Every Record/Unrecord is visible to readers immediately, before any network
// confirmation; this is the basis of the optimistic commit protocol. Each
// mutation returns a Handle capturing the exact prior state, so a rollback is
// structurally the inverse of the write it reverses rather than hand-written
// per call site. Handles are sequence-checked: a stale rollback (the ledger
// has since moved on for that pair) is a no-op.
//
// The ledger raises no errors; all failure handling lives one layer up in the
// commit protocol. Writes are keyed by (candidateID, userID) and commutative
// at that granularity, so a single mutex suffices without contention concerns.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Vote is a user's accept/reject decision on a candidate. At most one active
// vote exists per (candidateID, userID); re-recording replaces, never
// duplicates.
type Vote struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	UserID      string    `json:"user_id"`
	Interested  bool      `json:"interested"`
	CastAt      time.Time `json:"cast_at"`
}

// pairKey identifies the single active-vote cell for a (candidate, user) pair.
type pairKey struct {
	candidateID string
	userID      string
}

// overlayEntry is a pending optimistic state for one pair. A nil vote is a
// tombstone: the confirmed vote is treated as retracted.
type overlayEntry struct {
	vote *Vote
}

// Ledger merges remote-confirmed votes with the optimistic overlay.
type Ledger struct {
	mu        sync.RWMutex
	confirmed map[pairKey]*Vote
	overlay   map[pairKey]*overlayEntry
	seq       map[pairKey]uint64

	// castCounts is the raw historical count of votes cast per user. It only
	// grows with Record calls (a rolled-back Record reverses its increment);
	// Unrecord never decrements it. Session phase derives from this count.
	castCounts map[string]int

	now func() time.Time
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		confirmed:  make(map[pairKey]*Vote),
		overlay:    make(map[pairKey]*overlayEntry),
		seq:        make(map[pairKey]uint64),
		castCounts: make(map[string]int),
		now:        time.Now,
	}
}

// Kind distinguishes the two ledger mutations.
type Kind int

const (
	// KindRecord is an optimistic vote write.
	KindRecord Kind = iota
	// KindUnrecord is an optimistic vote retraction.
	KindUnrecord
)

// Handle captures one applied mutation together with the exact state it
// replaced. Rollback restores that state; Confirm promotes the optimistic
// state to confirmed. Both are no-ops if the pair has since moved on.
type Handle struct {
	ledger     *Ledger
	key        pairKey
	kind       Kind
	seq        uint64
	vote       *Vote         // the vote this mutation applied (nil for unrecord)
	prior      *overlayEntry // overlay state before this mutation (nil = none)
	superseded bool          // an older overlay entry existed when this applied
}

// Vote returns a copy of the vote applied by a Record mutation, or the
// retracted prior vote for an Unrecord mutation.
func (h *Handle) Vote() Vote {
	if h.vote != nil {
		return *h.vote
	}
	if h.prior != nil && h.prior.vote != nil {
		return *h.prior.vote
	}
	return Vote{}
}

// Kind returns the mutation kind.
func (h *Handle) Kind() Kind { return h.kind }

// Superseded reports whether this mutation replaced an earlier, still
// unconfirmed optimistic state for the same pair.
func (h *Handle) Superseded() bool { return h.superseded }

// Record applies an optimistic vote for (candidateID, userID). The write is
// visible to readers immediately; the returned handle reverses it exactly.
func (l *Ledger) Record(candidateID, userID string, interested bool) *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := pairKey{candidateID: candidateID, userID: userID}
	vote := &Vote{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		UserID:      userID,
		Interested:  interested,
		CastAt:      l.now(),
	}

	prior, hadOverlay := l.overlay[key]

	l.overlay[key] = &overlayEntry{vote: vote}
	l.seq[key]++
	l.castCounts[userID]++

	return &Handle{
		ledger:     l,
		key:        key,
		kind:       KindRecord,
		seq:        l.seq[key],
		vote:       vote,
		prior:      prior,
		superseded: hadOverlay,
	}
}

// Unrecord retracts the active vote for (candidateID, userID). The retraction
// is visible immediately; the returned handle restores the original vote
// record on rollback. Returns nil if the pair has no active vote.
func (l *Ledger) Unrecord(candidateID, userID string) *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := pairKey{candidateID: candidateID, userID: userID}
	if l.activeLocked(key) == nil {
		return nil
	}

	prior, hadOverlay := l.overlay[key]
	l.overlay[key] = &overlayEntry{vote: nil}
	l.seq[key]++

	return &Handle{
		ledger:     l,
		key:        key,
		kind:       KindUnrecord,
		seq:        l.seq[key],
		prior:      prior,
		superseded: hadOverlay,
	}
}

// Rollback restores the exact state the handle's mutation replaced. It
// returns false without touching the ledger if the pair has since moved on
// (a newer commit superseded this one), so a stale rollback can never
// clobber newer state.
func (h *Handle) Rollback() bool {
	l := h.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq[h.key] != h.seq {
		return false
	}

	if h.prior != nil {
		l.overlay[h.key] = h.prior
	} else {
		delete(l.overlay, h.key)
	}
	l.seq[h.key]++

	// The counter increment of a Record is reversed with a decrement, never a
	// snapshot restore: commits for the user's other candidates may have
	// landed since this handle was taken, and their increments must survive.
	if h.kind == KindRecord {
		l.castCounts[h.key.userID]--
	}
	return true
}

// Confirm promotes the handle's optimistic state into the confirmed set once
// the remote call succeeded. A no-op (returning false) if the pair has since
// moved on; the newer in-flight commit owns the cell now.
func (l *Ledger) Confirm(h *Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq[h.key] != h.seq {
		return false
	}

	switch h.kind {
	case KindRecord:
		l.confirmed[h.key] = h.vote
	case KindUnrecord:
		delete(l.confirmed, h.key)
	}
	delete(l.overlay, h.key)
	return true
}

// Active returns the merged active vote for a pair, if any.
func (l *Ledger) Active(candidateID, userID string) (Vote, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v := l.activeLocked(pairKey{candidateID: candidateID, userID: userID})
	if v == nil {
		return Vote{}, false
	}
	return *v, true
}

// activeLocked resolves the merged view for one pair: overlay shadows
// confirmed, a tombstone hides it entirely.
func (l *Ledger) activeLocked(key pairKey) *Vote {
	if entry, ok := l.overlay[key]; ok {
		return entry.vote
	}
	return l.confirmed[key]
}

// UserVotes returns the merged active votes of one user, keyed by candidate.
func (l *Ledger) UserVotes(userID string) map[string]Vote {
	l.mu.RLock()
	defer l.mu.RUnlock()

	votes := make(map[string]Vote)
	for key, v := range l.confirmed {
		if key.userID != userID {
			continue
		}
		votes[key.candidateID] = *v
	}
	for key, entry := range l.overlay {
		if key.userID != userID {
			continue
		}
		if entry.vote == nil {
			delete(votes, key.candidateID)
		} else {
			votes[key.candidateID] = *entry.vote
		}
	}
	return votes
}

// CastCount returns the raw historical number of votes a user has cast.
func (l *Ledger) CastCount(userID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.castCounts[userID]
}

// LoadConfirmed seeds the confirmed set from remote state, replacing any
// previous confirmed votes. Used at session bootstrap; the overlay is
// untouched. Cast counts grow to at least each user's confirmed vote count.
func (l *Ledger) LoadConfirmed(votes []Vote) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.confirmed = make(map[pairKey]*Vote, len(votes))
	counts := make(map[string]int)
	for i := range votes {
		v := votes[i]
		l.confirmed[pairKey{candidateID: v.CandidateID, userID: v.UserID}] = &v
		counts[v.UserID]++
	}
	for userID, n := range counts {
		if l.castCounts[userID] < n {
			l.castCounts[userID] = n
		}
	}
}
