// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package ledger

import (
	"testing"
	"time"
)

func TestRecordVisibleImmediately(t *testing.T) {
	l := New()

	h := l.Record("c1", "u1", true)
	if h == nil {
		t.Fatal("Record returned nil handle")
	}

	v, ok := l.Active("c1", "u1")
	if !ok {
		t.Fatal("vote not visible after Record")
	}
	if !v.Interested {
		t.Error("expected interested=true")
	}
	if v.ID == "" {
		t.Error("vote should carry a generated ID")
	}
	if l.CastCount("u1") != 1 {
		t.Errorf("CastCount = %d, want 1", l.CastCount("u1"))
	}
}

func TestRecordReplacesNotDuplicates(t *testing.T) {
	l := New()

	l.Record("c1", "u1", true)
	h2 := l.Record("c1", "u1", false)

	if !h2.Superseded() {
		t.Error("second Record on same pair should report superseded")
	}

	v, ok := l.Active("c1", "u1")
	if !ok {
		t.Fatal("expected an active vote")
	}
	if v.Interested {
		t.Error("replacement vote should win")
	}

	votes := l.UserVotes("u1")
	if len(votes) != 1 {
		t.Errorf("UserVotes returned %d entries, want 1", len(votes))
	}
}

func TestUnrecordTombstoneHidesConfirmed(t *testing.T) {
	l := New()
	l.LoadConfirmed([]Vote{{
		ID: "v1", CandidateID: "c1", UserID: "u1", Interested: true, CastAt: time.Now(),
	}})

	h := l.Unrecord("c1", "u1")
	if h == nil {
		t.Fatal("Unrecord returned nil for an active vote")
	}

	if _, ok := l.Active("c1", "u1"); ok {
		t.Error("tombstone should hide the confirmed vote")
	}
	if len(l.UserVotes("u1")) != 0 {
		t.Error("UserVotes should not include tombstoned pairs")
	}
}

func TestUnrecordNoActiveVote(t *testing.T) {
	l := New()
	if h := l.Unrecord("c1", "u1"); h != nil {
		t.Error("Unrecord on an empty pair should return nil")
	}
}

func TestRollbackRestoresExactPriorState(t *testing.T) {
	l := New()

	// Prior state: an unconfirmed optimistic vote.
	l.Record("c1", "u1", true)
	prior, _ := l.Active("c1", "u1")

	h := l.Record("c1", "u1", false)
	if v, _ := l.Active("c1", "u1"); v.Interested {
		t.Fatal("replacement should be visible before rollback")
	}

	if !h.Rollback() {
		t.Fatal("Rollback should succeed when the pair has not moved on")
	}

	restored, ok := l.Active("c1", "u1")
	if !ok {
		t.Fatal("prior vote should be restored")
	}
	if restored.ID != prior.ID || restored.Interested != prior.Interested {
		t.Errorf("restored vote = %+v, want exact prior %+v", restored, prior)
	}
}

func TestRollbackRecordRestoresCastCount(t *testing.T) {
	l := New()

	l.Record("c1", "u1", true)
	h := l.Record("c2", "u1", true)
	if l.CastCount("u1") != 2 {
		t.Fatalf("CastCount = %d, want 2", l.CastCount("u1"))
	}

	if !h.Rollback() {
		t.Fatal("rollback failed")
	}
	if l.CastCount("u1") != 1 {
		t.Errorf("CastCount after rollback = %d, want 1", l.CastCount("u1"))
	}
}

func TestRollbackLeavesInterleavedCastsIntact(t *testing.T) {
	l := New()

	// Two commits for different candidates by the same user; the earlier
	// one fails remotely after the later one has already landed.
	h1 := l.Record("c1", "u1", true)
	l.Record("c2", "u1", true)

	if !h1.Rollback() {
		t.Fatal("rollback of a different pair should succeed")
	}

	if l.CastCount("u1") != 1 {
		t.Errorf("CastCount = %d, want 1 (c2's cast must survive c1's rollback)", l.CastCount("u1"))
	}
	if _, ok := l.Active("c1", "u1"); ok {
		t.Error("c1's vote should be gone after rollback")
	}
	v, ok := l.Active("c2", "u1")
	if !ok || !v.Interested {
		t.Errorf("c2's vote = %+v, %v; want intact", v, ok)
	}
}

func TestStaleRollbackIsNoOp(t *testing.T) {
	l := New()

	h1 := l.Record("c1", "u1", true)
	l.Record("c1", "u1", false) // supersedes h1

	if h1.Rollback() {
		t.Fatal("stale rollback should return false")
	}

	v, ok := l.Active("c1", "u1")
	if !ok || v.Interested {
		t.Error("newer vote must survive a stale rollback")
	}
	if l.CastCount("u1") != 2 {
		t.Errorf("CastCount = %d, want 2 (stale rollback must not touch counts)", l.CastCount("u1"))
	}
}

func TestUnrecordRollbackRestoresOriginalVote(t *testing.T) {
	l := New()
	l.LoadConfirmed([]Vote{{ID: "v1", CandidateID: "c1", UserID: "u1", Interested: true}})

	h := l.Unrecord("c1", "u1")
	if !h.Rollback() {
		t.Fatal("rollback failed")
	}

	v, ok := l.Active("c1", "u1")
	if !ok {
		t.Fatal("original vote should be active again")
	}
	if v.ID != "v1" {
		t.Errorf("restored vote ID = %q, want original record v1", v.ID)
	}
}

func TestConfirmPromotesToConfirmed(t *testing.T) {
	l := New()

	h := l.Record("c1", "u1", true)
	if !l.Confirm(h) {
		t.Fatal("Confirm should succeed")
	}

	// A later unrecord rollback exposes the confirmed set directly.
	h2 := l.Unrecord("c1", "u1")
	if !h2.Rollback() {
		t.Fatal("rollback failed")
	}
	if _, ok := l.Active("c1", "u1"); !ok {
		t.Error("confirmed vote should be visible after overlay rollback")
	}
}

func TestConfirmStaleIsNoOp(t *testing.T) {
	l := New()

	h1 := l.Record("c1", "u1", true)
	l.Record("c1", "u1", false)

	if l.Confirm(h1) {
		t.Error("stale Confirm should return false")
	}
	v, _ := l.Active("c1", "u1")
	if v.Interested {
		t.Error("newer overlay vote must survive a stale confirm")
	}
}

func TestLoadConfirmedSeedsCastCounts(t *testing.T) {
	l := New()
	l.LoadConfirmed([]Vote{
		{ID: "v1", CandidateID: "c1", UserID: "u1"},
		{ID: "v2", CandidateID: "c2", UserID: "u1"},
		{ID: "v3", CandidateID: "c1", UserID: "u2"},
	})

	if got := l.CastCount("u1"); got != 2 {
		t.Errorf("CastCount(u1) = %d, want 2", got)
	}
	if got := l.CastCount("u2"); got != 1 {
		t.Errorf("CastCount(u2) = %d, want 1", got)
	}
	if got := len(l.UserVotes("u1")); got != 2 {
		t.Errorf("UserVotes(u1) = %d entries, want 2", got)
	}
}
