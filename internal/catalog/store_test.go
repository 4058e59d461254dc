// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package catalog

import (
	"testing"
)

func TestStoreReplaceBumpsVersion(t *testing.T) {
	s := NewStore()

	if s.Snapshot().Version != 0 {
		t.Fatal("fresh store should report version 0")
	}

	snap1 := s.Replace([]Candidate{{ID: "a"}})
	snap2 := s.Replace([]Candidate{{ID: "a"}, {ID: "b"}})

	if snap1.Version != 1 || snap2.Version != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", snap1.Version, snap2.Version)
	}
	if len(s.Snapshot().Candidates) != 2 {
		t.Errorf("current snapshot has %d candidates, want 2", len(s.Snapshot().Candidates))
	}
	if s.Snapshot().LoadedAt.IsZero() {
		t.Error("LoadedAt should be set on replace")
	}
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()

	var got []Snapshot
	s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.Replace([]Candidate{{ID: "a"}})
	s.Replace(nil)

	if len(got) != 2 {
		t.Fatalf("subscriber called %d times, want 2", len(got))
	}
	if got[0].Version != 1 || len(got[0].Candidates) != 1 {
		t.Errorf("first notification = %+v, want version 1 with 1 candidate", got[0])
	}
	if got[1].Version != 2 || len(got[1].Candidates) != 0 {
		t.Errorf("second notification = %+v, want version 2 empty", got[1])
	}
}
