// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package engine implements the deterministic candidate selection engine:
// the affinity scorer and the phase-aware pool builder.
//
// # Phases
//
// A session is in Discovery until the user's lifetime vote count reaches the
// threshold (default 20), then Personalized. Discovery orders undecided
// candidates by the catalog-supplied quality score; Personalized orders by
// affinity against the user's accumulated preference profile and splits the
// result into a preference bucket (top 70%) followed by a diversity bucket
// (the next slice of the same ordering, deliberately deterministic).
//
// # Determinism
//
// Same inputs produce bit-for-bit identical output: all sorts are stable with
// ties keeping catalog order, scoring is pure integer arithmetic, and no
// randomness is involved anywhere. This is the property the test suite leans
// on hardest.
//
// The package has no dependencies on other internal packages beyond the
// candidate shape; decisions arrive as a plain map so the ledger and session
// layers stay decoupled from scoring.
package engine
