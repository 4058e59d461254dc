// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package catalog owns the candidate shape and the adapter that produces it.
//
// The upstream catalog source is duck-typed: the same field arrives under
// several names depending on which backend exported the record ("topics" vs
// "tags", "quality_score" vs "score"). Normalization runs once per catalog
// load and resolves every field through a fixed, data-driven alias precedence
// table rather than scattered conditionals. Missing optional fields fall back
// to safe defaults; tag collections that fail to parse degrade to empty and
// are counted, never raised as errors.
//
// Candidates are immutable per load. The rest of the engine treats the
// normalized slice (and its order, which ties stable sorts) as read-only.
package catalog
