// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package engine

import (
	"sort"

	"github.com/scoutdeck/scoutdeck/internal/catalog"
	"github.com/scoutdeck/scoutdeck/internal/metrics"
)

// Phase gates which ordering strategy the pool builder uses.
type Phase int

const (
	// PhaseDiscovery orders by catalog quality while preference signal is thin.
	PhaseDiscovery Phase = iota
	// PhasePersonalized orders by affinity once enough votes have been cast.
	PhasePersonalized
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDiscovery:
		return "discovery"
	case PhasePersonalized:
		return "personalized"
	default:
		return "unknown"
	}
}

// Config holds the deterministic pool-builder constants.
type Config struct {
	// DiscoveryThreshold is the lifetime vote count that flips the phase.
	DiscoveryThreshold int

	// Weights are the affinity scoring weights.
	Weights Weights

	// PoolTarget caps the personalized pool; PreferenceRatio is the share of
	// it filled from the top of the affinity ordering.
	PoolTarget      int
	PreferenceRatio float64
}

// DefaultConfig returns the production pool-builder constants: threshold 20,
// pool of 100 split 70/30.
func DefaultConfig() Config {
	return Config{
		DiscoveryThreshold: 20,
		Weights:            DefaultWeights(),
		PoolTarget:         100,
		PreferenceRatio:    0.7,
	}
}

// Pool is the ephemeral ordered list of undecided candidates, fully
// recomputed on every relevant state change.
type Pool struct {
	// Phase the pool was built under.
	Phase Phase

	// Candidates is the final ordering. In the personalized phase the first
	// PreferenceCount entries are the preference bucket and the remainder is
	// the diversity bucket; in discovery the split is meaningless.
	Candidates []catalog.Candidate

	// PreferenceCount is the preference-bucket length (personalized only).
	PreferenceCount int

	// Scores holds the affinity score per pooled candidate (personalized only).
	Scores map[string]int
}

// Len returns the pool size.
func (p Pool) Len() int { return len(p.Candidates) }

// Head returns the first candidate, the one a session presents next.
func (p Pool) Head() (catalog.Candidate, bool) {
	if len(p.Candidates) == 0 {
		return catalog.Candidate{}, false
	}
	return p.Candidates[0], true
}

// PhaseFor derives the phase from a lifetime cast count.
func (cfg Config) PhaseFor(castCount int) Phase {
	if castCount < cfg.DiscoveryThreshold {
		return PhaseDiscovery
	}
	return PhasePersonalized
}

// Build recomputes the pool from the full catalog and the user's decisions.
// decisions maps candidateID to the interested flag of the active vote;
// presence alone excludes a candidate from the pool, so a decided candidate
// can never reappear.
//
// castCount is the raw historical number of votes cast, not the remaining
// pool size, so retracting votes after crossing the threshold does not
// revert the phase.
func Build(candidates []catalog.Candidate, decisions map[string]bool, castCount int, cfg Config) Pool {
	phase := cfg.PhaseFor(castCount)

	unvoted := make([]catalog.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, decided := decisions[c.ID]; !decided {
			unvoted = append(unvoted, c)
		}
	}

	var pool Pool
	switch phase {
	case PhaseDiscovery:
		pool = buildDiscovery(unvoted)
	case PhasePersonalized:
		pool = buildPersonalized(candidates, unvoted, decisions, cfg)
	}
	pool.Phase = phase

	metrics.PoolRebuilds.WithLabelValues(phase.String()).Inc()
	metrics.PoolSize.Set(float64(pool.Len()))
	return pool
}

// buildDiscovery orders all undecided candidates by catalog quality,
// descending. The sort is stable: equal quality keeps catalog order.
func buildDiscovery(unvoted []catalog.Candidate) Pool {
	ordered := make([]catalog.Candidate, len(unvoted))
	copy(ordered, unvoted)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Quality > ordered[j].Quality
	})
	return Pool{Candidates: ordered}
}

// buildPersonalized scores every undecided candidate against the preference
// profile, orders by affinity descending (stable, ties keep catalog order),
// and splits into the preference bucket followed by the diversity bucket.
// The diversity bucket is the next slice of the same ordering, never
// resampled from the full population.
func buildPersonalized(all, unvoted []catalog.Candidate, decisions map[string]bool, cfg Config) Pool {
	interested := make([]catalog.Candidate, 0, len(decisions))
	for _, c := range all {
		if liked, decided := decisions[c.ID]; decided && liked {
			interested = append(interested, c)
		}
	}
	profile := BuildProfile(interested)

	scores := make(map[string]int, len(unvoted))
	ordered := make([]catalog.Candidate, len(unvoted))
	copy(ordered, unvoted)
	for _, c := range ordered {
		scores[c.ID] = profile.Score(c, cfg.Weights)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i].ID] > scores[ordered[j].ID]
	})

	// With a full supply the split is exactly ⌊target×ratio⌋ / rest (70/30);
	// a thinner supply shrinks both buckets proportionally, never padded.
	total := len(ordered)
	if total > cfg.PoolTarget {
		total = cfg.PoolTarget
	}
	prefCount := int(float64(total) * cfg.PreferenceRatio)

	pooled := ordered[:total]
	poolScores := make(map[string]int, total)
	for _, c := range pooled {
		poolScores[c.ID] = scores[c.ID]
	}

	return Pool{
		Candidates:      pooled,
		PreferenceCount: prefCount,
		Scores:          poolScores,
	}
}
