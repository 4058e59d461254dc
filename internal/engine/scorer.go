// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package engine

import (
	"github.com/scoutdeck/scoutdeck/internal/catalog"
)

// Weights are the affinity score contributions: per topic match, flat for
// stage presence, per use-case match.
type Weights struct {
	Topic   int
	Stage   int
	UseCase int
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() Weights {
	return Weights{Topic: 20, Stage: 15, UseCase: 10}
}

// Profile is the accumulated preference signal of one user, derived once per
// recomputation from the candidates they marked interested: the union of
// topic tags, a frequency count per maturity stage, and the union of
// use-case tags.
type Profile struct {
	Topics   map[string]struct{}
	Stages   map[string]int
	UseCases map[string]struct{}
}

// BuildProfile derives a preference profile from interested candidates.
func BuildProfile(interested []catalog.Candidate) Profile {
	p := Profile{
		Topics:   make(map[string]struct{}),
		Stages:   make(map[string]int),
		UseCases: make(map[string]struct{}),
	}
	for _, c := range interested {
		for _, t := range c.Topics {
			p.Topics[t] = struct{}{}
		}
		if c.Stage != "" {
			p.Stages[c.Stage]++
		}
		for _, u := range c.UseCases {
			p.UseCases[u] = struct{}{}
		}
	}
	return p
}

// Empty reports whether the profile carries no signal.
func (p Profile) Empty() bool {
	return len(p.Topics) == 0 && len(p.Stages) == 0 && len(p.UseCases) == 0
}

// Score computes the affinity of a candidate against the profile. Pure
// function, reproducible bit-for-bit: linear per-tag topic and use-case
// contributions (uncapped), plus a flat stage bonus on presence alone
// (frequency does not weight it). Zero matches score zero; scores are
// unbounded non-negative integers with no normalization.
func (p Profile) Score(c catalog.Candidate, w Weights) int {
	score := 0
	for _, t := range c.Topics {
		if _, ok := p.Topics[t]; ok {
			score += w.Topic
		}
	}
	if c.Stage != "" {
		if _, ok := p.Stages[c.Stage]; ok {
			score += w.Stage
		}
	}
	for _, u := range c.UseCases {
		if _, ok := p.UseCases[u]; ok {
			score += w.UseCase
		}
	}
	return score
}
