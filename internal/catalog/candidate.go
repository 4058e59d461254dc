// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/scoutdeck/scoutdeck/internal/logging"
	"github.com/scoutdeck/scoutdeck/internal/metrics"
)

// Candidate is a single startup profile eligible for a swipe decision.
// It is immutable once normalized; the engine never mutates it.
type Candidate struct {
	// ID uniquely identifies the startup within the catalog.
	ID string `json:"id"`

	// Name is the display name of the startup.
	Name string `json:"name"`

	// Topics is the set of topic tags (industry/technology).
	Topics []string `json:"topics"`

	// Stage is the optional maturity-stage label (seed, series-a, ...).
	Stage string `json:"stage,omitempty"`

	// UseCases is the set of use-case tags.
	UseCases []string `json:"use_cases"`

	// Quality is the catalog-supplied precomputed quality score.
	Quality float64 `json:"quality"`
}

// fieldAliases is the fallback precedence for each canonical field: the
// canonical name first, then legacy-cased and foreign-backend names. The
// first present alias wins.
var fieldAliases = map[string][]string{
	"id":        {"id", "ID", "uuid", "startup_id", "startupId"},
	"name":      {"name", "Name", "company", "company_name", "title"},
	"topics":    {"topics", "Topics", "tags", "Tags", "categories"},
	"stage":     {"stage", "Stage", "maturity", "funding_stage", "fundingStage"},
	"use_cases": {"use_cases", "useCases", "UseCases", "usecases", "applications"},
	"quality":   {"quality_score", "qualityScore", "score", "Score", "rating"},
}

// Normalize decodes a raw catalog payload (a JSON array of duck-typed
// records) into canonical candidates, preserving catalog order. Records
// without a resolvable ID are dropped and logged; no optional field ever
// fails the load.
func Normalize(payload []byte) ([]Candidate, error) {
	var rawRecords []json.RawMessage
	if err := json.Unmarshal(payload, &rawRecords); err != nil {
		return nil, fmt.Errorf("decode catalog payload: %w", err)
	}

	candidates := make([]Candidate, 0, len(rawRecords))
	for i, raw := range rawRecords {
		c, ok := normalizeRecord(raw)
		if !ok {
			logging.Warn().Int("index", i).Msg("catalog record has no resolvable id, dropped")
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// normalizeRecord resolves one raw record through the alias table.
func normalizeRecord(raw json.RawMessage) (Candidate, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Candidate{}, false
	}

	id := decodeString(firstPresent(fields, "id"))
	if id == "" {
		return Candidate{}, false
	}

	return Candidate{
		ID:       id,
		Name:     decodeString(firstPresent(fields, "name")),
		Topics:   decodeTags(firstPresent(fields, "topics"), "topics"),
		Stage:    strings.ToLower(decodeString(firstPresent(fields, "stage"))),
		UseCases: decodeTags(firstPresent(fields, "use_cases"), "use_cases"),
		Quality:  decodeFloat(firstPresent(fields, "quality")),
	}, true
}

// firstPresent returns the value of the first alias present in the record.
func firstPresent(fields map[string]json.RawMessage, canonical string) json.RawMessage {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := fields[alias]; ok && len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}

// decodeString accepts a JSON string or number, anything else yields "".
func decodeString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// decodeFloat accepts a JSON number or a numeric string, defaulting to 0.
func decodeFloat(raw json.RawMessage) float64 {
	if raw == nil {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0
}

// decodeTags accepts a JSON array of strings or a comma-separated string.
// Malformed collections degrade to empty for scoring compatibility, but are
// counted so data-quality problems stay observable.
func decodeTags(raw json.RawMessage, field string) []string {
	if raw == nil {
		return nil
	}

	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return cleanTags(arr)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return cleanTags(strings.Split(s, ","))
	}

	metrics.MalformedTagFields.WithLabelValues(field).Inc()
	logging.Warn().Str("field", field).Msg("malformed tag collection, treated as empty")
	return nil
}

// cleanTags trims, lowercases, and deduplicates tags, preserving first-seen
// order. Tag fields are sets; a duplicated tag must not double-score.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
