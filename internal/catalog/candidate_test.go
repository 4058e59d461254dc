// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeAliasFallback(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Candidate
	}{
		{
			name:    "canonical names",
			payload: `[{"id":"s1","name":"Acme","topics":["AI"],"stage":"Seed","use_cases":["fraud"],"quality_score":8.5}]`,
			want: Candidate{
				ID: "s1", Name: "Acme", Topics: []string{"ai"},
				Stage: "seed", UseCases: []string{"fraud"}, Quality: 8.5,
			},
		},
		{
			name:    "legacy cased aliases",
			payload: `[{"ID":"s2","Name":"Beta","Topics":["Fintech"],"Stage":"series-a","UseCases":["payments"],"Score":3}]`,
			want: Candidate{
				ID: "s2", Name: "Beta", Topics: []string{"fintech"},
				Stage: "series-a", UseCases: []string{"payments"}, Quality: 3,
			},
		},
		{
			name:    "foreign backend names",
			payload: `[{"startup_id":"s3","company_name":"Gamma","tags":["devtools"],"funding_stage":"seed","applications":["ci"],"rating":"7.25"}]`,
			want: Candidate{
				ID: "s3", Name: "Gamma", Topics: []string{"devtools"},
				Stage: "seed", UseCases: []string{"ci"}, Quality: 7.25,
			},
		},
		{
			name:    "first present alias wins",
			payload: `[{"id":"s4","uuid":"ignored","name":"Delta"}]`,
			want:    Candidate{ID: "s4", Name: "Delta"},
		},
		{
			name:    "numeric id coerced to string",
			payload: `[{"id":42,"name":"Epsilon"}]`,
			want:    Candidate{ID: "42", Name: "Epsilon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d candidates, want 1", len(got))
			}
			if !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("candidate = %+v, want %+v", got[0], tt.want)
			}
		})
	}
}

func TestNormalizeDropsRecordsWithoutID(t *testing.T) {
	payload := `[{"name":"NoID"},{"id":"kept","name":"Kept"},{"id":""}]`
	got, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 1 || got[0].ID != "kept" {
		t.Errorf("got %+v, want only the record with a resolvable id", got)
	}
}

func TestNormalizeMalformedPayload(t *testing.T) {
	if _, err := Normalize([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("non-array payload should fail")
	}
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "comma separated string",
			payload: `[{"id":"s1","topics":"AI, Fintech ,ai"}]`,
			want:    []string{"ai", "fintech"},
		},
		{
			name:    "duplicates collapse preserving order",
			payload: `[{"id":"s1","topics":["ML","ml","Vision","ML"]}]`,
			want:    []string{"ml", "vision"},
		},
		{
			name:    "malformed collection degrades to empty",
			payload: `[{"id":"s1","topics":{"nested":"object"}}]`,
			want:    nil,
		},
		{
			name:    "numeric collection degrades to empty",
			payload: `[{"id":"s1","topics":123}]`,
			want:    nil,
		},
		{
			name:    "absent field stays empty",
			payload: `[{"id":"s1"}]`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if !reflect.DeepEqual(got[0].Topics, tt.want) {
				t.Errorf("topics = %v, want %v", got[0].Topics, tt.want)
			}
		})
	}
}

func TestNormalizePreservesCatalogOrder(t *testing.T) {
	payload := `[{"id":"b"},{"id":"a"},{"id":"c"}]`
	got, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].ID, id)
		}
	}
}
