// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package voteapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
)

func testVoteConfig(url string) config.VoteAPIConfig {
	return config.VoteAPIConfig{
		URL:            url,
		RequestTimeout: 5 * time.Second,
	}
}

func TestCreateVote(t *testing.T) {
	var received ledger.Vote
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/votes" {
			t.Errorf("got %s %s, want POST /votes", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(testVoteConfig(srv.URL))
	vote := ledger.Vote{ID: "v1", CandidateID: "c1", UserID: "u1", Interested: true}
	if err := client.CreateVote(context.Background(), vote); err != nil {
		t.Fatalf("CreateVote: %v", err)
	}
	if received.ID != "v1" || received.CandidateID != "c1" || !received.Interested {
		t.Errorf("server received %+v", received)
	}
}

func TestDeleteVote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/votes" {
			t.Errorf("got %s %s, want DELETE /votes", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("candidate_id") != "c1" || q.Get("user_id") != "u1" {
			t.Errorf("query = %v", q)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(testVoteConfig(srv.URL))
	if err := client.DeleteVote(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("DeleteVote: %v", err)
	}
}

func TestNon2xxIsRemoteFailure(t *testing.T) {
	statuses := []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable}
	for _, status := range statuses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient(testVoteConfig(srv.URL))
		err := client.CreateVote(context.Background(), ledger.Vote{ID: "v1"})
		if !errors.Is(err, ErrRemoteFailure) {
			t.Errorf("status %d: err = %v, want ErrRemoteFailure", status, err)
		}
		srv.Close()
	}
}

func TestTransportErrorIsRemoteFailure(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testVoteConfig(srv.URL))
	err := client.DeleteVote(context.Background(), "c1", "u1")
	if !errors.Is(err, ErrRemoteFailure) {
		t.Errorf("err = %v, want ErrRemoteFailure", err)
	}
}
