// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/scoutdeck/scoutdeck/internal/catalog"
	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/engine"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
	"github.com/scoutdeck/scoutdeck/internal/logging"
	"github.com/scoutdeck/scoutdeck/internal/progress"
	"github.com/scoutdeck/scoutdeck/internal/session"
	ws "github.com/scoutdeck/scoutdeck/internal/websocket"
)

// nullPersister accepts every persistence call.
type nullPersister struct {
	mu      sync.Mutex
	creates int
	deletes int
}

func (p *nullPersister) CreateVote(ctx context.Context, vote ledger.Vote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creates++
	return nil
}

func (p *nullPersister) DeleteVote(ctx context.Context, candidateID, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes++
	return nil
}

func testServer(t *testing.T) (http.Handler, *catalog.Store) {
	t.Helper()

	prog, err := progress.Open("")
	if err != nil {
		t.Fatalf("open progress store: %v", err)
	}
	t.Cleanup(func() { _ = prog.Close() })

	catalogStore := catalog.NewStore()
	hub := ws.NewHub()

	manager := session.NewManager(ledger.New(), &nullPersister{}, prog, hub,
		engine.DefaultConfig(), time.Millisecond, logging.Logger())
	catalogStore.Subscribe(manager.OnCatalog)

	catalogStore.Replace([]catalog.Candidate{
		{ID: "c1", Name: "Alpha", Quality: 9},
		{ID: "c2", Name: "Beta", Quality: 7},
	})

	cfg := &config.Config{}
	handler := NewHandler(manager, catalogStore, prog, hub, cfg)
	mw := NewChiMiddlewareFromSecurity([]string{"*"}, 0, 0, true)
	return NewRouter(handler, mw).SetupChi(), catalogStore
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, resp
}

func TestSessionNext(t *testing.T) {
	router, _ := testServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/session/u1/next", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Status != "success" {
		t.Fatalf("status field = %q", resp.Status)
	}

	data, _ := resp.Data.(map[string]any)
	if data["state"] != "presenting" {
		t.Errorf("state = %v, want presenting", data["state"])
	}
	candidate, _ := data["candidate"].(map[string]any)
	if candidate["id"] != "c1" {
		t.Errorf("candidate = %v, want highest-quality c1", candidate)
	}
}

func TestSessionDecide(t *testing.T) {
	router, _ := testServer(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/decide", `{"interested":true}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (optimistic accept), body %s", rec.Code, rec.Body.String())
	}

	data, _ := resp.Data.(map[string]any)
	if data["vote_count"] != float64(1) {
		t.Errorf("vote_count = %v, want 1 immediately", data["vote_count"])
	}
}

func TestSessionDecideValidation(t *testing.T) {
	router, _ := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing interested", `{}`},
		{"unknown field", `{"interested":true,"bogus":1}`},
		{"not json", `interested`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/decide", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if resp.Error == nil {
				t.Error("expected a structured error")
			}
		})
	}
}

func TestSessionDecideStaleCandidate(t *testing.T) {
	router, _ := testServer(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/decide",
		`{"interested":true,"candidate_id":"c2"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "STALE_CANDIDATE" {
		t.Errorf("error = %+v, want STALE_CANDIDATE", resp.Error)
	}
}

func TestSessionDecideInFlight(t *testing.T) {
	router, _ := testServer(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/decide", `{"interested":true}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first decide status = %d", rec.Code)
	}

	// The settle delay is 1ms but the second request can race it; accept
	// either the conflict or a successful follow-up decide.
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/decide", `{"interested":false}`)
	switch rec.Code {
	case http.StatusConflict:
		if resp.Error == nil || resp.Error.Code != "DECISION_IN_FLIGHT" {
			t.Errorf("error = %+v, want DECISION_IN_FLIGHT", resp.Error)
		}
	case http.StatusAccepted:
	default:
		t.Errorf("status = %d, want 409 or 202", rec.Code)
	}
}

func TestSessionRetract(t *testing.T) {
	router, _ := testServer(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/decide", `{"interested":true}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("decide status = %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/session/u1/retract", `{"candidate_id":"c1"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("retract status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/session/u1/retract", `{"candidate_id":"c1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second retract status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NO_ACTIVE_VOTE" {
		t.Errorf("error = %+v, want NO_ACTIVE_VOTE", resp.Error)
	}
}

func TestSessionPool(t *testing.T) {
	router, _ := testServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/session/u1/pool", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := resp.Data.(map[string]any)
	if data["phase"] != "discovery" {
		t.Errorf("phase = %v, want discovery", data["phase"])
	}
	candidates, _ := data["candidates"].([]any)
	if len(candidates) != 2 {
		t.Errorf("pool size = %d, want 2", len(candidates))
	}
}

func TestProgressEndpoints(t *testing.T) {
	router, _ := testServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/progress/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := resp.Data.(map[string]any)
	if data["completed"] != false {
		t.Errorf("completed = %v, want false", data["completed"])
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ = resp.Data.(map[string]any)
	if data["completed_users"] != float64(0) {
		t.Errorf("completed_users = %v, want 0", data["completed_users"])
	}
}

func TestCatalogStatus(t *testing.T) {
	router, _ := testServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/catalog/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := resp.Data.(map[string]any)
	if data["candidates"] != float64(2) {
		t.Errorf("candidates = %v, want 2", data["candidates"])
	}
	if data["version"] != float64(1) {
		t.Errorf("version = %v, want 1", data["version"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, store := testServer(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d with a loaded catalog", rec.Code)
	}

	store.Replace(nil)
	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d with an empty catalog, want 503", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_READY" {
		t.Errorf("error = %+v, want NOT_READY", resp.Error)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a generated X-Request-ID")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-id-123" {
		t.Errorf("X-Request-ID = %q, want the client-supplied value", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scoutdeck_") {
		t.Error("metrics output should include scoutdeck collectors")
	}
}
