// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package api provides the HTTP surface of the swipe engine.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_session.go: Session endpoints (next, pool, decide, retract)
//   - handlers_progress.go: Completion progress endpoints
//   - handlers_catalog.go: Catalog status endpoint
//   - handlers_health.go: Health and readiness endpoints
package api

import (
	"net/http"
	"time"

	"github.com/scoutdeck/scoutdeck/internal/catalog"
	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/progress"
	"github.com/scoutdeck/scoutdeck/internal/session"
	ws "github.com/scoutdeck/scoutdeck/internal/websocket"
)

// Handler contains dependencies for API handlers.
type Handler struct {
	sessions  *session.Manager
	catalog   *catalog.Store
	progress  progress.Store
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates an API handler over the running engine components.
func NewHandler(sessions *session.Manager, catalogStore *catalog.Store, prog progress.Store, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		sessions:  sessions,
		catalog:   catalogStore,
		progress:  prog,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// WebSocket handles GET /api/v1/ws and upgrades to the event stream.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(h.wsHub, w, r)
}
