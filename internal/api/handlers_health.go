// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package api

import (
	"net/http"
	"time"
)

// HealthLive handles GET /api/v1/health/live.
// Liveness only: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     map[string]any{"status": "alive"},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready.
// Ready means a catalog snapshot has been loaded; until then sessions
// would present an empty pool to every user.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()
	if len(snap.Candidates) == 0 {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Catalog has not been loaded", nil)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"status":     "ready",
			"candidates": len(snap.Candidates),
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// Health handles GET /api/v1/health with a fuller status report.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()

	status := "healthy"
	if len(snap.Candidates) == 0 {
		status = "degraded"
	}

	data := map[string]any{
		"status":          status,
		"uptime_seconds":  int64(time.Since(h.startTime).Seconds()),
		"catalog_size":    len(snap.Candidates),
		"catalog_version": snap.Version,
	}
	if h.wsHub != nil {
		data["websocket_clients"] = h.wsHub.ClientCount()
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
