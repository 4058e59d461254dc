// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package api

import (
	"net/http"
	"time"
)

// CatalogStatus handles GET /api/v1/catalog/status.
func (h *Handler) CatalogStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()

	var loadedAt string
	if !snap.LoadedAt.IsZero() {
		loadedAt = snap.LoadedAt.Format(time.RFC3339)
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"candidates": len(snap.Candidates),
			"version":    snap.Version,
			"loaded_at":  loadedAt,
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
