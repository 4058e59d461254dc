// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ProgressStatus handles GET /api/v1/progress/{userID}.
// Reports whether the user has exhausted the catalog at least once.
func (h *Handler) ProgressStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Missing user ID", nil)
		return
	}

	completed, err := h.progress.Contains(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "PROGRESS_ERROR", "Failed to read progress", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"user_id":   userID,
			"completed": completed,
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// ProgressCount handles GET /api/v1/progress.
// Returns how many users have completed the catalog.
func (h *Handler) ProgressCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.progress.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "PROGRESS_ERROR", "Failed to count completions", err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"completed_users": count,
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
