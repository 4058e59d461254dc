// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scoutdeck/scoutdeck/internal/session"
)

// SessionNext handles GET /api/v1/session/{userID}/next.
// Returns the candidate currently on screen plus the session's read state.
func (h *Handler) SessionNext(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Missing user ID", nil)
		return
	}

	s := h.sessions.Session(userID)
	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     s.Next(),
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// SessionPool handles GET /api/v1/session/{userID}/pool.
// Returns the full ordered pool, phase, and the preference/diversity split.
func (h *Handler) SessionPool(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Missing user ID", nil)
		return
	}

	s := h.sessions.Session(userID)
	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     s.Pool(),
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// SessionDecide handles POST /api/v1/session/{userID}/decide.
//
// The vote lands on the candidate currently presented. The write is
// optimistic: a 202 means the vote is visible locally and remote
// persistence is in flight; a later rollback surfaces through the
// websocket stream and the next view's last_failure field.
func (h *Handler) SessionDecide(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Missing user ID", nil)
		return
	}

	var req DecideRequest
	if apiErr := decodeRequest(r, &req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &APIResponse{
			Status:   "error",
			Metadata: Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	s := h.sessions.Session(userID)

	// Optional client-side race guard. If the client tells us which card it
	// swiped and the screen has since moved on, refuse rather than vote on
	// the wrong candidate.
	if req.CandidateID != "" {
		view := s.Next()
		if view.Candidate == nil || view.Candidate.ID != req.CandidateID {
			respondError(w, http.StatusConflict, "STALE_CANDIDATE", "Presented candidate has changed", nil)
			return
		}
	}

	if err := s.Decide(r.Context(), *req.Interested); err != nil {
		switch {
		case errors.Is(err, session.ErrDecisionInFlight):
			respondError(w, http.StatusConflict, "DECISION_IN_FLIGHT", "A decision is already being processed", nil)
		case errors.Is(err, session.ErrNothingPresented):
			respondError(w, http.StatusConflict, "NOTHING_PRESENTED", "No candidate is currently presented", nil)
		default:
			respondError(w, http.StatusInternalServerError, "DECISION_ERROR", "Failed to record decision", err)
		}
		return
	}

	respondJSON(w, http.StatusAccepted, &APIResponse{
		Status:   "success",
		Data:     s.Next(),
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// SessionRetract handles POST /api/v1/session/{userID}/retract.
// Withdraws an earlier vote and recomputes the pool.
func (h *Handler) SessionRetract(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Missing user ID", nil)
		return
	}

	var req RetractRequest
	if apiErr := decodeRequest(r, &req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &APIResponse{
			Status:   "error",
			Metadata: Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	s := h.sessions.Session(userID)
	if err := s.Retract(r.Context(), req.CandidateID); err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveVote):
			respondError(w, http.StatusNotFound, "NO_ACTIVE_VOTE", "No active vote on that candidate", nil)
		default:
			respondError(w, http.StatusInternalServerError, "RETRACT_ERROR", "Failed to retract vote", err)
		}
		return
	}

	respondJSON(w, http.StatusAccepted, &APIResponse{
		Status:   "success",
		Data:     s.Next(),
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
