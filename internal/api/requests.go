// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecideRequest records a vote on the candidate currently on screen.
// CandidateID is optional; when set, the vote is rejected if the screen
// has moved on since the client rendered it.
type DecideRequest struct {
	Interested  *bool  `json:"interested" validate:"required"`
	CandidateID string `json:"candidate_id,omitempty" validate:"omitempty,max=128"`
}

// RetractRequest withdraws an earlier vote on a candidate.
type RetractRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,max=128"`
}

const maxRequestBody = 64 * 1024

// decodeRequest reads, decodes and validates a JSON request body.
func decodeRequest(r *http.Request, v any) *APIError {
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &APIError{
			Code:    "INVALID_REQUEST",
			Message: "Request body is not valid JSON",
		}
	}

	if err := validate.Struct(v); err != nil {
		details := make(map[string]any)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = fmt.Sprintf("failed %q constraint", fe.Tag())
			}
		}
		return &APIError{
			Code:    "VALIDATION_ERROR",
			Message: "Request validation failed",
			Details: details,
		}
	}
	return nil
}
