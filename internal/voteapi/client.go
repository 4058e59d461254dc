// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package voteapi is the client for the external vote persistence API.
//
// The engine treats any non-2xx response identically to a transport failure:
// both surface as an error and trigger the compensating rollback in the
// commit protocol. Every call carries an explicit timeout; without one a
// hung call is indistinguishable from a slow success.
package voteapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
)

// ErrRemoteFailure marks a failed persistence call, transport-level or
// non-2xx alike. The commit protocol surfaces it as retryable.
var ErrRemoteFailure = errors.New("vote persistence failed")

// Persister is the outbound contract of the vote persistence API.
type Persister interface {
	// CreateVote durably records a vote.
	CreateVote(ctx context.Context, vote ledger.Vote) error

	// DeleteVote durably removes the active vote for a pair.
	DeleteVote(ctx context.Context, candidateID, userID string) error
}

// Client is the plain HTTP persistence client. Production wiring wraps it in
// a BreakerClient.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a vote persistence client from configuration.
func NewClient(cfg config.VoteAPIConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		timeout:    cfg.RequestTimeout,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// CreateVote persists a vote via POST /votes.
func (c *Client) CreateVote(ctx context.Context, vote ledger.Vote) error {
	body, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/votes", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "create")
}

// DeleteVote removes the active vote for a pair via DELETE /votes.
func (c *Client) DeleteVote(ctx context.Context, candidateID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/votes?%s", c.baseURL, url.Values{
		"candidate_id": {candidateID},
		"user_id":      {userID},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	return c.do(req, "delete")
}

// do executes a persistence request, folding every failure mode into
// ErrRemoteFailure.
func (c *Client) do(req *http.Request, op string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteFailure, op, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrRemoteFailure, op, resp.StatusCode)
	}
	return nil
}
