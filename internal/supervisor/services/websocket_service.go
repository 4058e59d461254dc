// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

package services

import (
	"context"

	ws "github.com/scoutdeck/scoutdeck/internal/websocket"
)

// WebSocketService runs the hub loop under supervision.
type WebSocketService struct {
	hub *ws.Hub
}

// NewWebSocketService wraps a hub as a supervised service.
func NewWebSocketService(hub *ws.Hub) *WebSocketService {
	return &WebSocketService{hub: hub}
}

// Serve implements suture.Service.
func (s *WebSocketService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervision logs.
func (s *WebSocketService) String() string { return "websocket-hub" }
