// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package websocket pushes live session events to the UI shell: optimistic
// vote commits, confirmations, rollbacks, pool rebuilds, and completions.
// The shell uses these to keep its queue view honest without polling.
package websocket

import (
	"context"
	"sync"

	"github.com/scoutdeck/scoutdeck/internal/logging"
	"github.com/scoutdeck/scoutdeck/internal/metrics"
)

// Message is a typed event pushed to connected clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Client-originated message types.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Notify queues an event for broadcast. Non-blocking: with no hub goroutine
// draining (or a full buffer) the event is dropped, never stalling the
// session that emitted it.
func (h *Hub) Notify(event string, data any) {
	select {
	case h.broadcast <- Message{Type: event, Data: data}:
	default:
		logging.Debug().Str("event", event).Msg("websocket broadcast buffer full, event dropped")
	}
}

// RunWithContext runs the hub loop until the context is canceled, then
// gracefully closes all clients. Designed for suture supervision.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))
			logging.Info().Int("total_clients", total).Msg("websocket client connected")

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))
			logging.Info().Int("total_clients", total).Msg("websocket client disconnected")

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// broadcastToClients delivers a message to every client, dropping clients
// whose send buffer is full rather than blocking the hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.RLock()
	stalled := make([]*Client, 0)
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	if len(stalled) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range stalled {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketClients.Set(float64(total))
	logging.Warn().Int("dropped", len(stalled)).Msg("dropped stalled websocket clients")
}

// closeAll closes every client during shutdown.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WebSocketClients.Set(0)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
