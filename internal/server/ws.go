package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/bridge"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler broadcasts live hand state via WebSocket.
type StateHandler struct {
	states  *bridge.StateTable
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewStateHandler creates a new StateHandler reading from the given state table.
func NewStateHandler(states *bridge.StateTable) *StateHandler {
	h := &StateHandler{
		states:  states,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

type handStateMessage struct {
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
	Gesture  string     `json:"gesture"`
	Trigger  float64    `json:"trigger"`
	Grip     float64    `json:"grip"`
}

func toMessage(s hand.State) handStateMessage {
	return handStateMessage{
		Position: [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
		Rotation: [4]float64{s.Rotation.W, s.Rotation.X, s.Rotation.Y, s.Rotation.Z},
		Gesture:  string(s.Gesture),
		Trigger:  s.Trigger,
		Grip:     s.Grip,
	}
}

// broadcast sends hand state snapshots to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(33 * time.Millisecond) // ~30 FPS
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		snapshot := h.states.Snapshot()
		hands := make(map[string]handStateMessage, len(snapshot))
		for side, state := range snapshot {
			hands[string(side)] = toMessage(state)
		}

		msg, _ := json.Marshal(map[string]any{
			"hands":     hands,
			"timestamp": time.Now().UnixMilli(),
		})

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
