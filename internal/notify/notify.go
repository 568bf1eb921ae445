// Package notify publishes profile-switch events to websocket clients.
package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event describes a completed profile switch.
type Event struct {
	Profile     string `json:"profile"`
	Fingerprint string `json:"fingerprint"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// State is the current detection state served over HTTP.
type State struct {
	Fingerprint string `json:"fingerprint"`
	Profile     string `json:"profile"`
}

// Server broadcasts switch events to subscribers and serves the
// current state. Clients that fall behind or error out are dropped.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	conns    map[*websocket.Conn]bool
	state    func() State
}

// NewServer creates a notify server reading state through the callback.
func NewServer(state func() State) *Server {
	return &Server{
		conns: make(map[*websocket.Conn]bool),
		state: state,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes wires the event and state handlers onto the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/api/state", s.handleState)
}

// Broadcast sends the event to every subscriber.
func (s *Server) Broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("notify: dropping subscriber: %v", err)
			_ = conn.Close()
			delete(s.conns, conn)
		}
	}
}

// Subscribers returns the number of connected clients.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// handleEvents upgrades the request and keeps the subscription open
// until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	// Subscribers only listen; drain until the connection dies.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// handleState returns the current detection state.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.state())
}
