package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestServer starts a notify server on an httptest listener.
func newTestServer(t *testing.T, state func() State) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(state)
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return s, ts
}

// wsURL rewrites an httptest URL for websocket dialing.
func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

// TestBroadcast_ReachesSubscriber verifies a subscriber receives
// broadcast events.
func TestBroadcast_ReachesSubscriber(t *testing.T) {
	s, ts := newTestServer(t, func() State { return State{} })

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/events"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitSubscribers(t, s, 1)
	s.Broadcast(Event{Profile: "docked", Fingerprint: "Y", Fallback: false})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if ev.Profile != "docked" || ev.Fingerprint != "Y" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

// TestBroadcast_DropsDeadSubscriber verifies closed connections are
// removed on the next broadcast.
func TestBroadcast_DropsDeadSubscriber(t *testing.T) {
	s, ts := newTestServer(t, func() State { return State{} })

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/events"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	waitSubscribers(t, s, 1)
	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected subscriber to be dropped, still %d", s.Subscribers())
		}
		s.Broadcast(Event{Profile: "mobile"})
		time.Sleep(10 * time.Millisecond)
	}
}

// TestStateEndpoint verifies the state handler serves the callback's
// view as JSON.
func TestStateEndpoint(t *testing.T) {
	_, ts := newTestServer(t, func() State {
		return State{Fingerprint: "X", Profile: "mobile"}
	})

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()

	var state State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if state.Fingerprint != "X" || state.Profile != "mobile" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

// waitSubscribers polls until the server sees the expected count.
func waitSubscribers(t *testing.T, s *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, s.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
