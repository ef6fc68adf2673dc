package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pinsetter/pinsetter/internal/store"
	wsHub "github.com/pinsetter/pinsetter/internal/ws"
	"github.com/pinsetter/pinsetter/pkg/bowling"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

func newStore(t *testing.T, lanes map[string][]bowling.Throw) *store.Store {
	t.Helper()
	st := store.New(5 * time.Minute)
	for id, throws := range lanes {
		for _, th := range throws {
			if _, err := st.Update(id, func(g *bowling.Game) error { return g.RecordThrow(th) }); err != nil {
				t.Fatalf("lane %s: RecordThrow(%s): %v", id, th, err)
			}
		}
	}
	return st
}

// startHub serves the hub from a test server and runs its broadcast loop
// until the test ends.
func startHub(t *testing.T, st *store.Store) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(st, testInterval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub, cancelFn
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads and decodes one message with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var m wsHub.Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesLanes(t *testing.T) {
	st := newStore(t, map[string][]bowling.Throw{
		"lane-1": {bowling.Strike, bowling.Seven, bowling.Spare},
		"lane-2": {bowling.Nine},
	})
	wsURL, _, _ := startHub(t, st)

	m := readMessage(t, dial(t, wsURL))
	if m.Event != "lanes" {
		t.Errorf("event: got %q, want lanes", m.Event)
	}
	if m.Data.GeneratedAt == "" {
		t.Error("generated_at: missing")
	}
	if len(m.Data.Lanes) != 2 {
		t.Fatalf("lanes: got %d, want 2", len(m.Data.Lanes))
	}
	if l := m.Data.Lanes[0]; l.ID != "lane-1" || !strings.HasPrefix(l.Card, "[X|-]  [7|/]") {
		t.Errorf("lane-1: id=%q card=%q", l.ID, l.Card)
	}
}

func TestHub_EmptyStore_EmptyLanes(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore(t, nil))
	m := readMessage(t, dial(t, wsURL))
	if len(m.Data.Lanes) != 0 {
		t.Errorf("lanes: got %d, want 0", len(m.Data.Lanes))
	}
}

func TestHub_CountClients(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore(t, nil))

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, wsURL)
		readMessage(t, conns[i])
	}

	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}

	conns[0].Close()
	time.Sleep(50 * time.Millisecond) // let readPump see the close
	if n := hub.Count(); n != 2 {
		t.Errorf("Count after disconnect: got %d, want 2", n)
	}
}

func TestHub_ReceivesBroadcastOnTick(t *testing.T) {
	st := newStore(t, nil)
	wsURL, _, _ := startHub(t, st)

	conn := dial(t, wsURL)
	readMessage(t, conn) // immediate, empty

	st.Update("late", func(g *bowling.Game) error { return g.RecordThrow(bowling.Strike) }) //nolint:errcheck

	// A tick may already have fired before the update; wait for one after it.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m := readMessage(t, conn)
		if len(m.Data.Lanes) == 1 && m.Data.Lanes[0].ID == "late" {
			return
		}
	}
	t.Error("no broadcast contained the updated lane")
}

func TestHub_Run_ClosesClientsOnCancel(t *testing.T) {
	wsURL, hub, cancel := startHub(t, newStore(t, nil))

	conn := dial(t, wsURL)
	readMessage(t, conn)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue // a broadcast queued before the cancel
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			t.Fatal("connection still open 2s after cancel")
		}
		break
	}
	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after cancel: got %d, want 0", n)
	}
}

func TestHub_RejectsPlainHTTP(t *testing.T) {
	hub := wsHub.New(newStore(t, nil), testInterval)
	rr := httptest.NewRecorder()
	hub.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws/stream", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}
