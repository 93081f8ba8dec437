package socket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adirkandabi/LinkSpark/internal/socket"

	"github.com/gorilla/websocket"
)

// testServer is a bare websocket endpoint that records inbound envelopes and
// can push envelopes to the connected client.
type testServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	received []socket.Envelope
	conns    []*websocket.Conn
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.token = r.URL.Query().Get("token")
		ts.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.conns = append(ts.conns, conn)
		ts.mu.Unlock()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env socket.Envelope
			if json.Unmarshal(data, &env) == nil {
				ts.mu.Lock()
				ts.received = append(ts.received, env)
				ts.mu.Unlock()
			}
		}
	}))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.srv.URL, "http")
}

func (ts *testServer) push(t *testing.T, event string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal push payload: %v", err)
	}
	data, err := json.Marshal(socket.Envelope{Type: event, Payload: raw})
	if err != nil {
		t.Fatalf("marshal push envelope: %v", err)
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.conns) == 0 {
		t.Fatal("no connected client to push to")
	}
	if err := ts.conns[len(ts.conns)-1].WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("push write: %v", err)
	}
}

func (ts *testServer) envelopes() []socket.Envelope {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]socket.Envelope(nil), ts.received...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDialSendsTokenAndEmitsEnvelopes(t *testing.T) {
	ts := newTestServer(t)

	conn, err := socket.Dial(context.Background(), ts.url(), "session-token")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.Emit(socket.EventJoinRoom, socket.RoomPayload{Room: "a_b"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	waitFor(t, "server to receive the envelope", func() bool {
		return len(ts.envelopes()) == 1
	})

	ts.mu.Lock()
	token := ts.token
	ts.mu.Unlock()
	if token != "session-token" {
		t.Errorf("token query = %q, want session-token", token)
	}

	env := ts.envelopes()[0]
	if env.Type != socket.EventJoinRoom {
		t.Errorf("envelope type = %q, want join_room", env.Type)
	}
	var p socket.RoomPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p.Room != "a_b" {
		t.Errorf("payload room = %q, want a_b", p.Room)
	}
}

func TestAttachDispatchesAndDetachStops(t *testing.T) {
	ts := newTestServer(t)

	conn, err := socket.Dial(context.Background(), ts.url(), "")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	var mu sync.Mutex
	var got []string
	detach := conn.Attach(socket.EventReceiveMessage, func(payload json.RawMessage) {
		var p socket.RoomPayload
		_ = json.Unmarshal(payload, &p)
		mu.Lock()
		got = append(got, p.Room)
		mu.Unlock()
	})

	ts.push(t, socket.EventReceiveMessage, socket.RoomPayload{Room: "r1"})
	waitFor(t, "first dispatch", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "r1"
	})

	// Events of other types do not reach this handler.
	ts.push(t, socket.EventUnreadCount, socket.UnreadCountPayload{Count: 2})

	detach()
	detach() // idempotent
	ts.push(t, socket.EventReceiveMessage, socket.RoomPayload{Room: "r2"})

	// Give the read pump a moment; the detached handler must stay silent.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Errorf("handler saw %d events after detach, want 1", len(got))
	}
}

func TestEmitAfterCloseFails(t *testing.T) {
	ts := newTestServer(t)

	conn, err := socket.Dial(context.Background(), ts.url(), "")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := conn.Emit(socket.EventJoinRoom, socket.RoomPayload{Room: "a_b"}); err != socket.ErrClosed {
		t.Errorf("Emit after close error = %v, want ErrClosed", err)
	}
}
