package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 256
)

// ErrClosed is returned by Emit after the connection has shut down.
var ErrClosed = errors.New("socket: connection closed")

// ErrQueueFull is returned by Emit when the outbound queue is saturated.
var ErrQueueFull = errors.New("socket: send queue full")

// Handler receives the raw payload of one inbound event.
type Handler func(payload json.RawMessage)

// Conn is the process-wide connection to the messaging server. It is created
// once at startup and shared by every chat view; consumers attach scoped
// handlers and emit events, but only the owner may Close it.
type Conn struct {
	ws   *websocket.Conn
	send chan []byte

	mu       sync.RWMutex
	handlers map[string]map[int]Handler
	nextID   int

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the messaging server, authenticating with the bearer token
// as a query parameter, and starts the read/write pumps.
func Dial(ctx context.Context, socketURL, token string) (*Conn, error) {
	u, err := url.Parse(socketURL)
	if err != nil {
		return nil, fmt.Errorf("socket: invalid url %q: %w", socketURL, err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("socket: dial %s: %w", socketURL, err)
	}

	c := &Conn{
		ws:       ws,
		send:     make(chan []byte, sendQueueSize),
		handlers: make(map[string]map[int]Handler),
		done:     make(chan struct{}),
	}

	go c.readPump()
	go c.writePump()

	log.Printf("Socket: Connected to %s", socketURL)
	return c, nil
}

// Attach registers a handler for the given event type and returns a detach
// function. Detach is idempotent; callers must invoke it on teardown so rapid
// view switching cannot leave a stale listener behind.
func (c *Conn) Attach(event string, h Handler) (detach func()) {
	c.mu.Lock()
	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]Handler)
	}
	id := c.nextID
	c.nextID++
	c.handlers[event][id] = h
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if hs, ok := c.handlers[event]; ok {
				delete(hs, id)
				if len(hs) == 0 {
					delete(c.handlers, event)
				}
			}
			c.mu.Unlock()
		})
	}
}

// Emit queues an event for delivery. It is fire-and-forget with respect to the
// server: a nil return means the event was queued, not acknowledged.
func (c *Conn) Emit(event string, payload interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("socket: marshal %s payload: %w", event, err)
		}
		raw = b
	}
	data, err := json.Marshal(Envelope{Type: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("socket: marshal %s envelope: %w", event, err)
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		log.Printf("Socket: Send queue full. Dropping event of type %s.", event)
		return ErrQueueFull
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// Done is closed when the connection has shut down, either by Close or by a
// transport failure.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) readPump() {
	defer func() {
		_ = c.Close()
		log.Printf("Socket readPump: Connection closed.")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("Socket readPump error: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("Socket readPump: Error unmarshalling envelope: %v. Raw: %s", err, string(data))
			continue
		}
		c.dispatch(env)
	}
}

func (c *Conn) dispatch(env Envelope) {
	c.mu.RLock()
	hs := make([]Handler, 0, len(c.handlers[env.Type]))
	for _, h := range c.handlers[env.Type] {
		hs = append(hs, h)
	}
	c.mu.RUnlock()

	if len(hs) == 0 && env.Type == EventError {
		var ep ErrorPayload
		if err := json.Unmarshal(env.Payload, &ep); err == nil {
			log.Printf("Socket: Server error: %s", ep.Message)
		}
		return
	}

	// Handlers run on the read goroutine; the single reader preserves the
	// transport's per-room arrival order.
	for _, h := range hs {
		h(env.Payload)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
		log.Printf("Socket writePump: Ticker stopped and connection closed.")
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Socket writePump: Error writing message: %v", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Socket writePump: Error sending ping: %v", err)
				return
			}

		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
