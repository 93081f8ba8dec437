package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/adirkandabi/LinkSpark/internal/models"
	"github.com/adirkandabi/LinkSpark/internal/socket"

	"github.com/google/uuid"
)

const refreshTimeout = 10 * time.Second

// State is the session lifecycle phase. Leaving is transient: leaving a room
// is synchronous (emit leave, clear state), so the observable states are the
// other three.
type State int

const (
	StateIdle State = iota
	StateJoining
	StateActive
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	case StateLeaving:
		return "leaving"
	}
	return "unknown"
}

var (
	// ErrNotJoined is returned by Send when no conversation is open.
	ErrNotJoined = errors.New("chat: no active conversation")
	// ErrEmptyMessage is returned by Send for whitespace-only input.
	ErrEmptyMessage = errors.New("chat: message is empty")
)

// Socket is the slice of the connection the session uses. *socket.Conn
// satisfies it; tests substitute a fake.
type Socket interface {
	Attach(event string, h socket.Handler) (detach func())
	Emit(event string, payload interface{}) error
}

// HistoryLoader fetches the message backlog for a room. *api.Client satisfies
// it.
type HistoryLoader interface {
	History(ctx context.Context, room string) ([]models.ChatMessage, error)
}

// Session owns one user's view of the messenger: which conversation is open,
// its transcript, and the join/leave lifecycle against the shared socket.
//
// It installs a single process-wide receive listener at construction time.
// Inbound messages for the open room are appended to the transcript; messages
// for any other room are routed to the unread store. Switching peers never
// re-registers the listener, so rapid switching cannot leak messages across
// rooms.
type Session struct {
	conn   Socket
	loader HistoryLoader
	unread *UnreadStore
	self   string

	mu         sync.Mutex
	state      State
	peerID     string
	room       string
	transcript []models.ChatMessage
	buffered   []models.ChatMessage // live events that arrived while Joining
	queued     []uuid.UUID          // local ids of sends deferred until Active

	detachReceive func()

	// OnUpdate, when set, is invoked (without the session lock held) after
	// every transcript or state change. The terminal frontend uses it to
	// schedule a redraw. Set it before the first Open.
	OnUpdate func()
}

// NewSession wires a session to the shared connection. selfID is the viewer's
// participant id and must be non-empty.
func NewSession(conn Socket, loader HistoryLoader, unread *UnreadStore, selfID string) (*Session, error) {
	if selfID == "" {
		return nil, ErrMissingParticipant
	}
	s := &Session{
		conn:   conn,
		loader: loader,
		unread: unread,
		self:   selfID,
		state:  StateIdle,
	}
	s.detachReceive = conn.Attach(socket.EventReceiveMessage, s.handleReceive)
	return s, nil
}

// Open selects a peer: any previous room is left synchronously, the transcript
// is cleared, the join signal is emitted, and the history fetch starts. The
// session is Joining until the fetch settles.
func (s *Session) Open(peerID string) error {
	room, err := Resolve(s.self, peerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state != StateIdle {
		if s.peerID == peerID {
			s.mu.Unlock()
			return nil
		}
		s.leaveLocked()
	}

	s.state = StateJoining
	s.peerID = peerID
	s.room = room
	s.transcript = nil
	s.buffered = nil
	s.queued = nil
	s.mu.Unlock()

	if err := s.conn.Emit(socket.EventJoinRoom, socket.RoomPayload{Room: room}); err != nil {
		log.Printf("Session: Emit join_room for %s failed: %v", room, err)
	}

	go s.loadHistory(room)

	s.update()
	return nil
}

// loadHistory fetches the backlog for the room captured at fetch start. A
// response arriving after the viewer has moved on is discarded by comparing
// that room against the one currently joining.
func (s *Session) loadHistory(room string) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	history, err := s.loader.History(ctx, room)
	if err != nil {
		// Degraded view, not a failure: become Active with an empty backlog.
		log.Printf("Session: History fetch for room %s failed: %v", room, err)
		history = nil
	}

	s.mu.Lock()
	if s.state != StateJoining || s.room != room {
		s.mu.Unlock()
		log.Printf("Session: Discarding stale history response for room %s", room)
		return
	}

	// Merge order: backlog first, then whatever arrived live during the fetch.
	merged := make([]models.ChatMessage, 0, len(history)+len(s.buffered)+len(s.transcript))
	merged = append(merged, history...)
	merged = append(merged, s.buffered...)
	// Optimistic sends made while Joining stay at the tail.
	merged = append(merged, s.transcript...)
	s.transcript = merged
	s.buffered = nil
	s.state = StateActive

	peerID := s.peerID
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()

	if err := s.conn.Emit(socket.EventMarkAsRead, socket.MarkAsReadPayload{Room: room, Receiver: s.self}); err != nil {
		log.Printf("Session: Emit mark_as_read for %s failed: %v", room, err)
	}
	s.unread.Reset(peerID)

	for _, localID := range queued {
		s.emitLocal(localID)
	}

	s.update()
}

// handleReceive is the process-wide live message router.
func (s *Session) handleReceive(payload json.RawMessage) {
	var msg models.ChatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("Session: Error unmarshalling receive_message payload: %v", err)
		return
	}
	if msg.Sender == s.self {
		// Own messages were appended optimistically at send time.
		return
	}
	msg.Delivery = models.StateSent

	s.mu.Lock()
	switch {
	case msg.Room == s.room && s.state == StateActive:
		s.transcript = append(s.transcript, msg)
	case msg.Room == s.room && s.state == StateJoining:
		// History fetch still in flight: hold the event, merge after.
		s.buffered = append(s.buffered, msg)
	default:
		// Not on screen: the sender is the peer of that room.
		s.mu.Unlock()
		s.unread.Increment(msg.Sender)
		s.update()
		return
	}
	s.mu.Unlock()

	s.update()
}

// Send appends the message optimistically and emits it. While Joining the
// emission is deferred until the history merge completes; the optimistic entry
// is visible immediately either way. From Idle it returns ErrNotJoined.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state != StateActive && s.state != StateJoining {
		s.mu.Unlock()
		return ErrNotJoined
	}

	msg := models.ChatMessage{
		Text:     text,
		Sender:   s.self,
		Receiver: s.peerID,
		Room:     s.room,
		LocalID:  uuid.New(),
		Delivery: models.StatePending,
	}
	s.transcript = append(s.transcript, msg)

	if s.state == StateJoining {
		s.queued = append(s.queued, msg.LocalID)
		s.mu.Unlock()
		s.update()
		return nil
	}
	s.mu.Unlock()

	err := s.emitLocal(msg.LocalID)
	s.update()
	return err
}

// emitLocal sends the optimistic entry with the given local id and settles its
// delivery state on the emit outcome. The entry is never removed: a failed
// send stays visible, flagged, for the user to judge.
func (s *Session) emitLocal(localID uuid.UUID) error {
	s.mu.Lock()
	idx := -1
	for i := range s.transcript {
		if s.transcript[i].LocalID == localID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return nil
	}
	wire := models.ChatMessage{
		Text:     s.transcript[idx].Text,
		Sender:   s.transcript[idx].Sender,
		Receiver: s.transcript[idx].Receiver,
		Room:     s.transcript[idx].Room,
	}
	s.mu.Unlock()

	err := s.conn.Emit(socket.EventSendMessage, wire)

	s.mu.Lock()
	for i := range s.transcript {
		if s.transcript[i].LocalID == localID {
			if err != nil {
				s.transcript[i].Delivery = models.StateFailed
			} else {
				s.transcript[i].Delivery = models.StateSent
			}
			break
		}
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("Session: Emit send_message for room %s failed: %v", wire.Room, err)
	}
	return err
}

// Leave deselects the current peer: emit leave, clear state, back to Idle.
func (s *Session) Leave() {
	s.mu.Lock()
	s.leaveLocked()
	s.mu.Unlock()
	s.update()
}

// Close leaves any open room and detaches the receive listener. The session is
// unusable afterwards; the underlying connection stays open for other owners.
func (s *Session) Close() {
	s.Leave()
	if s.detachReceive != nil {
		s.detachReceive()
	}
}

// leaveLocked must be called with the session lock held.
func (s *Session) leaveLocked() {
	if s.state == StateIdle {
		return
	}
	s.state = StateLeaving
	if err := s.conn.Emit(socket.EventLeaveRoom, socket.RoomPayload{Room: s.room}); err != nil {
		log.Printf("Session: Emit leave_room for %s failed: %v", s.room, err)
	}
	s.peerID = ""
	s.room = ""
	s.transcript = nil
	s.buffered = nil
	s.queued = nil
	s.state = StateIdle
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Peer returns the currently selected peer id, empty when Idle.
func (s *Session) Peer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerID
}

// Room returns the currently resolved room id, empty when Idle.
func (s *Session) Room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// Transcript returns a copy of the visible message list, oldest first.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) update() {
	if s.OnUpdate != nil {
		s.OnUpdate()
	}
}
