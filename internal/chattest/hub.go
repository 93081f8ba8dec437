package chattest

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/adirkandabi/LinkSpark/internal/models"
	"github.com/adirkandabi/LinkSpark/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (s *Server) handleSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID, ok := s.userIDFromToken(tokenString)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("chattest: Failed to upgrade connection for user %s: %v", userID, err)
		return
	}

	cl := &client{userID: userID, conn: conn, send: make(chan []byte, 64)}

	s.mu.Lock()
	if s.clients[userID] == nil {
		s.clients[userID] = make(map[*client]bool)
	}
	s.clients[userID][cl] = true
	s.mu.Unlock()

	go cl.writePump()
	s.readLoop(cl)
}

func (cl *client) writePump() {
	for data := range cl.send {
		_ = cl.conn.WriteMessage(websocket.TextMessage, data)
	}
}

func (s *Server) readLoop(cl *client) {
	defer func() {
		s.dropClient(cl)
		close(cl.send)
		_ = cl.conn.Close()
	}()

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}

		var env socket.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.push(cl, socket.EventError, socket.ErrorPayload{Message: "Invalid message format"})
			continue
		}

		switch env.Type {
		case socket.EventJoinRoom:
			var p socket.RoomPayload
			if json.Unmarshal(env.Payload, &p) == nil && p.Room != "" {
				s.joinRoom(cl, p.Room)
			}

		case socket.EventLeaveRoom:
			var p socket.RoomPayload
			if json.Unmarshal(env.Payload, &p) == nil && p.Room != "" {
				s.leaveRoom(cl, p.Room)
			}

		case socket.EventSendMessage:
			var msg models.ChatMessage
			if json.Unmarshal(env.Payload, &msg) == nil && msg.Room != "" {
				s.deliverMessage(cl, msg)
			}

		case socket.EventMarkAsRead:
			var p socket.MarkAsReadPayload
			if json.Unmarshal(env.Payload, &p) == nil && p.Room != "" && p.Receiver != "" {
				s.markAsRead(p.Room, p.Receiver)
			}

		default:
			s.push(cl, socket.EventError, socket.ErrorPayload{Message: "Unknown message type"})
		}
	}
}

func (s *Server) joinRoom(cl *client, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[room] == nil {
		s.members[room] = make(map[*client]bool)
	}
	s.members[room][cl] = true
}

func (s *Server) leaveRoom(cl *client, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if members, ok := s.members[room]; ok {
		delete(members, cl)
		if len(members) == 0 {
			delete(s.members, room)
		}
	}
}

func (s *Server) dropClient(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for room, members := range s.members {
		delete(members, cl)
		if len(members) == 0 {
			delete(s.members, room)
		}
	}
	if userClients, ok := s.clients[cl.userID]; ok {
		delete(userClients, cl)
		if len(userClients) == 0 {
			delete(s.clients, cl.userID)
		}
	}
}

// deliverMessage stores the message, broadcasts it to room members except the
// sender, and bumps the receiver's unread count when they are not in the room.
func (s *Server) deliverMessage(cl *client, msg models.ChatMessage) {
	msg.Sender = cl.userID
	msg.Timestamp = models.JSONTime(time.Now())

	data, err := marshalEvent(socket.EventReceiveMessage, msg)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.history[msg.Room] = append(s.history[msg.Room], msg)

	receiverInRoom := false
	for member := range s.members[msg.Room] {
		if member.userID == cl.userID {
			continue // no echo to the sender
		}
		if member.userID == msg.Receiver {
			receiverInRoom = true
		}
		select {
		case member.send <- data:
		default:
		}
	}

	var nudge []byte
	var nudgeTargets []*client
	if msg.Receiver != "" && !receiverInRoom {
		if s.unread[msg.Receiver] == nil {
			s.unread[msg.Receiver] = make(map[string]int)
		}
		s.unread[msg.Receiver][msg.Sender]++
		total := 0
		for _, n := range s.unread[msg.Receiver] {
			total += n
		}
		nudge, _ = marshalEvent(socket.EventUnreadCount, socket.UnreadCountPayload{Count: total})
		for c := range s.clients[msg.Receiver] {
			nudgeTargets = append(nudgeTargets, c)
		}
	}
	s.mu.Unlock()

	for _, c := range nudgeTargets {
		select {
		case c.send <- nudge:
		default:
		}
	}
}

func (s *Server) markAsRead(room, receiver string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unread[receiver] == nil {
		return
	}
	for _, participant := range strings.Split(room, "_") {
		if participant != receiver {
			delete(s.unread[receiver], participant)
		}
	}
}

func (s *Server) push(cl *client, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		return
	}
	select {
	case cl.send <- data:
	default:
	}
}

func marshalEvent(event string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(socket.Envelope{Type: event, Payload: raw})
}
