package socket

import "encoding/json"

// Event types carried over the persistent connection. The server owns the
// vocabulary; the client only speaks these.
const (
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventMarkAsRead     = "mark_as_read"
	EventUnreadCount    = "unread_count"
	EventError          = "error"
)

// Envelope is the generic wrapper for all messages on the socket.
// The Type field determines how the Payload is interpreted.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomPayload carries a bare room id (join_room / leave_room).
type RoomPayload struct {
	Room string `json:"room"`
}

// MarkAsReadPayload asks the server to zero the unread counters of a room for
// the given receiver.
type MarkAsReadPayload struct {
	Room     string `json:"room"`
	Receiver string `json:"receiver"`
}

// UnreadCountPayload is the server's unread push. The count is advisory: the
// client treats it as a nudge to refetch the authoritative summary.
type UnreadCountPayload struct {
	Count int `json:"count"`
}

// ErrorPayload carries error details pushed by the server.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}
