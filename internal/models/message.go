package models

import (
	"github.com/google/uuid"
)

// DeliveryState tracks a locally-sent message through its optimistic lifecycle.
// Messages received from the server are always StateSent.
type DeliveryState string

const (
	StatePending DeliveryState = "pending"
	StateSent    DeliveryState = "sent"
	StateFailed  DeliveryState = "failed"
)

// ChatMessage is one message in a two-party room. Sender, Receiver and Room are
// the opaque identifiers the server uses; Timestamp is server-assigned and zero
// for messages that have not round-tripped yet.
type ChatMessage struct {
	Text      string   `json:"text"`
	Sender    string   `json:"sender"`
	Receiver  string   `json:"receiver,omitempty"`
	Room      string   `json:"room"`
	Timestamp JSONTime `json:"created_at,omitempty"`

	// LocalID and Delivery are client-side only: LocalID identifies an
	// optimistic entry until the transport settles it, Delivery records the
	// outcome. Neither is sent on the wire.
	LocalID  uuid.UUID     `json:"-"`
	Delivery DeliveryState `json:"-"`
}

// HistoryResponse is the payload of GET /messages/{room}.
type HistoryResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// UnreadEntry is one row of the viewer's unread summary.
type UnreadEntry struct {
	UserID      string `json:"user_id"`
	UnreadCount int    `json:"unread_count"`
}

// UnreadResponse is the payload of GET /messages/unread/{user}.
type UnreadResponse struct {
	Unread []UnreadEntry `json:"unread"`
}
