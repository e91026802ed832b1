package domain

import (
	"encoding/json"
	"time"
)

// EventKind is the wire-level event name. The hyphenated spellings are part
// of the client contract and must not change.
type EventKind string

const (
	EventJoinConsultation EventKind = "join-consultation"
	EventUserJoined       EventKind = "user-joined"
	EventUserLeft         EventKind = "user-left"
	EventOffer            EventKind = "offer"
	EventAnswer           EventKind = "answer"
	EventICECandidate     EventKind = "ice-candidate"
	EventChatMessage      EventKind = "chat-message"
	EventTyping           EventKind = "typing"
	EventError            EventKind = "error"
)

// Envelope is the inbound frame: every client message names its kind and the
// room it belongs to. The payload stays opaque until (and unless) a handler
// needs to look inside it.
type Envelope struct {
	Type    EventKind       `json:"type"`
	RoomID  RoomID          `json:"room_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is what the other room members receive: the sender's payload
// decorated with sender identity and a server-generated timestamp.
type Outbound struct {
	Type      EventKind    `json:"type"`
	RoomID    RoomID       `json:"room_id,omitempty"`
	From      ConnectionID `json:"from,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload,omitempty"`
}

// UserJoinedPayload announces a new room member to the existing ones.
type UserJoinedPayload struct {
	ConnectionID ConnectionID `json:"connection_id"`
	DisplayName  string       `json:"display_name"`
	Role         UserRole     `json:"role,omitempty"`
}

// UserLeftPayload announces a departed member.
type UserLeftPayload struct {
	ConnectionID ConnectionID `json:"connection_id"`
}

// ChatPayload carries an in-consultation chat message.
type ChatPayload struct {
	Message string `json:"message"`
}

// TypingPayload carries a typing indicator between two identified users.
type TypingPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}
