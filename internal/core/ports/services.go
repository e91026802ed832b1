package ports

import "lawlink/internal/core/domain"

// RoomRegistry is the live mapping between connections and rooms. Join
// reports whether the connection was the room's first member; Leave and
// LeaveAll report which rooms drained back to empty.
type RoomRegistry interface {
	Join(conn domain.ConnectionID, room domain.RoomID) bool
	Leave(conn domain.ConnectionID, room domain.RoomID) bool
	LeaveAll(conn domain.ConnectionID) (left, drained []domain.RoomID)
	Members(room domain.RoomID) []domain.ConnectionID
	Rooms() map[domain.RoomID]int
}

// ConnectionSender delivers one event to one live connection. Implemented by
// the websocket hub; the relay never touches the connection map directly.
type ConnectionSender interface {
	Send(conn domain.ConnectionID, event *domain.Outbound) error
	IsConnected(conn domain.ConnectionID) bool
}

// EventRelay fans an event out to every other current member of a room.
// Delivery is best-effort: a recipient that dropped between the membership
// snapshot and the send is skipped silently. Returns the delivered count.
type EventRelay interface {
	Forward(room domain.RoomID, from domain.ConnectionID, kind domain.EventKind, payload interface{}) int
}

// PresenceTracker receives the two membership transitions that matter:
// a room going 0 to 1 and a room draining back to 0. Both trigger a
// fire-and-forget recorder call; neither blocks the caller.
type PresenceTracker interface {
	RoomOccupied(room domain.RoomID)
	RoomDrained(room domain.RoomID)
}
