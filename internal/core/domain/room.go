package domain

// ConnectionID identifies one live websocket connection. It is minted on
// handshake and never reused; a reconnecting client gets a fresh one.
type ConnectionID string

// RoomID is the consultation/appointment identifier a room is keyed by.
// The client supplies it in the join event; the server treats it as opaque.
type RoomID string

// Participant is the authenticated identity attached to a connection.
// Verification happened upstream; the signaling layer only carries it.
type Participant struct {
	ConnectionID ConnectionID
	UserID       string
	DisplayName  string
	Role         UserRole
}

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleLawyer UserRole = "lawyer"
	RoleAdmin  UserRole = "admin"
)
