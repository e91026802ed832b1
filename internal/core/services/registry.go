package services

import (
	"sync"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"
)

// roomRegistry keeps the forward (room -> members) and reverse
// (connection -> rooms) indexes under one mutex so the two can never be
// observed out of sync. Rooms exist only while they have members: the entry
// is deleted the moment the last member leaves.
type roomRegistry struct {
	mu      sync.RWMutex
	members map[domain.RoomID]map[domain.ConnectionID]struct{}
	rooms   map[domain.ConnectionID]map[domain.RoomID]struct{}
}

func NewRoomRegistry() ports.RoomRegistry {
	return &roomRegistry{
		members: make(map[domain.RoomID]map[domain.ConnectionID]struct{}),
		rooms:   make(map[domain.ConnectionID]map[domain.RoomID]struct{}),
	}
}

func (r *roomRegistry) Join(conn domain.ConnectionID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, exists := r.members[room]
	if !exists {
		set = make(map[domain.ConnectionID]struct{})
		r.members[room] = set
	}
	first := len(set) == 0
	set[conn] = struct{}{}

	if _, ok := r.rooms[conn]; !ok {
		r.rooms[conn] = make(map[domain.RoomID]struct{})
	}
	r.rooms[conn][room] = struct{}{}

	return first
}

func (r *roomRegistry) Leave(conn domain.ConnectionID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(conn, room)
}

func (r *roomRegistry) leaveLocked(conn domain.ConnectionID, room domain.RoomID) bool {
	set, exists := r.members[room]
	if !exists {
		return false
	}
	if _, member := set[conn]; !member {
		return false
	}
	delete(set, conn)
	if rooms, ok := r.rooms[conn]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.rooms, conn)
		}
	}
	if len(set) == 0 {
		delete(r.members, room)
		return true
	}
	return false
}

func (r *roomRegistry) LeaveAll(conn domain.ConnectionID) (left, drained []domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.rooms[conn] {
		left = append(left, room)
		if r.leaveLocked(conn, room) {
			drained = append(drained, room)
		}
	}
	return left, drained
}

func (r *roomRegistry) Members(room domain.RoomID) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.members[room]
	out := make([]domain.ConnectionID, 0, len(set))
	for conn := range set {
		out = append(out, conn)
	}
	return out
}

func (r *roomRegistry) Rooms() map[domain.RoomID]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.RoomID]int, len(r.members))
	for room, set := range r.members {
		out[room] = len(set)
	}
	return out
}
