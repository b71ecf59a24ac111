package core

import (
	"sync"

	"github.com/vovakirdan/sketchroom-server/internal/utils"
)

// Registry owns the roomId -> Room table. Rooms are created on demand (a join
// to an unknown id creates it) and removed as soon as they become empty.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create generates a fresh room code, inserts an empty room under it and
// returns the code. Generation is retried until a non-colliding code is found.
func (reg *Registry) Create() string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for {
		id := utils.NewRoomCode()
		if _, exists := reg.rooms[id]; exists {
			continue
		}
		reg.rooms[id] = NewRoom(id)
		return id
	}
}

// GetOrCreate returns the room for id, inserting an empty one if absent.
func (reg *Registry) GetOrCreate(id string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if room, exists := reg.rooms[id]; exists {
		return room
	}
	room := NewRoom(id)
	reg.rooms[id] = room
	return room
}

// Get is a non-creating lookup.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, exists := reg.rooms[id]
	return room, exists
}

// Remove deletes the entry for id. Removing an unknown id is a no-op.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// RemoveIfEmpty sweeps the table and removes every room with zero players.
// Returns the number of rooms removed.
func (reg *Registry) RemoveIfEmpty() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	removed := 0
	for id, room := range reg.rooms {
		if room.IsEmpty() {
			delete(reg.rooms, id)
			removed++
		}
	}
	return removed
}

// RoomIDs returns a snapshot of the live room ids.
func (reg *Registry) RoomIDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	return ids
}

// RoomStatus is a read-only view of one room for reporting endpoints.
type RoomStatus struct {
	Players   []string
	HasCanvas bool
}

// Stats is a point-in-time snapshot of the whole registry.
type Stats struct {
	Rooms        map[string]RoomStatus
	TotalPlayers int
}

// Snapshot copies the registry state for status queries. It never blocks
// event processing for longer than the copy itself.
func (reg *Registry) Snapshot() Stats {
	reg.mu.RLock()
	rooms := make(map[string]*Room, len(reg.rooms))
	for id, room := range reg.rooms {
		rooms[id] = room
	}
	reg.mu.RUnlock()

	stats := Stats{Rooms: make(map[string]RoomStatus, len(rooms))}
	for id, room := range rooms {
		players := room.Players()
		_, hasCanvas := room.Canvas()
		stats.Rooms[id] = RoomStatus{Players: players, HasCanvas: hasCanvas}
		stats.TotalPlayers += len(players)
	}
	return stats
}
