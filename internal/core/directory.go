package core

import "sync"

type binding struct {
	roomID string
	name   string
}

// Directory tracks which room and display name each live session is bound to,
// plus the reverse index from room id to its subscriber set. The reverse index
// is the broadcast fan-out list and must stay consistent with the forward
// bindings; both are mutated only through Bind and Unbind.
type Directory struct {
	mu       sync.RWMutex
	sessions map[*Session]binding
	rooms    map[string]map[*Session]struct{}
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		sessions: make(map[*Session]binding),
		rooms:    make(map[string]map[*Session]struct{}),
	}
}

// Bind records the session's room and name and subscribes it to the room.
// Callers must have already added the name to the room's roster.
func (d *Directory) Bind(s *Session, roomID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[s] = binding{roomID: roomID, name: name}
	subs, exists := d.rooms[roomID]
	if !exists {
		subs = make(map[*Session]struct{})
		d.rooms[roomID] = subs
	}
	subs[s] = struct{}{}
}

// Unbind removes the session from its room's subscriber set and clears its
// binding, returning what it had so the caller can perform the matching
// roster removal. Unbinding an unbound session is a no-op.
func (d *Directory) Unbind(s *Session) (roomID, name string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, exists := d.sessions[s]
	if !exists {
		return "", "", false
	}
	delete(d.sessions, s)
	if subs, found := d.rooms[b.roomID]; found {
		delete(subs, s)
		if len(subs) == 0 {
			delete(d.rooms, b.roomID)
		}
	}
	return b.roomID, b.name, true
}

// Binding returns the session's current room and name, if bound.
func (d *Directory) Binding(s *Session) (roomID, name string, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, exists := d.sessions[s]
	if !exists {
		return "", "", false
	}
	return b.roomID, b.name, true
}

// Subscribers returns a snapshot of the sessions currently joined to roomID.
// The copy is the exact fan-out target list for one broadcast.
func (d *Directory) Subscribers(roomID string) []*Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	subs := d.rooms[roomID]
	out := make([]*Session, 0, len(subs))
	for s := range subs {
		out = append(out, s)
	}
	return out
}
