package core

import (
	"sort"
	"sync"
	"time"
)

// FloatingImage is a positioned, resizable image overlay tracked independently
// of the canvas snapshot.
type FloatingImage struct {
	ID     string
	Data   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Room holds the authoritative state of one collaboration space: the player
// roster, the last full canvas snapshot, and the floating-image overlays.
// All methods are safe for concurrent use; higher-level read-modify-broadcast
// ordering is the Gateway's job.
type Room struct {
	ID string

	mu           sync.Mutex
	players      map[string]struct{}
	canvas       string
	images       map[string]FloatingImage
	lastActivity time.Time
}

// NewRoom constructs an empty room with the given id.
func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		players:      make(map[string]struct{}),
		images:       make(map[string]FloatingImage),
		lastActivity: time.Now(),
	}
}

// AddPlayer inserts a display name into the roster. Returns false if the name
// is already taken in this room.
func (r *Room) AddPlayer(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[name]; exists {
		return false
	}
	r.players[name] = struct{}{}
	r.lastActivity = time.Now()
	return true
}

// RemovePlayer deletes a display name from the roster. Removing a non-member
// is a no-op.
func (r *Room) RemovePlayer(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, name)
	r.lastActivity = time.Now()
}

// HasPlayer reports whether the display name is taken in this room.
func (r *Room) HasPlayer(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.players[name]
	return exists
}

// Players returns a sorted copy of the roster.
func (r *Room) Players() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.players))
	for name := range r.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlayerCount returns the roster size.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// IsEmpty returns true when no players remain.
func (r *Room) IsEmpty() bool {
	return r.PlayerCount() == 0
}

// SetCanvas replaces the canvas snapshot wholesale. An empty string clears it.
func (r *Room) SetCanvas(data string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas = data
	r.lastActivity = time.Now()
}

// Canvas returns the current snapshot and whether one exists.
func (r *Room) Canvas() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas, r.canvas != ""
}

// UpsertImage inserts or overwrites a floating image by its id.
func (r *Room) UpsertImage(img FloatingImage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[img.ID] = img
	r.lastActivity = time.Now()
}

// RemoveImage deletes a floating image. Removing an unknown id is a no-op.
func (r *Room) RemoveImage(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, id)
	r.lastActivity = time.Now()
}

// ClearImages drops every floating image.
func (r *Room) ClearImages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = make(map[string]FloatingImage)
	r.lastActivity = time.Now()
}

// Images returns a copy of the floating-image set. Order is unspecified.
func (r *Room) Images() []FloatingImage {
	r.mu.Lock()
	defer r.mu.Unlock()
	imgs := make([]FloatingImage, 0, len(r.images))
	for _, img := range r.images {
		imgs = append(imgs, img)
	}
	return imgs
}

// LastActivity returns the time of the most recent mutation.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}
