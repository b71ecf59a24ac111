package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/core"
)

// RoomHandlers provides the REST endpoints around the room registry. These
// are read-only snapshots plus room creation; live traffic stays on the
// WebSocket endpoint.
type RoomHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(registry *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		registry: registry,
		log:      logger,
	}
}

// CreateRoomResponse carries a freshly generated room code.
type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

// RoomInfo describes one room in status responses.
type RoomInfo struct {
	Players     []string `json:"players"`
	PlayerCount int      `json:"playerCount"`
	HasCanvas   bool     `json:"hasCanvas"`
}

// CreateRoom generates a fresh room code and registers an empty room for it.
// POST /api/rooms/create
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	roomID := h.registry.Create()
	h.log.Info().Str("room_id", roomID).Msg("room created")
	c.JSON(http.StatusOK, CreateRoomResponse{RoomID: roomID})
}

// Health is a plain liveness check.
// GET /api/rooms/health
func (h *RoomHandlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "drawing service is running")
}

// Status reports active room and player counts with per-room detail.
// GET /api/rooms/status
func (h *RoomHandlers) Status(c *gin.Context) {
	stats := h.registry.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"activeRooms":  len(stats.Rooms),
		"totalPlayers": stats.TotalPlayers,
		"rooms":        roomInfos(stats),
	})
}

// Users reports the same snapshot in a user-centric shape.
// GET /api/rooms/users
func (h *RoomHandlers) Users(c *gin.Context) {
	stats := h.registry.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":  stats.TotalPlayers,
		"activeRooms": len(stats.Rooms),
		"roomDetails": roomInfos(stats),
	})
}

func roomInfos(stats core.Stats) map[string]RoomInfo {
	infos := make(map[string]RoomInfo, len(stats.Rooms))
	for id, status := range stats.Rooms {
		infos[id] = RoomInfo{
			Players:     status.Players,
			PlayerCount: len(status.Players),
			HasCanvas:   status.HasCanvas,
		}
	}
	return infos
}
