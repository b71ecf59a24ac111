package core

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/proto"
)

// Gateway consumes decoded inbound messages, validates them against the
// registry and directory, mutates room state and fans the result out to the
// room's subscribers.
//
// All reads and writes touching one room's state and fan-out list happen
// under that room's shard lock, so no two mutating operations on the same
// room interleave their read-modify-broadcast sequence. Events from a single
// session arrive in order because the transport's read loop is serial, and a
// disconnect is dispatched only after the loop exits.
type Gateway struct {
	registry  *Registry
	directory *Directory
	locks     keyedMutex
	log       *zerolog.Logger
}

// NewGateway constructs a gateway with an empty registry and directory.
func NewGateway(logger *zerolog.Logger) *Gateway {
	return &Gateway{
		registry:  NewRegistry(),
		directory: NewDirectory(),
		log:       logger,
	}
}

// Registry exposes the room table for the REST reporting endpoints.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Dispatch routes one decoded inbound message from a session.
func (g *Gateway) Dispatch(s *Session, msg proto.Message) {
	switch msg.Type {
	case proto.TypeJoinRoom:
		g.handleJoin(s, msg)
	case proto.TypeLeaveRoom:
		g.handleLeave(s)
	case proto.TypeCanvasUpdate:
		g.handleCanvasUpdate(s, msg, proto.TypeCanvasUpdate)
	case proto.TypeForceCanvasUpdate:
		g.handleCanvasUpdate(s, msg, proto.TypeForceCanvasUpdate)
	case proto.TypeDrawingAction:
		g.handleDrawingAction(s, msg)
	case proto.TypeClearCanvas:
		g.handleClearCanvas(s, msg)
	case proto.TypeFloatingImageAdd:
		g.handleImageAdd(s, msg)
	case proto.TypeFloatingImageRemove:
		g.handleImageRemove(s, msg)
	default:
		g.log.Debug().Str("session_id", s.ID).Str("type", msg.Type).Msg("unknown message type")
		g.send(s, proto.ErrorReply(ErrMsgUnknownType))
	}
}

// Disconnect runs the leave path for a closing connection. Safe to call for
// sessions that never joined a room.
func (g *Gateway) Disconnect(s *Session) {
	g.handleLeave(s)
}

func (g *Gateway) handleJoin(s *Session, msg proto.Message) {
	roomID, name := msg.RoomID, msg.PlayerName
	if roomID == "" || name == "" {
		g.send(s, proto.ErrorReply(ErrMsgInvalidFormat))
		return
	}

	// The binding can only change from this session's own events, which are
	// serial, so reading it before taking the locks is safe.
	prevRoom, prevName, wasBound := g.directory.Binding(s)
	if wasBound && prevRoom != roomID {
		g.locks.LockPair(prevRoom, roomID)
		defer g.locks.UnlockPair(prevRoom, roomID)
	} else {
		g.locks.Lock(roomID)
		defer g.locks.Unlock(roomID)
	}

	// A collision leaves the session exactly where it was, including its
	// membership in the previous room.
	if room, exists := g.registry.Get(roomID); exists && room.HasPlayer(name) {
		g.log.Warn().Str("room_id", roomID).Str("player", name).Msg("join rejected, name taken")
		g.send(s, proto.ErrorReply(ErrMsgNameTaken))
		return
	}

	if wasBound {
		g.leaveLocked(s, prevRoom, prevName)
	}

	room := g.registry.GetOrCreate(roomID)
	room.AddPlayer(name)
	g.directory.Bind(s, roomID, name)

	// Catch the joiner up: canvas first, then the live overlays.
	if data, ok := room.Canvas(); ok {
		g.send(s, proto.Message{Type: proto.TypeCanvasUpdate, RoomID: roomID, CanvasData: data})
	}
	for _, img := range room.Images() {
		g.send(s, imageAddMessage(roomID, img))
	}

	g.broadcastPlayerList(roomID, room)
	g.log.Info().Str("room_id", roomID).Str("player", name).Str("session_id", s.ID).Msg("player joined room")
}

func (g *Gateway) handleLeave(s *Session) {
	roomID, name, bound := g.directory.Binding(s)
	if !bound {
		return
	}
	g.locks.Lock(roomID)
	defer g.locks.Unlock(roomID)
	g.leaveLocked(s, roomID, name)
	g.log.Info().Str("room_id", roomID).Str("player", name).Str("session_id", s.ID).Msg("player left room")
}

// leaveLocked performs the roster removal, unbind and follow-up broadcast.
// The caller holds the shard lock for roomID.
func (g *Gateway) leaveLocked(s *Session, roomID, name string) {
	room, exists := g.registry.Get(roomID)
	if exists {
		room.RemovePlayer(name)
	}
	g.directory.Unbind(s)
	if !exists {
		return
	}
	if room.IsEmpty() {
		g.registry.Remove(roomID)
		g.log.Debug().Str("room_id", roomID).Msg("removed empty room")
		return
	}
	g.broadcastPlayerList(roomID, room)
}

func (g *Gateway) handleCanvasUpdate(s *Session, msg proto.Message, outType string) {
	roomID := msg.RoomID
	g.locks.Lock(roomID)
	defer g.locks.Unlock(roomID)

	if !g.isMemberOf(s, roomID) {
		g.send(s, proto.ErrorReply(ErrMsgNotInRoom))
		return
	}
	room, exists := g.registry.Get(roomID)
	if !exists {
		return
	}
	room.SetCanvas(msg.CanvasData)
	g.broadcast(roomID, s, proto.Message{
		Type:       outType,
		RoomID:     roomID,
		CanvasData: msg.CanvasData,
	})
}

func (g *Gateway) handleDrawingAction(s *Session, msg proto.Message) {
	roomID := msg.RoomID
	g.locks.Lock(roomID)
	defer g.locks.Unlock(roomID)

	if !g.isMemberOf(s, roomID) {
		g.send(s, proto.ErrorReply(ErrMsgNotInRoom))
		return
	}
	// Transient: relayed verbatim, never persisted in room state.
	g.broadcast(roomID, s, msg)
}

func (g *Gateway) handleClearCanvas(s *Session, msg proto.Message) {
	roomID := msg.RoomID
	g.locks.Lock(roomID)
	defer g.locks.Unlock(roomID)

	if !g.isMemberOf(s, roomID) {
		g.send(s, proto.ErrorReply(ErrMsgNotInRoom))
		return
	}
	room, exists := g.registry.Get(roomID)
	if !exists {
		return
	}
	room.SetCanvas("")
	// The sender clears locally too, but gets the echo so every client
	// converges through the same message.
	g.broadcast(roomID, nil, proto.Message{Type: proto.TypeClearCanvas, RoomID: roomID})
}

func (g *Gateway) handleImageAdd(s *Session, msg proto.Message) {
	roomID := msg.RoomID
	if msg.ImageID == "" {
		g.send(s, proto.ErrorReply(ErrMsgInvalidFormat))
		return
	}
	g.locks.Lock(roomID)
	defer g.locks.Unlock(roomID)

	if !g.isMemberOf(s, roomID) {
		g.send(s, proto.ErrorReply(ErrMsgNotInRoom))
		return
	}
	room, exists := g.registry.Get(roomID)
	if !exists {
		return
	}
	room.UpsertImage(FloatingImage{
		ID:     msg.ImageID,
		Data:   msg.ImageData,
		X:      msg.ImageX,
		Y:      msg.ImageY,
		Width:  msg.ImageWidth,
		Height: msg.ImageHeight,
	})
	// Echoed to the sender as the add acknowledgment.
	g.broadcast(roomID, nil, msg)
}

func (g *Gateway) handleImageRemove(s *Session, msg proto.Message) {
	roomID := msg.RoomID
	g.locks.Lock(roomID)
	defer g.locks.Unlock(roomID)

	if room, exists := g.registry.Get(roomID); exists {
		room.RemoveImage(msg.ImageID)
	}
	g.broadcast(roomID, s, msg)
}

// SweepEmptyRooms removes rooms with no players, holding each room's shard
// lock so a sweep cannot race a join in progress. Advisory only: synchronous
// removal on last-leave already keeps empty rooms from persisting.
func (g *Gateway) SweepEmptyRooms() int {
	removed := 0
	for _, id := range g.registry.RoomIDs() {
		g.locks.Lock(id)
		if room, exists := g.registry.Get(id); exists && room.IsEmpty() {
			g.registry.Remove(id)
			removed++
		}
		g.locks.Unlock(id)
	}
	return removed
}

func (g *Gateway) isMemberOf(s *Session, roomID string) bool {
	boundRoom, _, bound := g.directory.Binding(s)
	return bound && boundRoom == roomID
}

// broadcast fans msg out to the room's subscriber snapshot, skipping exclude
// when non-nil.
func (g *Gateway) broadcast(roomID string, exclude *Session, msg proto.Message) {
	for _, sub := range g.directory.Subscribers(roomID) {
		if sub == exclude {
			continue
		}
		g.send(sub, msg)
	}
}

// broadcastPlayerList sends the committed roster to every subscriber. Called
// under the room's shard lock, so the roster always reflects the mutation
// that triggered it.
func (g *Gateway) broadcastPlayerList(roomID string, room *Room) {
	g.broadcast(roomID, nil, proto.Message{
		Type:       proto.TypePlayerListUpdate,
		RoomID:     roomID,
		PlayerName: strings.Join(room.Players(), ","),
	})
}

// send delivers best-effort: a full outbound buffer means the message is
// dropped and logged, never blocking the event in flight or the other
// recipients.
func (g *Gateway) send(s *Session, msg proto.Message) {
	select {
	case s.Out <- msg:
	default:
		g.log.Warn().Str("session_id", s.ID).Str("type", msg.Type).Msg("outbound buffer full, dropping message")
	}
}

func imageAddMessage(roomID string, img FloatingImage) proto.Message {
	return proto.Message{
		Type:        proto.TypeFloatingImageAdd,
		RoomID:      roomID,
		ImageID:     img.ID,
		ImageData:   img.Data,
		ImageX:      img.X,
		ImageY:      img.Y,
		ImageWidth:  img.Width,
		ImageHeight: img.Height,
	}
}
