package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/proto"
)

func newTestGateway() *Gateway {
	logger := zerolog.Nop()
	return NewGateway(&logger)
}

func joinMsg(roomID, name string) proto.Message {
	return proto.Message{Type: proto.TypeJoinRoom, RoomID: roomID, PlayerName: name}
}

// nextMessage returns the next outbound message for the session, in order.
func nextMessage(t *testing.T, s *Session) proto.Message {
	t.Helper()

	select {
	case msg := <-s.Out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a message for session %s, got none", s.ID)
	}
	return proto.Message{}
}

// noMessage asserts the session's outbound channel stays quiet.
func noMessage(t *testing.T, s *Session) {
	t.Helper()

	select {
	case msg := <-s.Out:
		t.Fatalf("expected no message for session %s, got %+v", s.ID, msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func drain(s *Session) {
	for {
		select {
		case <-s.Out:
		default:
			return
		}
	}
}
