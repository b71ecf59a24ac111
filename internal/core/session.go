package core

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/sketchroom-server/internal/proto"
)

const outboundBuffer = 32

// Session is one live connection as seen by the core layer. The transport
// drains Out and writes each message to the underlying socket; the core never
// blocks on it.
type Session struct {
	ID  string
	Out chan proto.Message
}

// NewSession constructs a session with a fresh id and outbound buffer.
func NewSession() *Session {
	return &Session{
		ID:  uuid.NewString(),
		Out: make(chan proto.Message, outboundBuffer),
	}
}
