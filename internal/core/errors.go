package core

// Human-readable error strings sent to the originating session only.
// None of these is fatal: a bad event degrades to a no-op plus a reply.
const (
	ErrMsgNameTaken     = "name already taken in this room"
	ErrMsgNotInRoom     = "not a member of this room"
	ErrMsgInvalidFormat = "invalid message format"
	ErrMsgUnknownType   = "unknown message type"
)
