package proto

// Message kinds carried in the envelope Type field.
const (
	TypeJoinRoom            = "JOIN_ROOM"
	TypeLeaveRoom           = "LEAVE_ROOM"
	TypeCanvasUpdate        = "CANVAS_UPDATE"
	TypeForceCanvasUpdate   = "FORCE_CANVAS_UPDATE"
	TypeDrawingAction       = "DRAWING_ACTION"
	TypeClearCanvas         = "CLEAR_CANVAS"
	TypePlayerListUpdate    = "PLAYER_LIST_UPDATE"
	TypeFloatingImageAdd    = "FLOATING_IMAGE_ADD"
	TypeFloatingImageRemove = "FLOATING_IMAGE_REMOVE"
)

// Message is the flat JSON envelope used in both directions. Every field is
// optional; which ones are populated depends on Type. In PLAYER_LIST_UPDATE
// the PlayerName field carries the comma-joined roster. An error reply
// carries only Error, so it marshals to the minimal {"error":"..."} shape.
type Message struct {
	Type        string         `json:"type,omitempty"`
	RoomID      string         `json:"roomId,omitempty"`
	PlayerName  string         `json:"playerName,omitempty"`
	CanvasData  string         `json:"canvasData,omitempty"`
	Action      *DrawingAction `json:"drawingAction,omitempty"`
	ImageData   string         `json:"imageData,omitempty"`
	ImageID     string         `json:"imageId,omitempty"`
	ImageX      float64        `json:"imageX,omitempty"`
	ImageY      float64        `json:"imageY,omitempty"`
	ImageWidth  float64        `json:"imageWidth,omitempty"`
	ImageHeight float64        `json:"imageHeight,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// DrawingAction is a single transient stroke segment. It is relayed verbatim
// to the rest of the room and never stored server-side.
type DrawingAction struct {
	Tool    string  `json:"tool"`
	Color   string  `json:"color"`
	Size    int     `json:"size"`
	StartX  float64 `json:"startX"`
	StartY  float64 `json:"startY"`
	EndX    float64 `json:"endX"`
	EndY    float64 `json:"endY"`
	IsStart bool    `json:"isStart"`
	IsEnd   bool    `json:"isEnd"`
}

// ErrorReply builds the minimal error message sent back to the originating
// session only.
func ErrorReply(msg string) Message {
	return Message{Error: msg}
}
