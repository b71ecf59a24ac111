package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/core"
	"github.com/vovakirdan/sketchroom-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core sessions.
type WSHandler struct {
	gateway *core.Gateway
	log     *zerolog.Logger
}

// NewWSHandler builds the WebSocket drawing endpoint handler.
func NewWSHandler(gateway *core.Gateway, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{gateway: gateway, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	session := core.NewSession()
	h.log.Info().Str("session_id", session.ID).Msg("ws connection opened")
	// Runs after the loops exit, strictly ordered behind every event this
	// session already dispatched.
	defer h.gateway.Disconnect(session)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, session)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("session_id", session.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
	h.log.Info().Str("session_id", session.ID).Msg("ws connection closed")
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var msg proto.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Warn().Err(err).Str("session_id", session.ID).Msg("malformed ws payload")
			// Reply goes through the session channel so the write loop stays
			// the only writer on the connection.
			h.replyError(session)
			continue
		}

		h.gateway.Dispatch(session, msg)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		select {
		case msg := <-session.Out:
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				h.log.Error().Err(err).Str("session_id", session.ID).Msg("write ws message")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) replyError(session *core.Session) {
	select {
	case session.Out <- proto.ErrorReply(core.ErrMsgInvalidFormat):
	default:
	}
}
