package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/config"
	"github.com/vovakirdan/sketchroom-server/internal/core"
	"github.com/vovakirdan/sketchroom-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	gateway := core.NewGateway(&logger)
	server := NewServer(gateway, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/drawing"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Message {
	t.Helper()

	var msg proto.Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read ws message: %v", err)
	}
	return msg
}

func TestWebSocketJoinAndDraw(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialWS(t, ctx, ts)
	defer connB.Close(websocket.StatusNormalClosure, "done")

	join := func(conn *websocket.Conn, name string) {
		err := wsjson.Write(ctx, conn, proto.Message{Type: proto.TypeJoinRoom, RoomID: "WS1", PlayerName: name})
		if err != nil {
			t.Fatalf("write join: %v", err)
		}
	}

	join(connA, "alice")
	if msg := readMessage(t, ctx, connA); msg.Type != proto.TypePlayerListUpdate || msg.PlayerName != "alice" {
		t.Fatalf("unexpected roster for alice: %+v", msg)
	}

	join(connB, "bob")
	if msg := readMessage(t, ctx, connB); msg.Type != proto.TypePlayerListUpdate || msg.PlayerName != "alice,bob" {
		t.Fatalf("unexpected roster for bob: %+v", msg)
	}
	if msg := readMessage(t, ctx, connA); msg.Type != proto.TypePlayerListUpdate || msg.PlayerName != "alice,bob" {
		t.Fatalf("alice missed roster update: %+v", msg)
	}

	err := wsjson.Write(ctx, connA, proto.Message{
		Type:   proto.TypeDrawingAction,
		RoomID: "WS1",
		Action: &proto.DrawingAction{Tool: "brush", Color: "#00ff00", Size: 3, StartX: 1, StartY: 1, EndX: 2, EndY: 2},
	})
	if err != nil {
		t.Fatalf("write action: %v", err)
	}

	msg := readMessage(t, ctx, connB)
	if msg.Type != proto.TypeDrawingAction || msg.Action == nil || msg.Action.Color != "#00ff00" {
		t.Fatalf("bob missed drawing action: %+v", msg)
	}
}

func TestWebSocketMalformedPayloadKeepsConnection(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if err := conn.Write(ctx, websocket.MessageText, []byte("this is not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	msg := readMessage(t, ctx, conn)
	if msg.Error == "" {
		t.Fatalf("expected error reply, got %+v", msg)
	}

	// Connection must stay usable after a decode error.
	if err := wsjson.Write(ctx, conn, proto.Message{Type: proto.TypeJoinRoom, RoomID: "WS2", PlayerName: "alice"}); err != nil {
		t.Fatalf("write join after decode error: %v", err)
	}
	msg = readMessage(t, ctx, conn)
	if msg.Type != proto.TypePlayerListUpdate || msg.PlayerName != "alice" {
		t.Fatalf("join after decode error failed: %+v", msg)
	}
}

func TestWebSocketDisconnectLeavesRoom(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialWS(t, ctx, ts)

	if err := wsjson.Write(ctx, connA, proto.Message{Type: proto.TypeJoinRoom, RoomID: "WS3", PlayerName: "alice"}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	readMessage(t, ctx, connA) // roster "alice"

	if err := wsjson.Write(ctx, connB, proto.Message{Type: proto.TypeJoinRoom, RoomID: "WS3", PlayerName: "bob"}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	readMessage(t, ctx, connB) // roster "alice,bob"
	readMessage(t, ctx, connA) // roster "alice,bob"

	connB.Close(websocket.StatusNormalClosure, "bye")

	msg := readMessage(t, ctx, connA)
	if msg.Type != proto.TypePlayerListUpdate || msg.PlayerName != "alice" {
		t.Fatalf("alice missed roster after bob disconnected: %+v", msg)
	}
}
