package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/mkazancev/relaychat-server/internal/auth"
	"github.com/mkazancev/relaychat-server/internal/config"
	"github.com/mkazancev/relaychat-server/internal/core"
	"github.com/mkazancev/relaychat-server/internal/proto"
	"github.com/mkazancev/relaychat-server/internal/store/sqlite"
)

func startTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	hub := core.NewHub(st, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authService, st, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, authService
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func sendFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", frameType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", frameType, err)
	}
}

type outboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// mustFrame reads frames until one with the wanted event name arrives.
func mustFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) outboundFrame {
	t.Helper()

	for {
		var out outboundFrame
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for %q: %v", event, err)
		}
		if out.Event == event || (event == "" && out.Type == proto.OutboundTypeError) {
			return out
		}
	}
}
