package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mkazancev/relaychat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8000/ws", "WebSocket address")
	user := flag.String("user", "tester", "identity to bind")
	to := flag.String("to", "tester", "recipient of the test message")
	body := flag.String("body", "hello from smoke test", "message body to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	mustSend := func(inboundType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", inboundType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: inboundType, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", inboundType, err)
		}
		return nil
	}

	if err := mustSend(proto.InboundTypeIdentify, proto.IdentifyData{User: *user}); err != nil {
		return err
	}
	if err := mustSend(proto.InboundTypeChatSend, proto.ChatSendData{To: *to, Body: *body}); err != nil {
		return err
	}

	// The presence snapshot proves the identify round trip; a chat.receive
	// only comes back when the recipient is this same connection.
	wantReceive := *to == *user
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received outbound: type=%s", outbound.Type)
		if outbound.Event != "" {
			fmt.Printf(" event=%s", outbound.Event)
		}
		fmt.Println()

		if outbound.Error != nil {
			return fmt.Errorf("server error: %s (%s)", outbound.Error.Msg, outbound.Error.Code)
		}

		raw, err := json.Marshal(outbound.Data)
		if err != nil {
			return fmt.Errorf("marshal outbound data: %w", err)
		}

		switch outbound.Event {
		case proto.EventChatReceive:
			var evt proto.EventMessage
			if unmarshalErr := json.Unmarshal(raw, &evt); unmarshalErr != nil {
				fmt.Printf("Raw data: %s\n", string(raw))
				return fmt.Errorf("unmarshal message: %w", unmarshalErr)
			}
			fmt.Printf("EventMessage: id=%d from=%s to=%s body=%q ts=%d\n", evt.ID, evt.From, evt.To, evt.Body, evt.TS)
			return nil
		case proto.EventPresenceUpdate:
			var evt proto.EventPresence
			if unmarshalErr := json.Unmarshal(raw, &evt); unmarshalErr == nil {
				for _, u := range evt.Users {
					fmt.Printf("Presence: user=%s online=%t unseen=%d\n", u.User, u.Online, u.Unseen)
				}
			}
			if !wantReceive {
				return nil
			}
		}
	}
}
