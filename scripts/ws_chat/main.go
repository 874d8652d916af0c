package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mkazancev/relaychat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8000/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "identity to bind")
	to := flag.String("to", "", "default recipient (override per line with 'name: text')")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(v interface{}) {
		if writeErr := wsjson.Write(ctx, conn, v); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	identifyPayload, err := json.Marshal(proto.IdentifyData{User: *user})
	if err != nil {
		return fmt.Errorf("marshal identify: %w", err)
	}
	send(proto.Inbound{Type: proto.InboundTypeIdentify, Data: identifyPayload})

	fmt.Printf("Connected to %s as %s\n", *addr, *user)
	fmt.Println("Type 'name: text' to message a user, or just text with -to set. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *to)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Error != nil {
			fmt.Printf("server error: %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			continue
		}

		raw, err := json.Marshal(outbound.Data)
		if err != nil {
			log.Printf("marshal outbound data: %v", err)
			continue
		}

		switch outbound.Event {
		case proto.EventChatReceive:
			var evt proto.EventMessage
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			fmt.Printf("%s: %s\n", evt.From, evt.Body)
		case proto.EventChatSeenAck:
			var evt proto.EventSeenAck
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal seen ack: %v", err)
				continue
			}
			fmt.Printf("%s has seen your messages\n", evt.From)
		case proto.EventPresenceUpdate:
			var evt proto.EventPresence
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal presence: %v", err)
				continue
			}
			parts := make([]string, 0, len(evt.Users))
			for _, u := range evt.Users {
				state := "offline"
				if u.Online {
					state = "online"
				}
				parts = append(parts, fmt.Sprintf("%s(%s,unseen=%d)", u.User, state, u.Unseen))
			}
			fmt.Printf("presence: %s\n", strings.Join(parts, " "))
		default:
			fmt.Printf("event=%s data=%s\n", outbound.Event, string(raw))
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, defaultTo string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			to := defaultTo
			if name, rest, found := strings.Cut(text, ":"); found && !strings.Contains(name, " ") {
				to = strings.TrimSpace(name)
				text = strings.TrimSpace(rest)
			}
			if to == "" || text == "" {
				fmt.Println("no recipient: use 'name: text' or pass -to")
				continue
			}

			payload, err := json.Marshal(proto.ChatSendData{To: to, Body: text})
			if err != nil {
				log.Printf("marshal send: %v", err)
				return
			}
			if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeChatSend, Data: payload}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
