package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkazancev/relaychat-server/internal/store"
)

type inboundKind int

const (
	inboundRegister inboundKind = iota
	inboundUnregister
	inboundCommand
)

// inbound is one entry on the hub's single event stream. Connects,
// disconnects and commands share a channel so they are processed in
// arrival order.
type inbound struct {
	kind   inboundKind
	client *Client
	cmd    *Command
}

// Hub multiplexes all session events onto a single goroutine. The
// registry and message log are only touched from the run loop, so no
// operation ever observes partial state. Live pushes never block the
// loop; the durable log is the recovery path for anything dropped.
type Hub struct {
	registry *Registry
	store    store.Store
	log      zerolog.Logger

	clients map[*Client]struct{}
	events  chan inbound
}

// NewHub creates a hub backed by the given store.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry: NewRegistry(),
		store:    st,
		log:      logger.With().Str("component", "hub").Logger(),
		clients:  make(map[*Client]struct{}),
		events:   make(chan inbound, 64),
	}
}

// RegisterClient attaches a freshly connected session to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.events <- inbound{kind: inboundRegister, client: c}
}

// UnregisterClient detaches a session. Safe to call more than once.
func (h *Hub) UnregisterClient(c *Client) {
	h.events <- inbound{kind: inboundUnregister, client: c}
}

// Submit enqueues a command on behalf of a client.
func (h *Hub) Submit(c *Client, cmd *Command) {
	h.events <- inbound{kind: inboundCommand, client: c, cmd: cmd}
}

// Run processes events until ctx is cancelled. One event at a time.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case ev := <-h.events:
			switch ev.kind {
			case inboundRegister:
				h.clients[ev.client] = struct{}{}
			case inboundUnregister:
				h.handleDisconnect(ctx, ev.client)
			case inboundCommand:
				h.handleCommand(ctx, ev.client, ev.cmd)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleCommand(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandIdentify:
		h.handleIdentify(ctx, c, cmd)
	case CommandSendMessage:
		h.handleSend(ctx, c, cmd)
	case CommandMarkSeen:
		h.handleMarkSeen(ctx, c, cmd)
	case CommandCallOffer, CommandCallAnswer, CommandCallICE, CommandCallHangup:
		h.handleSignal(c, cmd)
	default:
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeInvalidMessage, "unknown command")})
	}
}

func (h *Hub) handleIdentify(ctx context.Context, c *Client, cmd *Command) {
	if cmd.Identity == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeValidation, ErrEmptyIdentity.Error())})
		return
	}

	if replaced := h.registry.Bind(c, cmd.Identity); replaced != nil {
		// Last writer wins; the old session stays connected but no
		// longer receives deliveries for this identity.
		replaced.Identity = ""
		h.log.Debug().
			Str("identity", cmd.Identity).
			Str("old_session", replaced.SessionID).
			Str("new_session", c.SessionID).
			Msg("identity rebound to new session")
	}

	h.log.Info().Str("identity", cmd.Identity).Str("session_id", c.SessionID).Msg("session identified")
	h.broadcastPresence(ctx)
}

func (h *Hub) handleDisconnect(ctx context.Context, c *Client) {
	if _, ok := h.clients[c]; !ok {
		// Duplicate disconnect for an already-removed session.
		return
	}
	delete(h.clients, c)

	removed := h.registry.Unbind(c)
	h.log.Info().
		Str("session_id", c.SessionID).
		Bool("presence_changed", removed).
		Msg("session disconnected")

	// Presence only changes when the binding was still ours.
	if removed {
		h.broadcastPresence(ctx)
	}
}

// handleSend persists the message before any delivery attempt: the log is
// the source of truth, the live push is a latency optimization only.
func (h *Hub) handleSend(ctx context.Context, c *Client, cmd *Command) {
	from := c.Identity
	if from == "" {
		from = cmd.From
	}
	if from == "" || cmd.To == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeValidation, ErrEmptyIdentity.Error())})
		return
	}
	if cmd.Body == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeValidation, ErrEmptyBody.Error())})
		return
	}

	msg := &store.Message{
		Sender:    from,
		Recipient: cmd.To,
		Body:      cmd.Body,
		Seen:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.AppendMessage(ctx, msg); err != nil {
		h.log.Error().Err(err).Str("from", from).Str("to", cmd.To).Msg("persist message")
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeStorage, "message could not be stored")})
		return
	}

	if recipient := h.registry.Lookup(cmd.To); recipient != nil {
		recipient.send(&Event{Kind: EventChatReceive, Message: msg})
	}
	// Offline recipient: no retry, no error. The message is recoverable
	// through the read path on the next sync.
}

func (h *Hub) handleMarkSeen(ctx context.Context, c *Client, cmd *Command) {
	if cmd.From == "" || cmd.To == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeValidation, ErrEmptyIdentity.Error())})
		return
	}

	n, err := h.store.MarkSeen(ctx, cmd.From, cmd.To)
	if err != nil {
		h.log.Error().Err(err).Str("from", cmd.From).Str("to", cmd.To).Msg("mark seen")
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeStorage, "seen state could not be stored")})
		return
	}
	if n == 0 {
		return
	}

	if sender := h.registry.Lookup(cmd.From); sender != nil {
		sender.send(&Event{Kind: EventChatSeenAck, SeenBy: cmd.To})
	}
}

// handleSignal routes call frames. The relay keeps no per-call state: it
// forwards to whoever the registry currently holds for the target, or
// drops the frame silently. A peer that registers later never receives
// frames sent while it was offline.
func (h *Hub) handleSignal(c *Client, cmd *Command) {
	if cmd.To == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeValidation, ErrEmptyIdentity.Error())})
		return
	}

	// The bound identity is authoritative; the frame's from only fills
	// in for sessions that signal before identifying.
	from := c.Identity
	if from == "" {
		from = cmd.From
	}

	peer := h.registry.Lookup(cmd.To)
	if peer == nil {
		h.log.Debug().Str("to", cmd.To).Int("kind", int(cmd.Kind)).Msg("signal dropped, peer offline")
		return
	}

	var kind EventKind
	switch cmd.Kind {
	case CommandCallOffer:
		kind = EventCallIncoming
	case CommandCallAnswer:
		kind = EventCallAnswer
	case CommandCallICE:
		kind = EventCallICE
	case CommandCallHangup:
		kind = EventCallHungup
	}

	peer.send(&Event{Kind: kind, From: from, Payload: cmd.Payload})
}
