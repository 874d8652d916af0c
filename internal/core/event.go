package core

import (
	"encoding/json"

	"github.com/mkazancev/relaychat-server/internal/store"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventChatReceive delivers a chat message to its recipient.
	EventChatReceive EventKind = iota
	// EventChatSeenAck tells a sender that their messages were seen.
	EventChatSeenAck
	// EventPresence delivers the full presence snapshot.
	EventPresence
	// EventError notifies the client about a domain error.
	EventError

	// Call events

	// EventCallIncoming notifies the callee of an incoming offer.
	EventCallIncoming
	// EventCallAnswer notifies the caller that the callee answered.
	EventCallAnswer
	// EventCallICE delivers a single ICE candidate.
	EventCallICE
	// EventCallHungup notifies the peer that the call was torn down.
	EventCallHungup
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Message  *store.Message  // EventChatReceive
	SeenBy   string          // EventChatSeenAck: identity that read the messages
	Presence []PresenceEntry // EventPresence
	From     string          // call events: identity of the peer
	Payload  json.RawMessage // call events: opaque offer/answer/candidate
	Error    *CoreError      // EventError
}

// PresenceEntry is one row of the presence snapshot.
type PresenceEntry struct {
	Identity string
	Online   bool
	Unseen   int64
}
