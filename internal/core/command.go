package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandIdentify binds the session to a user identity.
	CommandIdentify CommandKind = iota
	// CommandSendMessage persists a chat message and delivers it live if
	// the recipient is online.
	CommandSendMessage
	// CommandMarkSeen flips all unseen messages from a sender to a
	// recipient and notifies the sender.
	CommandMarkSeen

	// Call signaling commands; pure routing, no persisted state.

	// CommandCallOffer forwards an SDP offer to the callee.
	CommandCallOffer
	// CommandCallAnswer forwards an SDP answer back to the caller.
	CommandCallAnswer
	// CommandCallICE forwards a single ICE candidate.
	CommandCallICE
	// CommandCallHangup forwards a teardown notice to the peer.
	CommandCallHangup
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Identity string // CommandIdentify
	From     string // CommandMarkSeen: original sender of the messages
	To       string
	Body     string          // CommandSendMessage
	Payload  json.RawMessage // opaque offer/answer/candidate
}
