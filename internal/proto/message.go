package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeIdentify   = "identify"
	InboundTypeChatSend   = "chat.send"
	InboundTypeMarkSeen   = "chat.mark_seen"
	InboundTypeCallOffer  = "call.offer"
	InboundTypeCallAnswer = "call.answer"
	InboundTypeCallICE    = "call.ice"
	InboundTypeCallHangup = "call.hangup"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventChatReceive    = "chat.receive"
	EventChatSeenAck    = "chat.seen_ack"
	EventPresenceUpdate = "presence.update"
	EventCallIncoming   = "call.incoming"
	EventCallAnswer     = "call.incoming_answer"
	EventCallICE        = "call.ice"
	EventCallHungup     = "call.hungup"
)

// IdentifyData binds the connection to a user identity.
type IdentifyData struct {
	User string `json:"user"`
}

// ChatSendData is a chat message from the client.
type ChatSendData struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// MarkSeenData asks to flip all unseen messages from a sender to a
// recipient. From is the original sender, To the reader.
type MarkSeenData struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CallOfferData starts a call. FromUser is optional; the server prefers
// the identity bound to the connection.
type CallOfferData struct {
	To       string          `json:"to"`
	FromUser string          `json:"from_user,omitempty"`
	Offer    json.RawMessage `json:"offer"`
}

// CallAnswerData accepts a call.
type CallAnswerData struct {
	To     string          `json:"to"`
	Answer json.RawMessage `json:"answer"`
}

// CallICEData carries one ICE candidate.
type CallICEData struct {
	To        string          `json:"to"`
	Candidate json.RawMessage `json:"candidate"`
}

// CallHangupData tears a call down.
type CallHangupData struct {
	To string `json:"to"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a delivered chat message.
type EventMessage struct {
	ID   int64  `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
	Seen bool   `json:"seen"`
	TS   int64  `json:"ts"`
}

// EventSeenAck tells a sender which peer read their messages.
type EventSeenAck struct {
	From string `json:"from"`
}

// PresenceEntry is one row of a presence snapshot.
type PresenceEntry struct {
	User   string `json:"user"`
	Online bool   `json:"online"`
	Unseen int64  `json:"unseen"`
}

// EventPresence carries the full presence snapshot.
type EventPresence struct {
	Users []PresenceEntry `json:"users"`
}

// EventCallFrame is a relayed signaling frame. Exactly one of the payload
// fields is set depending on the event.
type EventCallFrame struct {
	From      string          `json:"from,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
