package core

// Client is one live transport connection as seen by the core layer.
// Identity stays empty until the client sends an identify command; only the
// hub goroutine reads or writes it after construction.
type Client struct {
	SessionID string
	Identity  string
	Events    chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(sessionID string) *Client {
	return &Client{
		SessionID: sessionID,
		Events:    make(chan *Event, 16),
	}
}

// send delivers an event without blocking the hub loop. Slow consumers
// drop events; durable state is the recovery path, not the channel.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
