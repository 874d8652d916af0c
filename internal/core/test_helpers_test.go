package core

import (
	"context"
	"testing"
	"time"

	"github.com/mkazancev/relaychat-server/internal/store/sqlite"
)

func newTestHub(t *testing.T) (*Hub, *sqlite.SQLiteStore) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	hub := NewHub(st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub, st
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

// mustNoEvent fails if an event of one of the given kinds arrives within a
// short window. With no kinds, any event fails. Unrelated events (presence
// broadcasts mostly) are drained and ignored.
func mustNoEvent(t *testing.T, ch <-chan *Event, kinds ...EventKind) {
	t.Helper()

	deadline := time.After(150 * time.Millisecond)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if len(kinds) == 0 {
				t.Fatalf("expected no event, got %+v", ev)
			}
			for _, k := range kinds {
				if ev.Kind == k {
					t.Fatalf("expected no event of kind %v, got %+v", k, ev)
				}
			}
		case <-deadline:
			return
		}
	}
}

func identify(hub *Hub, c *Client, identity string) {
	hub.Submit(c, &Command{Kind: CommandIdentify, Identity: identity})
}
