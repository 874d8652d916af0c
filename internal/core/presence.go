package core

import (
	"context"
	"sort"
)

// snapshot computes the presence view: every identity that is currently
// online or has unseen messages waiting, with its online flag and unseen
// count. Counts are read from the log on every call rather than kept as
// stored counters, so they cannot drift.
func (h *Hub) snapshot(ctx context.Context) ([]PresenceEntry, error) {
	unseen, err := h.store.CountUnseen(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	entries := make([]PresenceEntry, 0, len(unseen))

	for _, id := range h.registry.Identities() {
		seen[id] = struct{}{}
		entries = append(entries, PresenceEntry{Identity: id, Online: true, Unseen: unseen[id]})
	}
	for id, count := range unseen {
		if _, ok := seen[id]; ok {
			continue
		}
		entries = append(entries, PresenceEntry{Identity: id, Online: false, Unseen: count})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Identity < entries[j].Identity })
	return entries, nil
}

// broadcastPresence pushes the snapshot to every connected session,
// identified or not. Called on identify and on a disconnect that removed
// a binding; message sends do not trigger it.
func (h *Hub) broadcastPresence(ctx context.Context) {
	entries, err := h.snapshot(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("compute presence snapshot")
		return
	}

	ev := &Event{Kind: EventPresence, Presence: entries}
	for c := range h.clients {
		c.send(ev)
	}
}
