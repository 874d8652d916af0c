package core

import "sort"

// Registry maps a user identity to its single live session. Last writer
// wins: a later Bind for the same identity replaces the previous session,
// so multi-device use of one identity is unsupported by design.
//
// Registry is not self-locking; it is owned by the hub goroutine.
type Registry struct {
	byIdentity map[string]*Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byIdentity: make(map[string]*Client)}
}

// Bind associates identity with client and returns the session it
// replaced, if any. A session that was bound under another identity has
// that old binding removed first; cleanup is keyed by session, so a
// re-identified connection never leaves a ghost entry behind.
func (r *Registry) Bind(client *Client, identity string) *Client {
	replaced := r.byIdentity[identity]
	if replaced == client {
		replaced = nil
	}
	if prev := client.Identity; prev != "" && prev != identity {
		if current, ok := r.byIdentity[prev]; ok && current == client {
			delete(r.byIdentity, prev)
		}
	}
	r.byIdentity[identity] = client
	client.Identity = identity
	return replaced
}

// Unbind removes the client's binding only if the stored session is still
// this client. A stale disconnect arriving after a faster reconnect for
// the same identity must not evict the new session. Returns true if a
// binding was actually removed.
func (r *Registry) Unbind(client *Client) bool {
	if client.Identity == "" {
		return false
	}
	if current, ok := r.byIdentity[client.Identity]; !ok || current != client {
		return false
	}
	delete(r.byIdentity, client.Identity)
	return true
}

// Lookup returns the live session for identity, or nil when the identity
// is offline. Absence is not an error; it means "deliver nothing now".
func (r *Registry) Lookup(identity string) *Client {
	return r.byIdentity[identity]
}

// Online reports whether identity has a live session.
func (r *Registry) Online(identity string) bool {
	_, ok := r.byIdentity[identity]
	return ok
}

// Identities returns all online identities in sorted order.
func (r *Registry) Identities() []string {
	ids := make([]string, 0, len(r.byIdentity))
	for id := range r.byIdentity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
