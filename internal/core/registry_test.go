package core

import "testing"

func TestRegistryBindAndLookup(t *testing.T) {
	r := NewRegistry()

	s1 := NewClient("s1")
	if replaced := r.Bind(s1, "alice"); replaced != nil {
		t.Fatalf("fresh bind should replace nothing, got %+v", replaced)
	}
	if !r.Online("alice") {
		t.Fatalf("alice should be online")
	}
	if r.Lookup("alice") != s1 {
		t.Fatalf("lookup should return the bound session")
	}
	if r.Lookup("bob") != nil {
		t.Fatalf("unknown identity must resolve to nil, not error")
	}
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()

	s1 := NewClient("s1")
	s2 := NewClient("s2")

	r.Bind(s1, "alice")
	replaced := r.Bind(s2, "alice")
	if replaced != s1 {
		t.Fatalf("expected s1 to be replaced, got %+v", replaced)
	}
	if r.Lookup("alice") != s2 {
		t.Fatalf("lookup should return the newest session")
	}
}

func TestRegistryRebindClearsPreviousIdentity(t *testing.T) {
	r := NewRegistry()

	s1 := NewClient("s1")
	r.Bind(s1, "alice")
	r.Bind(s1, "bob")

	if r.Online("alice") {
		t.Fatalf("alice must go offline when her session re-identifies as bob")
	}
	if r.Lookup("bob") != s1 {
		t.Fatalf("bob should resolve to the re-identified session")
	}

	if removed := r.Unbind(s1); !removed {
		t.Fatalf("unbind should remove the current binding")
	}
	if r.Online("bob") {
		t.Fatalf("bob should be offline after the session unbinds")
	}
}

func TestRegistryStaleUnbindKeepsNewSession(t *testing.T) {
	r := NewRegistry()

	s1 := NewClient("s1")
	s2 := NewClient("s2")

	r.Bind(s1, "alice")
	r.Bind(s2, "alice")

	// The slower disconnect of s1 arrives after s2 reconnected: it must
	// not evict s2's binding.
	if removed := r.Unbind(s1); removed {
		t.Fatalf("stale unbind must be a no-op")
	}
	if !r.Online("alice") {
		t.Fatalf("alice must remain online under s2")
	}
	if r.Lookup("alice") != s2 {
		t.Fatalf("s2 binding was evicted by a stale disconnect")
	}

	if removed := r.Unbind(s2); !removed {
		t.Fatalf("current session unbind should remove the binding")
	}
	if r.Online("alice") {
		t.Fatalf("alice should be offline after s2 unbinds")
	}
}

func TestRegistryUnbindUnidentified(t *testing.T) {
	r := NewRegistry()

	c := NewClient("s1")
	if removed := r.Unbind(c); removed {
		t.Fatalf("unbinding a never-identified session must be a no-op")
	}
}

func TestRegistryIdentitiesSorted(t *testing.T) {
	r := NewRegistry()

	r.Bind(NewClient("s1"), "carol")
	r.Bind(NewClient("s2"), "alice")
	r.Bind(NewClient("s3"), "bob")

	ids := r.Identities()
	want := []string{"alice", "bob", "carol"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d identities, got %d", len(want), len(ids))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected %s at index %d, got %s", id, i, ids[i])
		}
	}
}
