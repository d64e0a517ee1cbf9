package testsupport

import (
	"context"
	"testing"

	"roomaudit/internal/config"
	"roomaudit/internal/store"
)

// MustOpenStore opens a rooms store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedRoom upserts a minimal room row for tests using the provided store.
func SeedRoom(t testing.TB, st *store.Store, id, rawJSON string) *store.Room {
	t.Helper()

	room := &store.Room{
		ID:          id,
		Slug:        id,
		EntriesJSON: "[]",
		RawJSON:     rawJSON,
	}
	if err := st.Upsert(context.Background(), room); err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
	return room
}
