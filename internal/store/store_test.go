package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"roomaudit/internal/store"
	"roomaudit/internal/testsupport"
)

func TestOpenCreatesSchemaAndRoundTrips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	room := &store.Room{
		ID:          "calm_night",
		Slug:        "calm-night",
		Tier:        "free",
		Domain:      "sleep",
		EntriesJSON: `[{"id":"all"}]`,
		RawJSON:     `{"title":{"en":"Calm Night"}}`,
		HealthScore: 87.5,
	}
	if err := st.Upsert(ctx, room); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if room.UpdatedAt == "" {
		t.Fatal("expected Upsert to stamp updated_at")
	}

	fetched, err := st.Get(ctx, "calm_night")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Slug != "calm-night" || fetched.Tier != "free" || fetched.HealthScore != 87.5 {
		t.Fatalf("unexpected fetched room: %#v", fetched)
	}
}

func TestOpenIsReentrant(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedRoom(t, st, "first", "{}")
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	fetched, err := reopened.Get(context.Background(), "first")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if fetched.ID != "first" {
		t.Fatalf("unexpected room after reopen: %#v", fetched)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.Get(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedRoom(t, st, "r1", `{"v":1}`)
	if err := st.Upsert(ctx, &store.Room{ID: "r1", Slug: "renamed", EntriesJSON: "[]", RawJSON: `{"v":2}`}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	fetched, err := st.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Slug != "renamed" || fetched.RawJSON != `{"v":2}` {
		t.Fatalf("expected replaced row, got %#v", fetched)
	}

	n, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestListOrdersByID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	for _, id := range []string{"zeta", "alpha", "mid"} {
		testsupport.SeedRoom(t, st, id, "{}")
	}

	rooms, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(rooms))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, room := range rooms {
		if room.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], room.ID)
		}
	}
}

func TestUpdateRepairedHonorsSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seeded := testsupport.SeedRoom(t, st, "r1", `{"v":1}`)

	if err := st.UpdateRepaired(ctx, "r1", `[{"id":"all"}]`, `{"v":2}`, 100, 50, seeded.UpdatedAt); err != nil {
		t.Fatalf("UpdateRepaired failed: %v", err)
	}

	fetched, err := st.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.RawJSON != `{"v":2}` || fetched.HealthScore != 100 || fetched.AudioCoverage != 50 {
		t.Fatalf("unexpected row after repair: %#v", fetched)
	}
	if fetched.UpdatedAt == seeded.UpdatedAt {
		t.Fatal("expected UpdateRepaired to advance updated_at")
	}

	// The original snapshot is stale now; a second conditional write must lose.
	err = st.UpdateRepaired(ctx, "r1", "[]", `{"v":3}`, 0, 0, seeded.UpdatedAt)
	if !errors.Is(err, store.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}

	kept, err := st.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if kept.RawJSON != `{"v":2}` {
		t.Fatalf("stale write must not land, got %#v", kept)
	}
}

func TestUpdateRepairedMissingRoom(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	err := st.UpdateRepaired(context.Background(), "ghost", "[]", "{}", 0, 0, "whenever")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedRoom(t, st, "r1", "{}")
	if err := st.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := st.Delete(ctx, "r1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, err := st.Get(ctx, "r1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpsertManyRooms(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("room_%02d", i)
		if err := st.Upsert(ctx, &store.Room{ID: id, EntriesJSON: "[]", RawJSON: "{}"}); err != nil {
			t.Fatalf("Upsert %s failed: %v", id, err)
		}
	}
	n, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 25 {
		t.Fatalf("expected 25 rooms, got %d", n)
	}
}
