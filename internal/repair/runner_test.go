package repair_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"roomaudit/internal/config"
	"roomaudit/internal/repair"
	"roomaudit/internal/store"
	"roomaudit/internal/testsupport"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRunner(t *testing.T, cfg *config.Config, st *store.Store) *repair.Runner {
	t.Helper()
	runner, err := repair.NewRunner(cfg, st, discardLogger())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

const brokenRoomJSON = `{"id":"r1","title":{"en":"Calm"},"entries":[{"copy":{"en":"Breathe"},"audio":"public/audio/a.mp3","severity_level":9}]}`

const cleanRoomJSON = `{"id":"r1","title":{"en":"Calm","vi":"Yên"},"entries":[{"slug":"a","keywords_en":["all"],"copy":{"en":"Hi","vi":"Chào"},"audio":"a.mp3"}]}`

func TestRunDryRunLeavesStoreUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedRoom(t, st, "r1", brokenRoomJSON)

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Governance: config.GovernanceAuto,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Mode != "dry-run" {
		t.Fatalf("expected dry-run mode, got %q", summary.Mode)
	}
	if summary.RoomsFixed != 1 {
		t.Fatalf("expected 1 fixable room, got %d", summary.RoomsFixed)
	}

	row, err := st.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if row.RawJSON != brokenRoomJSON || row.UpdatedAt != seeded.UpdatedAt {
		t.Fatal("dry run must not write")
	}
}

func TestRunApplyWritesFixedRoom(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedRoom(t, st, "r1", brokenRoomJSON)

	runner := newRunner(t, cfg, st)
	summary, err := runner.Run(context.Background(), repair.RunOptions{
		Apply:      true,
		Governance: config.GovernanceAuto,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Mode != "apply" || summary.RoomsFixed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !summary.Rooms[0].Written {
		t.Fatalf("expected room write, got %+v", summary.Rooms[0])
	}

	row, err := st.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(row.RawJSON), &doc); err != nil {
		t.Fatalf("parse stored raw_json: %v", err)
	}
	entries, ok := doc["entries"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected repaired entries incl. all entry, got %v", doc["entries"])
	}
	if row.HealthScore == 0 {
		t.Fatal("expected health score persisted")
	}

	// A second apply run finds nothing left to fix.
	again, err := runner.Run(context.Background(), repair.RunOptions{
		Apply:      true,
		Governance: config.GovernanceAuto,
	})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if again.RoomsFixed != 0 {
		t.Fatalf("expected idempotent second run, got %d fixes", again.RoomsFixed)
	}
}

func TestRunStrictGovernanceForcesDryRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedRoom(t, st, "r1", brokenRoomJSON)

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Apply:      true,
		Governance: config.GovernanceStrict,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Mode != "dry-run" {
		t.Fatalf("strict must force dry-run, got %q", summary.Mode)
	}

	row, err := st.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if row.UpdatedAt != seeded.UpdatedAt {
		t.Fatal("strict governance must never write")
	}
}

func TestRunAssistedBlocksStructuralChanges(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedRoom(t, st, "r1", `{"id":"r1","entries":[{"copy":{"en":"Hi"}}]}`)

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Apply:      true,
		Governance: config.GovernanceAssisted,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.ChangesBlocked == 0 {
		t.Fatalf("expected blocked structural changes, got %+v", summary)
	}

	row, err := st.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(row.RawJSON), &doc); err != nil {
		t.Fatalf("parse stored raw_json: %v", err)
	}
	entries := doc["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("assisted run must not inject the all entry, got %d entries", len(entries))
	}
}

func TestRunSkipsInvalidRawJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedRoom(t, st, "broken", "{not json")

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Apply:      true,
		Governance: config.GovernanceAuto,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.RoomsSkipped != 1 || summary.RoomsFixed != 0 {
		t.Fatalf("expected broken room skipped, got %+v", summary)
	}
	if summary.Rooms[0].Written {
		t.Fatal("invalid JSON must never be written back")
	}
}

func TestRunRoomFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedRoom(t, st, "calm_night", brokenRoomJSON)
	testsupport.SeedRoom(t, st, "deep_focus", brokenRoomJSON)

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Governance: config.GovernanceAuto,
		RoomFilter: "calm*",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.RoomsScanned != 1 || summary.Rooms[0].RoomID != "calm_night" {
		t.Fatalf("expected only calm_night scanned, got %+v", summary)
	}
}

func TestRunFastBudgetBoundsRooms(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	for i := 0; i < 30; i++ {
		testsupport.SeedRoom(t, st, roomID(i), cleanRoomJSON)
	}

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Governance: config.GovernanceAuto,
		Scan:       config.ScanFast,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.RoomsScanned != 25 {
		t.Fatalf("fast scan must stop at 25 rooms, got %d", summary.RoomsScanned)
	}
	if !summary.BudgetHit {
		t.Fatal("expected budget marker")
	}
}

func roomID(i int) string {
	return "room_" + string(rune('a'+i/10)) + string(rune('0'+i%10))
}

func TestRunWritesSummaryArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedRoom(t, st, "r1", brokenRoomJSON)

	summary, err := newRunner(t, cfg, st).Run(context.Background(), repair.RunOptions{
		Governance: config.GovernanceAuto,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.SummaryPath == "" {
		t.Fatal("expected summary artifact path")
	}
	raw, err := os.ReadFile(summary.SummaryPath)
	if err != nil {
		t.Fatalf("read summary artifact: %v", err)
	}
	var decoded repair.Summary
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("parse summary artifact: %v", err)
	}
	if decoded.RunID != summary.RunID || decoded.RoomsScanned != 1 {
		t.Fatalf("unexpected artifact contents: %+v", decoded)
	}
}
