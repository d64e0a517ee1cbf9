package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates the requested room id has no row.
var ErrNotFound = errors.New("room not found")

// ErrConcurrentUpdate indicates a conditional update lost a race: the row's
// updated_at no longer matched the snapshot the caller read.
var ErrConcurrentUpdate = errors.New("room modified concurrently")

// Room is one persisted room row.
type Room struct {
	ID            string
	Slug          string
	Tier          string
	Domain        string
	EntriesJSON   string
	RawJSON       string
	HealthScore   float64
	AudioCoverage float64
	UpdatedAt     string
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

const roomColumns = "id, slug, tier, domain, entries_json, raw_json, health_score, audio_coverage, updated_at"

func scanRoom(row interface{ Scan(...any) error }) (*Room, error) {
	var r Room
	if err := row.Scan(
		&r.ID, &r.Slug, &r.Tier, &r.Domain,
		&r.EntriesJSON, &r.RawJSON,
		&r.HealthScore, &r.AudioCoverage, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Upsert inserts or replaces a room row, stamping updated_at.
func (s *Store) Upsert(ctx context.Context, room *Room) error {
	if room == nil || room.ID == "" {
		return errors.New("room id required")
	}
	room.UpdatedAt = nowStamp()
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO rooms (`+roomColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
            slug = excluded.slug,
            tier = excluded.tier,
            domain = excluded.domain,
            entries_json = excluded.entries_json,
            raw_json = excluded.raw_json,
            health_score = excluded.health_score,
            audio_coverage = excluded.audio_coverage,
            updated_at = excluded.updated_at`,
		room.ID, room.Slug, room.Tier, room.Domain,
		room.EntriesJSON, room.RawJSON,
		room.HealthScore, room.AudioCoverage, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert room %s: %w", room.ID, err)
	}
	return nil
}

// Get returns the room with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Room, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", id, err)
	}
	return room, nil
}

// List returns all rooms ordered by id.
func (s *Store) List(ctx context.Context) ([]*Room, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Room
	for rows.Next() {
		room, scanErr := scanRoom(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan room: %w", scanErr)
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return out, nil
}

// Count returns the number of room rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM rooms").Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return n, nil
}

// UpdateRepaired writes the repaired document and derived metrics for a room,
// but only if the row is still at the snapshot the caller read. A mismatch on
// updated_at means something else wrote the room since; the caller should
// re-read and retry the repair rather than clobber the newer state.
func (s *Store) UpdateRepaired(ctx context.Context, id, entriesJSON, rawJSON string, healthScore, audioCoverage float64, expectedUpdatedAt string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE rooms SET
            entries_json = ?, raw_json = ?,
            health_score = ?, audio_coverage = ?,
            updated_at = ?
         WHERE id = ? AND updated_at = ?`,
		entriesJSON, rawJSON, healthScore, audioCoverage,
		nowStamp(), id, expectedUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update repaired room %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", id, err)
	}
	if affected == 0 {
		if _, getErr := s.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %s", ErrConcurrentUpdate, id)
	}
	return nil
}

// Delete removes a room row. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.execWithRetry(ctx, "DELETE FROM rooms WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}
