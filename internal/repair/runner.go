package repair

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"roomaudit/internal/config"
	"roomaudit/internal/roomdoc"
	"roomaudit/internal/store"
)

// RunOptions control one batch repair run.
type RunOptions struct {
	// Apply writes fixes back to the rooms table. Default is a dry run.
	Apply bool
	// RoomFilter restricts the run to matching canonical room ids. A
	// pattern containing glob metacharacters is matched with path.Match;
	// anything else matches by substring.
	RoomFilter string
	// Governance overrides the configured mode when non-empty.
	Governance string
	// Scan overrides the configured budget when non-empty.
	Scan string
}

// RoomOutcome records what happened to one room during a run.
type RoomOutcome struct {
	RoomID        string   `json:"room_id"`
	Slug          string   `json:"slug,omitempty"`
	IssuesFixed   []string `json:"issues_fixed,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
	HealthScore   int      `json:"health_score"`
	AudioCoverage int      `json:"audio_coverage"`
	Written       bool     `json:"written"`
	Skipped       string   `json:"skipped,omitempty"`
}

// Summary is the per-run artifact, also written as JSON to the log dir.
type Summary struct {
	RunID          string        `json:"run_id"`
	Mode           string        `json:"mode"`
	Governance     string        `json:"governance"`
	Scan           string        `json:"scan"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	RoomsScanned   int           `json:"rooms_scanned"`
	RoomsFixed     int           `json:"rooms_fixed"`
	RoomsSkipped   int           `json:"rooms_skipped"`
	ChangesApplied int           `json:"changes_applied"`
	ChangesBlocked int           `json:"changes_blocked"`
	BudgetHit      bool          `json:"budget_hit,omitempty"`
	Rooms          []RoomOutcome `json:"rooms"`
	SummaryPath    string        `json:"-"`
}

// HasFixes reports whether any room had outstanding issues.
func (s *Summary) HasFixes() bool {
	return s.RoomsFixed > 0
}

type scanBudget struct {
	maxRooms   int
	maxChanges int
}

// budgetFor maps the scan selector to its bounds. Zero means unbounded.
func budgetFor(scan string) scanBudget {
	switch scan {
	case config.ScanFast:
		return scanBudget{maxRooms: 25, maxChanges: 100}
	case config.ScanDeep:
		return scanBudget{}
	default:
		return scanBudget{maxRooms: 100, maxChanges: 500}
	}
}

// Runner executes batch repairs against the rooms table.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewRunner constructs a Runner.
func NewRunner(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("runner requires config, store, and logger")
	}
	return &Runner{cfg: cfg, store: st, logger: logger}, nil
}

func matchRoom(pattern, id string) bool {
	if pattern == "" {
		return true
	}
	if strings.ContainsAny(pattern, "*?[") {
		ok, err := path.Match(pattern, id)
		return err == nil && ok
	}
	return strings.Contains(id, pattern)
}

// Run scans the rooms table and repairs matching rooms within the scan
// budget. In apply mode a lock file serializes runs so two writers cannot
// interleave.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	governance := opts.Governance
	if governance == "" {
		governance = r.cfg.Repair.Governance
	}
	scan := opts.Scan
	if scan == "" {
		scan = r.cfg.Repair.Scan
	}

	apply := opts.Apply
	if governance == config.GovernanceStrict && apply {
		r.logger.Warn("strict governance forces dry run", slog.String("governance", governance))
		apply = false
	}

	summary := &Summary{
		RunID:      uuid.New().String(),
		Mode:       "dry-run",
		Governance: governance,
		Scan:       scan,
		StartedAt:  time.Now().UTC(),
	}
	if apply {
		summary.Mode = "apply"
	}

	if apply {
		if err := r.cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "repair.lock"))
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire repair lock: %w", err)
		}
		if !ok {
			return nil, errors.New("another repair run is already active")
		}
		defer func() { _ = lock.Unlock() }()
	}

	rows, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	budget := budgetFor(scan)
	structural := governance == config.GovernanceAuto

	for _, row := range rows {
		id := roomdoc.CanonicalID(row.ID)
		if !matchRoom(opts.RoomFilter, id) {
			continue
		}
		if budget.maxRooms > 0 && summary.RoomsScanned >= budget.maxRooms {
			summary.BudgetHit = true
			break
		}
		if budget.maxChanges > 0 && summary.ChangesApplied >= budget.maxChanges {
			summary.BudgetHit = true
			break
		}
		summary.RoomsScanned++

		outcome := r.repairRoom(ctx, row, apply, structural)
		summary.Rooms = append(summary.Rooms, outcome)

		if len(outcome.IssuesFixed) > 0 && outcome.Skipped == "" {
			summary.RoomsFixed++
			summary.ChangesApplied += len(outcome.IssuesFixed)
		}
		summary.ChangesBlocked += len(outcome.Suggestions)
		if outcome.Skipped != "" {
			summary.RoomsSkipped++
		}
	}

	summary.FinishedAt = time.Now().UTC()

	if err := r.writeSummary(summary); err != nil {
		r.logger.Warn("write run summary", slog.Any("error", err))
	}

	r.logger.Info("repair run complete",
		slog.String("run_id", summary.RunID),
		slog.String("mode", summary.Mode),
		slog.Int("scanned", summary.RoomsScanned),
		slog.Int("fixed", summary.RoomsFixed),
		slog.Int("skipped", summary.RoomsSkipped),
	)
	return summary, nil
}

func (r *Runner) repairRoom(ctx context.Context, row *store.Room, apply, structural bool) RoomOutcome {
	outcome := RoomOutcome{RoomID: row.ID, Slug: row.Slug}

	var doc roomdoc.Document
	if err := json.Unmarshal([]byte(row.RawJSON), &doc); err != nil {
		outcome.Skipped = "raw_json is invalid JSON - skipping auto-fix"
		return outcome
	}

	res := Transform(doc, Options{Structural: structural})
	outcome.IssuesFixed = res.Issues
	outcome.Suggestions = res.Suggestions
	outcome.HealthScore = res.HealthScore
	outcome.AudioCoverage = res.AudioCoverage

	if len(res.Issues) == 0 || !apply {
		return outcome
	}

	rawJSON, err := json.Marshal(res.Fixed)
	if err != nil {
		outcome.Skipped = fmt.Sprintf("marshal fixed document: %v", err)
		return outcome
	}
	entriesJSON, err := json.Marshal(res.Fixed["entries"])
	if err != nil {
		outcome.Skipped = fmt.Sprintf("marshal entries: %v", err)
		return outcome
	}

	err = r.store.UpdateRepaired(ctx, row.ID, string(entriesJSON), string(rawJSON),
		float64(res.HealthScore), float64(res.AudioCoverage), row.UpdatedAt)
	switch {
	case errors.Is(err, store.ErrConcurrentUpdate):
		outcome.Skipped = "room modified concurrently - not overwritten"
	case err != nil:
		outcome.Skipped = fmt.Sprintf("update: %v", err)
	default:
		outcome.Written = true
	}
	return outcome
}

func (r *Runner) writeSummary(summary *Summary) error {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("repair-run-%s.json", summary.RunID)
	summary.SummaryPath = filepath.Join(r.cfg.Paths.LogDir, name)
	return os.WriteFile(summary.SummaryPath, raw, 0o644)
}
