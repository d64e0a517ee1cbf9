package report

import (
	"fmt"
	"sort"
	"strings"

	"roomaudit/internal/coverage"
	"roomaudit/internal/reconcile"
)

// Display caps keep the grouped output readable on badly broken catalogs.
const (
	maxRoomsShown = 80
	maxPerRoom    = 10
)

// ExitOK and ExitFindings are the CI contract.
const (
	ExitOK       = 0
	ExitFindings = 1
)

// Coverage aggregates keyword-coverage findings for rendering.
type Coverage struct {
	RoomCount       int
	Findings        []coverage.Finding
	AllowEmptyRooms bool
}

// HardCount returns the number of findings that fail CI.
func (c *Coverage) HardCount() int {
	n := 0
	for _, f := range c.Findings {
		if f.Hard(c.AllowEmptyRooms) {
			n++
		}
	}
	return n
}

// ExitCode maps the aggregate to the process exit code.
func (c *Coverage) ExitCode() int {
	if c.HardCount() > 0 {
		return ExitFindings
	}
	return ExitOK
}

// Render produces the grouped per-room summary.
func (c *Coverage) Render() string {
	var b strings.Builder

	byRoom := make(map[string][]coverage.Finding)
	for _, f := range c.Findings {
		byRoom[f.RoomID] = append(byRoom[f.RoomID], f)
	}

	countByType := make(map[coverage.FindingType]int)
	for _, f := range c.Findings {
		countByType[f.Type]++
	}

	fmt.Fprintf(&b, "Summary\n")
	fmt.Fprintf(&b, "-------\n")
	fmt.Fprintf(&b, "Room JSON detected: %d\n", c.RoomCount)
	fmt.Fprintf(&b, "Rooms w/ findings:  %d\n", len(byRoom))
	fmt.Fprintf(&b, "Findings total:     %d\n", len(c.Findings))

	if len(countByType) > 0 {
		types := make([]string, 0, len(countByType))
		for t := range countByType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		b.WriteString("\nFindings by type:\n")
		for _, t := range types {
			fmt.Fprintf(&b, "  - %s: %d\n", t, countByType[coverage.FindingType(t)])
		}
	}

	roomIDs := make([]string, 0, len(byRoom))
	for id := range byRoom {
		roomIDs = append(roomIDs, id)
	}
	sort.Strings(roomIDs)

	if len(roomIDs) > 0 {
		fmt.Fprintf(&b, "\nRooms with findings (showing up to %d):\n", maxRoomsShown)
		shown := roomIDs
		if len(shown) > maxRoomsShown {
			shown = shown[:maxRoomsShown]
		}
		for _, id := range shown {
			list := byRoom[id]
			var hard, warn []coverage.Finding
			for _, f := range list {
				if f.Hard(c.AllowEmptyRooms) {
					hard = append(hard, f)
				} else {
					warn = append(warn, f)
				}
			}

			file := ""
			if len(list) > 0 {
				file = list[0].File
			}
			fmt.Fprintf(&b, "\n* %s  (%s)\n", id, file)
			fmt.Fprintf(&b, "  hard: %d | warn: %d\n", len(hard), len(warn))

			ordered := append(append([]coverage.Finding{}, hard...), warn...)
			display := ordered
			if len(display) > maxPerRoom {
				display = display[:maxPerRoom]
			}
			for _, f := range display {
				fmt.Fprintf(&b, "    - %s: %s\n", f.Type, f.Details)
			}
			if len(ordered) > maxPerRoom {
				fmt.Fprintf(&b, "    ... +%d more\n", len(ordered)-maxPerRoom)
			}
		}
		if len(roomIDs) > maxRoomsShown {
			fmt.Fprintf(&b, "\n  ... +%d more rooms with findings\n", len(roomIDs)-maxRoomsShown)
		}
	}

	b.WriteString("\n")
	if c.HardCount() > 0 {
		var parts []string
		keywordFails := countByType[coverage.RoomKeywordNoEntryMatch]
		emptyFails := 0
		if !c.AllowEmptyRooms {
			emptyFails = countByType[coverage.RoomHasZeroEntries] + countByType[coverage.RoomLooksBroken]
		}
		if keywordFails > 0 {
			parts = append(parts, fmt.Sprintf("%d keyword coverage issues", keywordFails))
		}
		if emptyFails > 0 {
			parts = append(parts, fmt.Sprintf("%d empty-room issues", emptyFails))
		}
		fmt.Fprintf(&b, "FAIL (%s)\n", strings.Join(parts, ", "))
	} else {
		b.WriteString("OK (no user-facing keyword coverage or empty-room issues)\n")
	}
	return b.String()
}

// Sync aggregates reconciliation diffs for rendering.
type Sync struct {
	Diffs        []reconcile.RoomDiff
	MissingAudio []reconcile.MissingAudio
	Skipped      []string
}

// IssueCount counts rooms with any cross-source disagreement plus missing
// audio assets.
func (s *Sync) IssueCount() int {
	n := len(s.MissingAudio)
	for _, d := range s.Diffs {
		if !d.Clean() {
			n++
		}
	}
	return n
}

// ExitCode maps the aggregate to the process exit code.
func (s *Sync) ExitCode() int {
	if s.IssueCount() > 0 {
		return ExitFindings
	}
	return ExitOK
}

func presenceMarks(d reconcile.RoomDiff) string {
	mark := func(ok bool) string {
		if ok {
			return "y"
		}
		return "-"
	}
	return fmt.Sprintf("fs:%s db:%s reg:%s", mark(d.InFilesystem), mark(d.InDatabase), mark(d.InRegistry))
}

// Render produces the grouped reconciliation summary.
func (s *Sync) Render() string {
	var b strings.Builder

	var dirty []reconcile.RoomDiff
	for _, d := range s.Diffs {
		if !d.Clean() {
			dirty = append(dirty, d)
		}
	}

	fmt.Fprintf(&b, "Summary\n")
	fmt.Fprintf(&b, "-------\n")
	fmt.Fprintf(&b, "Rooms compared:      %d\n", len(s.Diffs))
	fmt.Fprintf(&b, "Rooms with issues:   %d\n", len(dirty))
	fmt.Fprintf(&b, "Missing audio files: %d\n", len(s.MissingAudio))

	for _, note := range s.Skipped {
		fmt.Fprintf(&b, "NOTE: source skipped: %s\n", note)
	}

	if len(dirty) > 0 {
		fmt.Fprintf(&b, "\nRooms out of sync (showing up to %d):\n", maxRoomsShown)
		shown := dirty
		if len(shown) > maxRoomsShown {
			shown = shown[:maxRoomsShown]
		}
		for _, d := range shown {
			fmt.Fprintf(&b, "\n* %s  (%s)\n", d.ID, presenceMarks(d))
			var lines []string
			for _, name := range d.AudioOnlyFilesystem {
				lines = append(lines, fmt.Sprintf("audio only in filesystem: %s", name))
			}
			for _, name := range d.AudioOnlyDatabase {
				lines = append(lines, fmt.Sprintf("audio only in database: %s", name))
			}
			if d.EntryCountMismatch {
				lines = append(lines, fmt.Sprintf("entry count mismatch: filesystem=%d database=%d",
					d.EntryCountFilesystem, d.EntryCountDatabase))
			}
			display := lines
			if len(display) > maxPerRoom {
				display = display[:maxPerRoom]
			}
			for _, line := range display {
				fmt.Fprintf(&b, "    - %s\n", line)
			}
			if len(lines) > maxPerRoom {
				fmt.Fprintf(&b, "    ... +%d more\n", len(lines)-maxPerRoom)
			}
		}
		if len(dirty) > maxRoomsShown {
			fmt.Fprintf(&b, "\n  ... +%d more rooms out of sync\n", len(dirty)-maxRoomsShown)
		}
	}

	if len(s.MissingAudio) > 0 {
		fmt.Fprintf(&b, "\nReferenced audio with no physical file:\n")
		display := s.MissingAudio
		truncated := 0
		if len(display) > maxRoomsShown {
			truncated = len(display) - maxRoomsShown
			display = display[:maxRoomsShown]
		}
		for _, m := range display {
			fmt.Fprintf(&b, "    - %s (%s): %s\n", m.RoomID, m.Source, m.Filename)
		}
		if truncated > 0 {
			fmt.Fprintf(&b, "    ... +%d more\n", truncated)
		}
	}

	b.WriteString("\n")
	if s.IssueCount() > 0 {
		fmt.Fprintf(&b, "FAIL (%d sync issues)\n", s.IssueCount())
	} else {
		b.WriteString("OK (all sources agree)\n")
	}
	return b.String()
}
