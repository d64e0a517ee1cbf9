package report

import (
	"fmt"
	"sort"
	"strings"

	"roomaudit/internal/coverage"
)

// Bad-keyword output keeps tighter caps than the strict audit; it ranks
// rather than enumerates.
const (
	maxBadRooms        = 40
	maxBadKeywordsEach = 30
)

// BadKeywords aggregates the fuzzy audit for rendering. Report-only: its
// exit code is always ExitOK unless the scan itself failed.
type BadKeywords struct {
	FilesScanned      int
	RoomsWithKeywords int
	Rooms             []coverage.BadKeywordRoom
}

// Render produces the worst-first ranking.
func (b *BadKeywords) Render() string {
	ranked := make([]coverage.BadKeywordRoom, len(b.Rooms))
	copy(ranked, b.Rooms)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BadRatio() > ranked[j].BadRatio()
	})

	var out strings.Builder
	fmt.Fprintf(&out, "Scanned JSON files: %d\n", b.FilesScanned)
	fmt.Fprintf(&out, "Rooms with keywords: %d\n", b.RoomsWithKeywords)
	fmt.Fprintf(&out, "Rooms with >=1 keyword miss: %d\n", len(ranked))

	shown := ranked
	if len(shown) > maxBadRooms {
		shown = shown[:maxBadRooms]
	}
	for _, room := range shown {
		fmt.Fprintf(&out, "\nROOM: %s  (bad=%d/%d, leaf=%d)\n", room.RoomID, len(room.Bad), room.TotalKeywords, room.LeafCount)
		fmt.Fprintf(&out, "FILE: %s\n", room.File)
		display := room.Bad
		if len(display) > maxBadKeywordsEach {
			display = display[:maxBadKeywordsEach]
		}
		for _, kw := range display {
			fmt.Fprintf(&out, "  - %s\n", kw)
		}
		if len(room.Bad) > maxBadKeywordsEach {
			fmt.Fprintf(&out, "  ... +%d more\n", len(room.Bad)-maxBadKeywordsEach)
		}
	}
	if len(ranked) > maxBadRooms {
		fmt.Fprintf(&out, "\n... +%d more rooms\n", len(ranked)-maxBadRooms)
	}

	out.WriteString("\nDone.\n")
	return out.String()
}
