package coverage

import (
	"strings"

	"roomaudit/internal/fuzzy"
	"roomaudit/internal/roomdoc"
)

// BadKeywordRoom is one room where declared keywords fail even the
// permissive fuzzy match. Report-only; the strict checker owns CI gating.
type BadKeywordRoom struct {
	RoomID        string
	File          string
	LeafCount     int
	TotalKeywords int
	Bad           []string
}

// BadRatio orders rooms worst-first.
func (r BadKeywordRoom) BadRatio() float64 {
	total := r.TotalKeywords
	if total < 1 {
		total = 1
	}
	return float64(len(r.Bad)) / float64(total)
}

// FuzzyCheckRoom audits one room with the stemmed-containment matcher. It
// returns nil when the room declares no keywords or every keyword hits.
func FuzzyCheckRoom(roomID, file string, room roomdoc.Document) *BadKeywordRoom {
	keywords := roomdoc.RoomKeywords(room)
	all := make([]string, 0, len(keywords.EN)+len(keywords.VI))
	for _, kw := range append(append([]string{}, keywords.EN...), keywords.VI...) {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			all = append(all, trimmed)
		}
	}
	if len(all) == 0 {
		return nil
	}

	entries := roomdoc.ExtractEntries(room)
	blobs := make([]string, 0, len(entries))
	for _, entry := range entries {
		blobs = append(blobs, fuzzy.Normalize(roomdoc.TextBlob(entry)))
	}

	var bad []string
	if len(entries) == 0 {
		// Keywords with nothing to match are all suspicious.
		bad = all
	} else {
		for _, kw := range all {
			if !fuzzy.KeywordHitsBlob(kw, blobs) {
				bad = append(bad, kw)
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}

	if roomID == "" {
		roomID = "(unknown room id)"
	}
	return &BadKeywordRoom{
		RoomID:        roomID,
		File:          file,
		LeafCount:     len(entries),
		TotalKeywords: len(all),
		Bad:           bad,
	}
}
