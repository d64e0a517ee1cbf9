// Package coverage checks that a room's declared keyword buttons actually
// lead somewhere.
//
// Every room-level keyword (EN or VI) must be matched by at least one
// extracted entry's normalized keyword set, and a room must have at least
// one extractable entry at all. Misses are hard findings that fail CI;
// legacy-only field shapes produce warnings that never do. CheckRoom is a
// pure function of the document: it holds no state and performs no I/O.
package coverage

import (
	"fmt"

	"roomaudit/internal/roomdoc"
)

// FindingType tags one class of structural defect.
type FindingType string

const (
	// RoomHasZeroEntries: neither the classic entries array nor the deep
	// scan produced any entry. Hard unless empty rooms are allowed.
	RoomHasZeroEntries FindingType = "ROOM_HAS_ZERO_ENTRIES"
	// RoomKeywordNoEntryMatch: a declared room keyword matches no entry.
	// Always hard.
	RoomKeywordNoEntryMatch FindingType = "ROOM_KEYWORD_NO_ENTRY_MATCH"
	// EntrySchemaWarning: an entry relies on a legacy-only field shape the
	// UI has to coerce. Never hard.
	EntrySchemaWarning FindingType = "ENTRY_SCHEMA_WARNING"
	// RoomLooksBroken: the room advertises keyword buttons but has zero
	// entries, so users see an empty screen. Hard unless empty rooms are
	// allowed.
	RoomLooksBroken FindingType = "ROOM_LOOKS_BROKEN"
)

// Finding is one defect detected in one room.
type Finding struct {
	Type    FindingType
	RoomID  string
	File    string
	Keyword string // set for RoomKeywordNoEntryMatch
	Entry   string // set for EntrySchemaWarning
	Details string
}

// Hard reports whether this finding should fail CI. Zero-entry findings can
// be demoted to report-only via allowEmptyRooms.
func (f Finding) Hard(allowEmptyRooms bool) bool {
	switch f.Type {
	case RoomKeywordNoEntryMatch:
		return true
	case RoomHasZeroEntries, RoomLooksBroken:
		return !allowEmptyRooms
	default:
		return false
	}
}

// CheckRoom audits one parsed room document. file is the source path used
// in finding details; it may be empty for DB-resident rooms.
func CheckRoom(roomID, file string, room roomdoc.Document) []Finding {
	var findings []Finding

	keywords := roomdoc.RoomKeywords(room)
	entries := roomdoc.ExtractEntries(room)

	if len(entries) == 0 {
		findings = append(findings, Finding{
			Type:    RoomHasZeroEntries,
			RoomID:  roomID,
			File:    file,
			Details: fmt.Sprintf("id=%q has no entries detected (classic entries[] empty and deep scan empty)", roomID),
		})
	}

	entryEN := make(map[string]struct{})
	entryVI := make(map[string]struct{})
	for _, entry := range entries {
		kw := roomdoc.EntryKeywords(entry)
		for _, token := range kw.EN {
			entryEN[token] = struct{}{}
		}
		for _, token := range kw.VI {
			entryVI[token] = struct{}{}
		}
		findings = append(findings, schemaWarnings(roomID, file, entry)...)
	}

	for _, kw := range keywords.EN {
		if _, ok := entryEN[kw]; !ok {
			findings = append(findings, Finding{
				Type:    RoomKeywordNoEntryMatch,
				RoomID:  roomID,
				File:    file,
				Keyword: kw,
				Details: fmt.Sprintf("id=%q keyword_en=%q matches no entry (remove it or add it to one entry's keywords_en/tags)", roomID, kw),
			})
		}
	}
	for _, kw := range keywords.VI {
		if _, ok := entryVI[kw]; !ok {
			findings = append(findings, Finding{
				Type:    RoomKeywordNoEntryMatch,
				RoomID:  roomID,
				File:    file,
				Keyword: kw,
				Details: fmt.Sprintf("id=%q keyword_vi=%q matches no entry (remove it or add it to one entry's keywords_vi/tags)", roomID, kw),
			})
		}
	}

	if (len(keywords.EN) > 0 || len(keywords.VI) > 0) && len(entries) == 0 {
		findings = append(findings, Finding{
			Type:    RoomLooksBroken,
			RoomID:  roomID,
			File:    file,
			Details: fmt.Sprintf("id=%q has keyword buttons but no entries; users see empty content", roomID),
		})
	}

	return findings
}

// schemaWarnings flags entries still using legacy-only field shapes.
func schemaWarnings(roomID, file string, entry map[string]any) []Finding {
	var findings []Finding
	label := roomdoc.EntryLabel(entry)

	hasCopy := roomdoc.AsObject(entry["copy"]) != nil
	hasContent := roomdoc.AsObject(entry["content"]) != nil
	if hasCopy && !hasContent {
		findings = append(findings, Finding{
			Type:    EntrySchemaWarning,
			RoomID:  roomID,
			File:    file,
			Entry:   label,
			Details: fmt.Sprintf("id=%q entry=%q has copy{} but no content{} (UI coerces, please migrate)", roomID, label),
		})
	}

	_, hasAudioString := roomdoc.AsString(entry["audio"])
	_, hasAudioEN := roomdoc.AsString(entry["audio_en"])
	if hasAudioString && !hasAudioEN {
		findings = append(findings, Finding{
			Type:    EntrySchemaWarning,
			RoomID:  roomID,
			File:    file,
			Entry:   label,
			Details: fmt.Sprintf("id=%q entry=%q has audio(string) but no audio_en (UI coerces, please migrate)", roomID, label),
		})
	}

	return findings
}
