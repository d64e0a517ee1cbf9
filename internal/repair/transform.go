package repair

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"roomaudit/internal/roomdoc"
)

// Options selects which classes of fixes Transform may apply.
type Options struct {
	// Structural enables fixes that synthesize new data: slug generation
	// and the aggregate "all" entry. When false those fixes are reported
	// as suggestions instead of being applied.
	Structural bool
}

// Result is the outcome of transforming one room document.
type Result struct {
	Fixed  roomdoc.Document
	Issues []string
	// Suggestions lists structural fixes that were withheld by Options.
	Suggestions   []string
	HealthScore   int
	AudioCoverage int
}

var deprecatedRootKeys = []string{
	"schema_id",
	"schema_version",
	"meta",
	"localization",
	"safety_disclaimer",
	"crisis_footer",
}

var deprecatedEntryKeys = []string{"dare", "duration", "system", "severity"}

// cloneDocument deep-copies via a JSON round trip, the document having come
// from a JSON decode in the first place.
func cloneDocument(doc roomdoc.Document) roomdoc.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		out := make(roomdoc.Document, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	var out roomdoc.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return doc
	}
	return out
}

func fillBilingual(obj map[string]any, field, label string, issues *[]string) {
	value := roomdoc.AsObject(obj[field])
	if value == nil {
		return
	}
	en, _ := roomdoc.StringField(value, "en")
	vi, _ := roomdoc.StringField(value, "vi")
	hasEn := strings.TrimSpace(en) != ""
	hasVi := strings.TrimSpace(vi) != ""
	switch {
	case !hasEn && hasVi:
		value["en"] = vi
		*issues = append(*issues, label+": filled missing en from vi")
	case !hasVi && hasEn:
		value["vi"] = en
		*issues = append(*issues, label+": filled missing vi from en")
	}
}

func stripFolder(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// normalizeAudio reduces any historical audio shape to a bare filename or
// nil. Objects pick en, then vi, then nothing.
func normalizeAudio(audio any, context string, issues *[]string) any {
	if audio == nil {
		return nil
	}
	if obj := roomdoc.AsObject(audio); obj != nil {
		en, _ := roomdoc.StringField(obj, "en")
		vi, _ := roomdoc.StringField(obj, "vi")
		chosen := strings.TrimSpace(en)
		if chosen == "" {
			chosen = strings.TrimSpace(vi)
		}
		if chosen == "" {
			return nil
		}
		*issues = append(*issues, context+": normalized audio object to string")
		return stripFolder(chosen)
	}
	if s, ok := roomdoc.AsString(audio); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		normalized := stripFolder(trimmed)
		if normalized != trimmed {
			*issues = append(*issues, context+": stripped folder path from audio")
		}
		return normalized
	}
	return nil
}

// severityNumber coerces the historical severity shapes to a number. The
// boolean reports whether the value was numeric at all.
func severityNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func clampSeverity(entry map[string]any, index int, issues *[]string) {
	const key = "severity_level"
	if entry[key] == nil {
		return
	}
	raw, ok := severityNumber(entry[key])
	if !ok {
		entry[key] = float64(3)
		*issues = append(*issues, fmt.Sprintf("entry[%d]: invalid severity_level -> set to 3", index))
		return
	}
	clamped := raw
	if raw < 1 {
		clamped = 1
	}
	if raw > 5 {
		clamped = 5
	}
	if clamped != raw {
		*issues = append(*issues, fmt.Sprintf("entry[%d]: clamped severity_level %g -> %g", index, raw, clamped))
	}
	entry[key] = clamped
}

func synthesizeSlug(entry map[string]any, index int) string {
	var base string
	if keywords := roomdoc.StringItems(entry["keywords_en"]); len(keywords) > 0 {
		base = keywords[0]
	} else if title := roomdoc.EntryTitle(entry); strings.TrimSpace(title.EN) != "" {
		base = title.EN
	} else if copyField := roomdoc.AsObject(entry["copy"]); copyField != nil {
		if en, ok := roomdoc.StringField(copyField, "en"); ok {
			runes := []rune(en)
			if len(runes) > 40 {
				runes = runes[:40]
			}
			base = string(runes)
		}
	}
	if strings.TrimSpace(base) == "" {
		base = fmt.Sprintf("entry-%d", index+1)
	}
	return roomdoc.KebabCase(base)
}

func hasAllEntry(entries []any) bool {
	for _, item := range entries {
		entry := roomdoc.AsObject(item)
		if entry == nil {
			continue
		}
		if slug, _ := roomdoc.StringField(entry, "slug"); slug == "all" || slug == "all-entry" {
			return true
		}
		for _, kw := range roomdoc.StringItems(entry["keywords_en"]) {
			if strings.ToLower(kw) == "all" {
				return true
			}
		}
	}
	return false
}

const (
	allEntryIntroEN = "This entry gathers all other pieces in this room so you can listen or read them straight through in one flow."
	allEntryIntroVI = "Mục này gom toàn bộ các mảnh nội dung trong phòng để bạn có thể nghe hoặc đọc liền mạch trong một lần."
)

func buildAllEntry(entries []any) map[string]any {
	var slugs []string
	for _, item := range entries {
		if entry := roomdoc.AsObject(item); entry != nil {
			if slug, ok := roomdoc.StringField(entry, "slug"); ok && slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}

	en := allEntryIntroEN
	vi := allEntryIntroVI
	if len(slugs) > 0 {
		en += " Included entries: " + strings.Join(slugs, ", ") + "."
		vi += " Bao gồm các mục: " + strings.Join(slugs, ", ") + "."
	}

	return map[string]any{
		"slug":        "all",
		"keywords_en": []any{"all", "summary", "full room"},
		"keywords_vi": []any{"tổng thể", "tất cả", "cả phòng"},
		"copy":        map[string]any{"en": en, "vi": vi},
		"tags":        []any{"meta", "all"},
		"audio":       nil,
	}
}

func removeDeprecatedKeys(doc roomdoc.Document, issues *[]string) {
	for _, key := range deprecatedRootKeys {
		if _, ok := doc[key]; ok {
			delete(doc, key)
			*issues = append(*issues, fmt.Sprintf("removed deprecated root key %q", key))
		}
	}
	for _, item := range roomdoc.AsArray(doc["entries"]) {
		entry := roomdoc.AsObject(item)
		if entry == nil {
			continue
		}
		for _, key := range deprecatedEntryKeys {
			if _, ok := entry[key]; ok {
				delete(entry, key)
				label, _ := roomdoc.StringField(entry, "slug")
				*issues = append(*issues, fmt.Sprintf("removed deprecated entry key %q in %q", key, label))
			}
		}
	}
}

func roundRatio(part, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Transform runs every applicable fix over a deep copy of room and
// recomputes the health metrics over the final entry list. It is
// deterministic and idempotent: transforming its own output reports no
// issues.
func Transform(room roomdoc.Document, opts Options) Result {
	var issues, suggestions []string
	doc := cloneDocument(room)

	if roomdoc.AsArray(doc["entries"]) == nil {
		doc["entries"] = []any{}
		issues = append(issues, "entries: created empty array")
	}

	removeDeprecatedKeys(doc, &issues)

	fillBilingual(doc, "title", "root.title", &issues)
	fillBilingual(doc, "content", "root.content", &issues)

	entries := roomdoc.AsArray(doc["entries"])
	for index, item := range entries {
		entry := roomdoc.AsObject(item)
		if entry == nil {
			continue
		}
		context := fmt.Sprintf("entry[%d]", index)

		fillBilingual(entry, "copy", context+".copy", &issues)

		entry["audio"] = normalizeAudio(entry["audio"], context, &issues)

		clampSeverity(entry, index, &issues)

		if slug, _ := roomdoc.StringField(entry, "slug"); strings.TrimSpace(slug) == "" {
			generated := synthesizeSlug(entry, index)
			if opts.Structural {
				entry["slug"] = generated
				issues = append(issues, fmt.Sprintf("entry[%d]: generated slug %q", index, generated))
			} else {
				suggestions = append(suggestions, fmt.Sprintf("entry[%d]: missing slug, would generate %q", index, generated))
			}
		}
	}

	if !hasAllEntry(entries) {
		if opts.Structural {
			doc["entries"] = append(entries, buildAllEntry(entries))
			issues = append(issues, "added all entry")
		} else {
			suggestions = append(suggestions, "missing all entry, would append one")
		}
	}

	final := roomdoc.AsArray(doc["entries"])
	total := len(final)
	withAudio := 0
	withBothLanguages := 0
	for _, item := range final {
		entry := roomdoc.AsObject(item)
		if entry == nil {
			continue
		}
		if audio, ok := roomdoc.AsString(entry["audio"]); ok && strings.TrimSpace(audio) != "" {
			withAudio++
		}
		if copyField := roomdoc.AsObject(entry["copy"]); copyField != nil {
			en, _ := roomdoc.StringField(copyField, "en")
			vi, _ := roomdoc.StringField(copyField, "vi")
			if strings.TrimSpace(en) != "" && strings.TrimSpace(vi) != "" {
				withBothLanguages++
			}
		}
	}

	audioCoverage := roundRatio(withAudio, total)
	languageCoverage := roundRatio(withBothLanguages, total)

	return Result{
		Fixed:         doc,
		Issues:        issues,
		Suggestions:   suggestions,
		HealthScore:   (audioCoverage + languageCoverage + 1) / 2,
		AudioCoverage: audioCoverage,
	}
}
