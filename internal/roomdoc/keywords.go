package roomdoc

import (
	"sort"
	"strings"
)

// Keywords holds the normalized per-language keyword sets of a room or
// entry.
type Keywords struct {
	EN []string
	VI []string
}

// NormalizeToken canonicalizes one keyword or matchable term: trimmed,
// lowercased, internal whitespace runs collapsed to single spaces.
func NormalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if token := NormalizeToken(item); token != "" {
			out = append(out, token)
		}
	}
	return out
}

type keywordSet map[string]struct{}

func (k keywordSet) add(tokens ...string) {
	for _, token := range tokens {
		if token != "" {
			k[token] = struct{}{}
		}
	}
}

func (k keywordSet) sorted() []string {
	out := make([]string, 0, len(k))
	for token := range k {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// EntryKeywords builds the matchable keyword sets of one entry.
//
// Per-language arrays contribute to their own language. Legacy combined
// "keywords"/"tags" arrays predate the bilingual split and cannot be
// disambiguated, so they contribute to both. The entry's slug and title are
// injected into both sets as implicit terms: in the UI, clicking an entry's
// own title must always match that entry.
func EntryKeywords(entry map[string]any) Keywords {
	en := make(keywordSet)
	vi := make(keywordSet)

	en.add(normalizeAll(StringItems(entry["keywords_en"]))...)
	vi.add(normalizeAll(StringItems(entry["keywords_vi"]))...)

	for _, key := range []string{"keywords", "tags"} {
		combined := normalizeAll(StringItems(entry[key]))
		en.add(combined...)
		vi.add(combined...)
	}

	if slug, ok := StringField(entry, "slug"); ok {
		token := NormalizeToken(slug)
		en.add(token)
		vi.add(token)
	}
	title := EntryTitle(entry)
	for _, t := range []string{title.EN, title.VI} {
		token := NormalizeToken(t)
		en.add(token)
		vi.add(token)
	}

	return Keywords{EN: en.sorted(), VI: vi.sorted()}
}

// RoomKeywords resolves the room-level declared keywords: the flat
// keywords_en/keywords_vi arrays, falling back to the nested keywords.en
// shape, then to the _meta/meta copies some generators emitted.
func RoomKeywords(room Document) Keywords {
	return Keywords{
		EN: normalizeAll(roomKeywordList(room, "en")),
		VI: normalizeAll(roomKeywordList(room, "vi")),
	}
}

func roomKeywordList(room Document, lang string) []string {
	if items := StringItems(room["keywords_"+lang]); len(items) > 0 {
		return items
	}
	if nested := AsObject(room["keywords"]); nested != nil {
		if items := StringItems(nested[lang]); len(items) > 0 {
			return items
		}
	}
	for _, metaKey := range []string{"_meta", "meta"} {
		if meta := AsObject(room[metaKey]); meta != nil {
			if items := StringItems(meta["keywords_"+lang]); len(items) > 0 {
				return items
			}
		}
	}
	return nil
}

// TextBlob concatenates every candidate text field of an entry, both
// languages across all legacy names plus its identifying fields, into one
// normalized string for substring containment checks.
func TextBlob(entry map[string]any) string {
	var parts []string
	push := func(s string) {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}

	if s, ok := StringField(entry, "id"); ok {
		push(s)
	}
	if s, ok := StringField(entry, "slug"); ok {
		push(s)
	}
	for _, name := range titleFieldNames {
		pair := BilingualField(entry, name)
		push(pair.EN)
		push(pair.VI)
	}

	for _, name := range textFieldNames {
		pair := BilingualField(entry, name)
		push(pair.EN)
		push(pair.VI)
	}

	return NormalizeToken(strings.Join(parts, " \n "))
}
