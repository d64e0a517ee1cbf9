package roomdoc

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFKD and drops combining marks, so
// Vietnamese titles kebab-case to plain ASCII slugs.
var diacriticStripper = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// KebabCase converts arbitrary text into a slug: diacritics stripped,
// lowercased, non-alphanumeric runs collapsed to single hyphens, outer
// hyphens trimmed. Returns "entry" when nothing usable remains.
func KebabCase(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" {
		return "entry"
	}
	return out
}

// CanonicalID normalizes a room id for cross-source matching: lowercase
// with every non-alphanumeric run collapsed to a single underscore, so
// "Calm-Room" and "calm_room" reconcile to the same key.
func CanonicalID(id string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(id)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedCopy(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}
