// Package fuzzy implements the permissive keyword matcher used by the
// bad-keyword audit.
//
// Where the strict coverage checker tests exact set membership of declared
// keywords, this matcher tests substring containment of a stemmed keyword
// inside the stemmed text blob of each entry. It is deliberately lossy: the
// stemmer only handles a few English plural suffixes and ignores Vietnamese
// morphology entirely. The two matchers catch different failure classes and
// are kept separate on purpose; never fold this logic into the strict
// checker.
package fuzzy

import (
	"strings"
	"unicode"
)

// StemToken applies the light plural stemmer to one lowercase word.
// Words shorter than four runes pass through untouched.
func StemToken(word string) string {
	runes := []rune(word)
	if len(runes) < 4 {
		return word
	}
	if len(runes) >= 5 && strings.HasSuffix(word, "ies") {
		return word[:len(word)-3] + "y"
	}
	if len(runes) >= 5 && strings.HasSuffix(word, "es") {
		root := word[:len(word)-2]
		if sibilantEnd(root) {
			return root
		}
	}
	if strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

func sibilantEnd(root string) bool {
	for _, suffix := range []string{"ch", "sh", "s", "x", "z"} {
		if strings.HasSuffix(root, suffix) {
			return true
		}
	}
	return false
}

// Normalize prepares text for fuzzy containment: lowercase, separators and
// punctuation flattened to spaces, then each word stemmed.
func Normalize(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			// separators, punctuation, symbols all become spaces
			b.WriteByte(' ')
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = StemToken(w)
	}
	return strings.Join(words, " ")
}

// KeywordHitsBlob reports whether the stemmed keyword occurs inside any of
// the pre-normalized entry blobs. Empty keywords are treated as hits so
// they never surface as findings.
func KeywordHitsBlob(keyword string, blobs []string) bool {
	k := Normalize(keyword)
	if k == "" {
		return true
	}
	for _, blob := range blobs {
		if strings.Contains(blob, k) {
			return true
		}
	}
	return false
}
