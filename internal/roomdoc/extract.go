package roomdoc

import (
	"fmt"
	"sort"
)

// maxScanDepth bounds the deep scan so pathological documents cannot recurse
// without limit.
const maxScanDepth = 10

// childBucketKeys are array fields that mark a node as a container/group
// rather than a leaf entry.
var childBucketKeys = []string{
	"entries", "items", "cards", "blocks", "steps",
	"children", "nodes", "rows", "cols", "sections",
}

// bucketHosts are the wrapper objects legacy authoring tools nested child
// arrays under.
var bucketHosts = []string{"content", "payload", "data"}

// hasChildArrays reports whether obj carries any non-empty child-array
// bucket, either directly or under one of the known wrapper objects.
func hasChildArrays(obj map[string]any) bool {
	hosts := []map[string]any{obj}
	for _, hostKey := range bucketHosts {
		if host := AsObject(obj[hostKey]); host != nil {
			hosts = append(hosts, host)
		}
	}
	for _, host := range hosts {
		for _, key := range childBucketKeys {
			if len(AsArray(host[key])) > 0 {
				return true
			}
		}
	}
	return false
}

// audioFieldNames lists every historical key an audio reference can live
// under, string or {en, vi} object.
var audioFieldNames = []string{"audio", "audio_en", "audio_vi", "audioEn", "mp3", "mp3_en", "mp3_vi"}

func hasAudioReference(obj map[string]any) bool {
	for _, key := range audioFieldNames {
		switch v := obj[key].(type) {
		case string:
			if _, ok := AsString(v); ok {
				return true
			}
		case map[string]any:
			if len(v) > 0 {
				return true
			}
		}
	}
	return false
}

var keywordFieldNames = []string{"keywords_en", "keywords_vi", "keywords", "tags"}

func hasKeywordArray(obj map[string]any) bool {
	for _, key := range keywordFieldNames {
		if _, ok := obj[key].([]any); ok {
			return true
		}
	}
	return false
}

func hasIdentity(obj map[string]any) bool {
	for _, key := range []string{"slug", "id"} {
		if _, ok := StringField(obj, key); ok {
			return true
		}
	}
	return !EntryTitle(obj).IsZero()
}

// EntryLike reports whether obj plausibly is a leaf entry. A node qualifies
// only when it has no child-array buckets and shows at least two of:
// bilingual text, an audio reference, a keyword array, an identifying field.
// Requiring two signals keeps section/group wrappers out of the result.
func EntryLike(obj map[string]any) bool {
	if obj == nil || hasChildArrays(obj) {
		return false
	}
	signals := 0
	if !EntryText(obj).IsZero() {
		signals++
	}
	if hasAudioReference(obj) {
		signals++
	}
	if hasKeywordArray(obj) {
		signals++
	}
	if hasIdentity(obj) {
		signals++
	}
	return signals >= 2
}

// identityKey dedupes extracted entries: slug, then id, then a fingerprint
// built from title and audio fields.
func identityKey(entry map[string]any) string {
	if s, ok := StringField(entry, "slug"); ok {
		return "slug:" + s
	}
	if s, ok := StringField(entry, "id"); ok {
		return "id:" + s
	}
	title := EntryTitle(entry)
	audio, _ := AudioFilename(entry)
	return fmt.Sprintf("fp:%s|%s|%s", title.EN, title.VI, audio)
}

// ExtractEntries returns the flat list of leaf entries in a room document.
//
// When the document declares a non-empty top-level entries array, its object
// elements are returned as-is and no scanning happens. Otherwise the whole
// tree is walked depth-first up to maxScanDepth: every entry-like object is
// collected (deduplicated by identity), and scanning continues inside it
// since groups may nest further groups before reaching leaves. The reserved
// "_meta" key is never descended into, and the root object itself is never
// collected. Non-object input yields an empty list.
func ExtractEntries(room Document) []map[string]any {
	if room == nil {
		return nil
	}

	if direct := AsArray(room["entries"]); len(direct) > 0 {
		out := make([]map[string]any, 0, len(direct))
		for _, item := range direct {
			if obj := AsObject(item); obj != nil {
				out = append(out, obj)
			}
		}
		return out
	}

	var found []map[string]any
	seen := make(map[string]struct{})

	var visit func(node any, depth int)
	visit = func(node any, depth int) {
		if depth > maxScanDepth {
			return
		}
		if arr := AsArray(node); arr != nil {
			for _, item := range arr {
				visit(item, depth+1)
			}
			return
		}
		obj := AsObject(node)
		if obj == nil {
			return
		}
		if depth > 0 && EntryLike(obj) {
			key := identityKey(obj)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				found = append(found, obj)
			}
			// keep scanning: entry-like groups can still wrap deeper leaves
		}
		// Sorted keys keep scan order stable across runs.
		keys := make([]string, 0, len(obj))
		for key := range obj {
			if key == "_meta" {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			visit(obj[key], depth+1)
		}
	}
	visit(room, 0)

	return found
}
