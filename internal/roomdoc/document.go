package roomdoc

import "strings"

// Document is a parsed room JSON object. Values are whatever encoding/json
// produced: map[string]any, []any, string, float64, bool, nil.
type Document = map[string]any

// LangPair holds one bilingual text value. Either side may be empty.
type LangPair struct {
	EN string
	VI string
}

// IsZero reports whether both languages are absent.
func (p LangPair) IsZero() bool {
	return strings.TrimSpace(p.EN) == "" && strings.TrimSpace(p.VI) == ""
}

// Complete reports whether both languages carry non-empty text.
func (p LangPair) Complete() bool {
	return strings.TrimSpace(p.EN) != "" && strings.TrimSpace(p.VI) != ""
}

// AsObject returns v as a JSON object, or nil when v is anything else.
func AsObject(v any) map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

// AsArray returns v as a JSON array, or nil when v is anything else.
func AsArray(v any) []any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	return arr
}

// AsString returns v as a trimmed string. The second result is false when v
// is not a string or trims to empty.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// StringField reads a non-empty string field from obj.
func StringField(obj map[string]any, key string) (string, bool) {
	if obj == nil {
		return "", false
	}
	return AsString(obj[key])
}

// StringItems converts a JSON array value to its non-empty string elements.
func StringItems(v any) []string {
	arr := AsArray(v)
	if len(arr) == 0 {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := AsString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// RoomID resolves the document identity: id, then room_id, then the same
// keys nested under _meta/meta. Returns "" when no identity is declared.
func RoomID(room Document) string {
	for _, key := range []string{"id", "room_id"} {
		if s, ok := StringField(room, key); ok {
			return s
		}
	}
	for _, metaKey := range []string{"_meta", "meta"} {
		meta := AsObject(room[metaKey])
		for _, key := range []string{"id", "room_id"} {
			if s, ok := StringField(meta, key); ok {
				return s
			}
		}
	}
	return ""
}

// IsRoom reports whether doc looks like a room document: a JSON object
// declaring a string id. Kept deliberately narrow so manifest and config
// files sharing the data directory are not mistaken for rooms.
func IsRoom(doc any) bool {
	obj := AsObject(doc)
	if obj == nil {
		return false
	}
	_, ok := StringField(obj, "id")
	return ok
}
