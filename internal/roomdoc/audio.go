package roomdoc

import "strings"

// audioPathPrefixes are stripped leftmost-first from audio references.
// Each prefix is optional; "/public/audio/en/file.mp3" reduces to
// "file.mp3" through four passes.
var audioPathPrefixes = []string{"/", "public/", "audio/", "en/", "vi/"}

// NormalizeAudioFilename reduces an audio reference to a bare comparable
// filename. Already-bare filenames pass through unchanged.
func NormalizeAudioFilename(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range audioPathPrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
		}
	}
	return s
}

// AudioFilename extracts the normalized audio filename from an entry,
// tolerating the historical shapes: a bare string under audio/audio_en/
// audioEn, or a per-language object where en wins over vi, falling back to
// the first non-empty value.
func AudioFilename(entry map[string]any) (string, bool) {
	for _, key := range []string{"audio", "audio_en", "audioEn"} {
		raw, present := entry[key]
		if !present {
			continue
		}
		if s, ok := AsString(raw); ok {
			return NormalizeAudioFilename(s), true
		}
		if obj := AsObject(raw); obj != nil {
			if s, ok := audioFromObject(obj); ok {
				return NormalizeAudioFilename(s), true
			}
		}
	}
	return "", false
}

func audioFromObject(obj map[string]any) (string, bool) {
	for _, lang := range []string{"en", "vi"} {
		if s, ok := StringField(obj, lang); ok {
			return s, true
		}
	}
	// fall back to the first non-empty value, stable by key
	var keys []string
	for key := range obj {
		keys = append(keys, key)
	}
	for _, key := range sortedCopy(keys) {
		if s, ok := StringField(obj, key); ok {
			return s, true
		}
	}
	return "", false
}
