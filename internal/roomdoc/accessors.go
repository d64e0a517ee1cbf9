package roomdoc

// textFieldNames lists every historical name for entry body text, in the
// priority order the UI resolves them. "copy" is the canonical modern name.
var textFieldNames = []string{"copy", "content", "essay", "text", "body", "description", "summary"}

// titleFieldNames lists every historical name for an entry heading.
var titleFieldNames = []string{"title", "heading", "name"}

// bilingualStrategy resolves one field-name variant to a LangPair.
// Strategies are tried in order; the first non-zero result wins.
type bilingualStrategy func(obj map[string]any, name string) LangPair

var bilingualStrategies = []bilingualStrategy{
	nestedPair,   // field: {en: "...", vi: "..."}
	suffixedPair, // field_en / field_vi
	flatString,   // field: "..." (pre-bilingual data, counted as EN)
}

func nestedPair(obj map[string]any, name string) LangPair {
	nested := AsObject(obj[name])
	if nested == nil {
		return LangPair{}
	}
	var pair LangPair
	pair.EN, _ = StringField(nested, "en")
	pair.VI, _ = StringField(nested, "vi")
	return pair
}

func suffixedPair(obj map[string]any, name string) LangPair {
	var pair LangPair
	pair.EN, _ = StringField(obj, name+"_en")
	pair.VI, _ = StringField(obj, name+"_vi")
	return pair
}

func flatString(obj map[string]any, name string) LangPair {
	s, ok := StringField(obj, name)
	if !ok {
		return LangPair{}
	}
	return LangPair{EN: s}
}

// BilingualField resolves a single named field through the strategy list.
func BilingualField(obj map[string]any, name string) LangPair {
	if obj == nil {
		return LangPair{}
	}
	for _, strategy := range bilingualStrategies {
		if pair := strategy(obj, name); !pair.IsZero() {
			return pair
		}
	}
	return LangPair{}
}

// EntryText resolves the entry body text across every legacy field name.
func EntryText(entry map[string]any) LangPair {
	return firstPair(entry, textFieldNames)
}

// EntryTitle resolves the entry heading across every legacy field name.
func EntryTitle(entry map[string]any) LangPair {
	return firstPair(entry, titleFieldNames)
}

func firstPair(obj map[string]any, names []string) LangPair {
	for _, name := range names {
		if pair := BilingualField(obj, name); !pair.IsZero() {
			return pair
		}
	}
	return LangPair{}
}

// EntryLabel names an entry for report output: slug, then id, then title.
func EntryLabel(entry map[string]any) string {
	if s, ok := StringField(entry, "slug"); ok {
		return s
	}
	if s, ok := StringField(entry, "id"); ok {
		return s
	}
	if title := EntryTitle(entry); title.EN != "" {
		return title.EN
	} else if title.VI != "" {
		return title.VI
	}
	return "(entry)"
}
