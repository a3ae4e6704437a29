package matchex

// Noun and verb chunk rules over part-of-speech tags.
var nounPhrasePatterns = []Pattern{
	{
		{"POS": "DET", "OP": "?"},
		{"POS": map[string]any{"IN": []any{"ADJ", "ADP", "ADV", "NOUN", "PROPN"}}, "OP": "*"},
		{"POS": map[string]any{"IN": []any{"CONJ", "CCONJ"}}, "OP": "?"},
		{"POS": map[string]any{"IN": []any{"ADJ", "ADP", "ADV", "NOUN", "PROPN"}}, "OP": "+"},
		{"POS": map[string]any{"IN": []any{"NOUN", "PRON", "PROPN"}}},
	},
}

var verbPhrasePatterns = []Pattern{
	{
		{"POS": map[string]any{"IN": []any{"ADV", "AUX", "VERB"}}, "OP": "+"},
		{"POS": "VERB", "OP": "+"},
		{"POS": "ADV", "OP": "*"},
	},
}

// Phrase is a detected chunk: its label (NP or VP) and token span.
type Phrase struct {
	Label string
	Start int
	End   int
}

// PhraseDetector finds noun and verb chunks in a tagged token sequence,
// keeping the longest non-overlapping spans in reading order.
type PhraseDetector struct {
	matcher *Matcher
}

func NewPhraseDetector() *PhraseDetector {
	m := NewMatcher()
	mustAdd(m, "NP", nounPhrasePatterns)
	mustAdd(m, "VP", verbPhrasePatterns)
	return &PhraseDetector{matcher: m}
}

func mustAdd(m *Matcher, key string, patterns []Pattern) {
	if err := m.Add(key, patterns, nil); err != nil {
		panic(err)
	}
}

// Detect requires part-of-speech annotation on the tokens and fails with
// MissingAnnotationError when it is absent.
func (d *PhraseDetector) Detect(tokens []Token) ([]Phrase, error) {
	matches, err := d.matcher.Find(tokens)
	if err != nil {
		return nil, err
	}
	phrases := []Phrase{}
	goodStart := -1
	for _, m := range matches {
		if goodStart >= m.End {
			continue
		}
		goodStart = m.End
		phrases = append(phrases, Phrase{Label: m.Key, Start: m.Start, End: m.End})
	}
	return phrases, nil
}
