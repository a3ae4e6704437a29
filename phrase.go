package matchex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"
)

// PhraseMatcher matches literal token sequences instead of per-token
// predicates. Phrases are compared over a single attribute (TEXT by
// default, LOWER for case-insensitive matching) and searched in one pass
// through an Aho-Corasick automaton, keeping only hits that line up with
// token boundaries.
type PhraseMatcher struct {
	attr    string
	phrases map[string][][]string // key -> phrase token values
	keysFor map[string][]string   // joined phrase text -> keys, sorted
	auto    *ahocorasick.Automaton
	stale   bool
}

// NewPhraseMatcher returns a matcher comparing phrases over attr. An empty
// attr means TEXT.
func NewPhraseMatcher(attr string) (*PhraseMatcher, error) {
	if attr == "" {
		attr = "TEXT"
	}
	attr = normalizeAttr(attr)
	if !patternAttrs[attr] || attr == attrRegex {
		return nil, fmt.Errorf("cannot match phrases over attribute %q", attr)
	}
	return &PhraseMatcher{
		attr:    attr,
		phrases: map[string][][]string{},
		keysFor: map[string][]string{},
	}, nil
}

// Add registers the given phrases under key. Adding to an existing key
// accumulates phrases.
func (pm *PhraseMatcher) Add(key string, phrases [][]string) {
	if _, ok := pm.phrases[key]; !ok {
		pm.phrases[key] = nil
	}
	for _, phrase := range phrases {
		if len(phrase) == 0 {
			continue
		}
		pm.phrases[key] = append(pm.phrases[key], phrase)
		text := strings.Join(phrase, " ")
		if !containsString(pm.keysFor[text], key) {
			pm.keysFor[text] = append(pm.keysFor[text], key)
			sort.Strings(pm.keysFor[text])
		}
	}
	pm.stale = true
}

// Remove drops every phrase registered under key.
func (pm *PhraseMatcher) Remove(key string) error {
	if _, ok := pm.phrases[key]; !ok {
		return &UnknownKeyError{Key: key}
	}
	delete(pm.phrases, key)
	for text, keys := range pm.keysFor {
		for i, k := range keys {
			if k == key {
				keys = append(keys[:i], keys[i+1:]...)
				break
			}
		}
		if len(keys) == 0 {
			delete(pm.keysFor, text)
		} else {
			pm.keysFor[text] = keys
		}
	}
	pm.stale = true
	return nil
}

func (pm *PhraseMatcher) Len() int { return len(pm.phrases) }

func (pm *PhraseMatcher) Contains(key string) bool {
	_, ok := pm.phrases[key]
	return ok
}

// Find returns every token span whose attribute values equal a registered
// phrase. Hits that start or end inside a token are discarded.
func (pm *PhraseMatcher) Find(tokens []Token) ([]Match, error) {
	if err := pm.build(); err != nil {
		return nil, err
	}
	matches := []Match{}
	if pm.auto == nil || len(tokens) == 0 {
		return matches, nil
	}

	// Byte-offset projection: the automaton works on bytes, not runes.
	starts := make(map[int]int, len(tokens)+1)
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		starts[sb.Len()] = i
		v, _ := tok.Attr(pm.attr)
		sb.WriteString(v)
	}
	text := sb.String()
	starts[len(text)+1] = len(tokens) // sentinel past the virtual final separator

	haystack := []byte(text)
	for at := 0; at <= len(haystack); {
		m := pm.auto.Find(haystack, at)
		if m == nil {
			break
		}
		start, startOK := starts[m.Start]
		end, endOK := starts[m.End+1]
		alignedEnd := m.End == len(text) || text[m.End] == ' '
		if startOK && endOK && alignedEnd {
			for _, key := range pm.keysFor[text[m.Start:m.End]] {
				matches = append(matches, Match{Key: key, Start: start, End: end})
			}
		}
		at = m.Start + 1
	}
	return matches, nil
}

func (pm *PhraseMatcher) build() error {
	if !pm.stale {
		return nil
	}
	pm.auto = nil
	pm.stale = false
	if len(pm.keysFor) == 0 {
		return nil
	}
	texts := make([]string, 0, len(pm.keysFor))
	for text := range pm.keysFor {
		texts = append(texts, text)
	}
	sort.Strings(texts)
	builder := ahocorasick.NewBuilder()
	for _, text := range texts {
		builder.AddPattern([]byte(text))
	}
	auto, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build phrase automaton: %w", err)
	}
	pm.auto = auto
	return nil
}

func containsString(hay []string, needle string) bool {
	for _, s := range hay {
		if s == needle {
			return true
		}
	}
	return false
}
