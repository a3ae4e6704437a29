package matchex

import "sort"

// Match is one result span, addressed by token index: the rule that fired
// and the half-open token interval [Start, End).
type Match struct {
	Key   string
	Start int
	End   int
}

// OnMatch is invoked once per match, in discovery order, with the matcher,
// the tokens that were matched over, the index of the current match and the
// full match list. Callbacks may mutate the tokens; they run sequentially
// so accumulating side effects see every earlier callback's work.
type OnMatch func(m *Matcher, tokens []Token, i int, matches []Match)

type rule struct {
	compiled []*compiledPattern
	patterns []Pattern
	onMatch  OnMatch
}

// Matcher is a registry of match rules over token sequences. Patterns are
// compiled once when added; Find runs them all over a document. A Matcher
// must not be mutated concurrently with an in-flight Find, but distinct
// Find calls on an unmutated Matcher are independent and may run in
// parallel.
type Matcher struct {
	rules     map[string]*rule
	keys      []string // insertion order, for deterministic results
	seenAttrs map[string]bool
}

// MatchOptions tunes one Find call. AllowMissing bypasses the check that
// every annotation-dependent attribute referenced by a rule was computed on
// the supplied tokens.
type MatchOptions struct {
	AllowMissing bool
}

func NewMatcher() *Matcher {
	return &Matcher{
		rules:     map[string]*rule{},
		seenAttrs: map[string]bool{},
	}
}

// Len returns the number of rules, i.e. distinct keys, not the number of
// individual patterns.
func (m *Matcher) Len() int { return len(m.rules) }

// Contains reports whether any rule is registered under key.
func (m *Matcher) Contains(key string) bool {
	_, ok := m.rules[key]
	return ok
}

// Get returns the callback and patterns registered under key.
func (m *Matcher) Get(key string) (OnMatch, []Pattern, bool) {
	r, ok := m.rules[key]
	if !ok {
		return nil, nil, false
	}
	return r.onMatch, r.patterns, true
}

// Add registers patterns under key. If the key already exists the patterns
// are appended to the previous ones and the previous callback is replaced;
// onMatch may be nil to perform no action. Every pattern is validated and
// compiled here: a malformed pattern fails the whole call with
// InvalidPatternError and leaves the registry untouched.
func (m *Matcher) Add(key string, patterns []Pattern, onMatch OnMatch) error {
	compiled := make([]*compiledPattern, 0, len(patterns))
	for i, p := range patterns {
		cp, err := compilePattern(p)
		if err != nil {
			return &InvalidPatternError{Key: key, Index: i, Reason: err.Error()}
		}
		compiled = append(compiled, cp)
	}

	r, ok := m.rules[key]
	if !ok {
		r = &rule{}
		m.rules[key] = r
		m.keys = append(m.keys, key)
	}
	r.compiled = append(r.compiled, compiled...)
	r.patterns = append(r.patterns, patterns...)
	r.onMatch = onMatch
	for _, cp := range compiled {
		for _, attr := range cp.seenAttrs {
			m.seenAttrs[attr] = true
		}
	}
	return nil
}

// Remove drops the rule registered under key, failing with UnknownKeyError
// if there is none.
func (m *Matcher) Remove(key string) error {
	if _, ok := m.rules[key]; !ok {
		return &UnknownKeyError{Key: key}
	}
	delete(m.rules, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Find returns all token spans matching any registered pattern and then
// dispatches rule callbacks in match order.
func (m *Matcher) Find(tokens []Token) ([]Match, error) {
	return m.FindWith(tokens, MatchOptions{})
}

// FindWith is Find with explicit options. Identical triples produced by
// alternative patterns of the same rule are reported once.
func (m *Matcher) FindWith(tokens []Token, opts MatchOptions) ([]Match, error) {
	if !opts.AllowMissing {
		if err := m.checkAnnotations(tokens); err != nil {
			return nil, err
		}
	}

	call := newMatchCall(tokens)
	matches := []Match{}
	seen := map[Match]bool{}
	for _, key := range m.keys {
		r := m.rules[key]
		for _, cp := range r.compiled {
			for _, sp := range filterSubmatches(runPattern(call, cp)) {
				mt := Match{Key: key, Start: sp.start, End: sp.end}
				if seen[mt] {
					continue
				}
				seen[mt] = true
				matches = append(matches, mt)
			}
		}
	}

	for i, mt := range matches {
		if r := m.rules[mt.Key]; r != nil && r.onMatch != nil {
			r.onMatch(m, tokens, i, matches)
		}
	}
	return matches, nil
}

// checkAnnotations fails fast when a rule references an attribute that the
// upstream pipeline never computed on these tokens.
func (m *Matcher) checkAnnotations(tokens []Token) error {
	attrs := make([]string, 0, len(annotationAttrs))
	for attr := range annotationAttrs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	for _, attr := range attrs {
		if !m.seenAttrs[attr] {
			continue
		}
		if !hasAnnotation(tokens, attr) {
			return &MissingAnnotationError{Attr: attr, Pipe: annotationAttrs[attr]}
		}
	}
	return nil
}

func hasAnnotation(tokens []Token, attr string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, tok := range tokens {
		if _, ok := tok.Attr(attr); ok {
			return true
		}
	}
	return false
}
