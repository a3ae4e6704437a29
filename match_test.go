package matchex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchex/matchex"
	"github.com/matchex/matchex/tokenize"
)

func span(start, end int) matchex.Match {
	return matchex.Match{Key: "RULE", Start: start, End: end}
}

func posTokens(pairs ...string) []matchex.Token {
	var tokens []*tokenize.Token
	for i := 0; i < len(pairs); i += 2 {
		tok := &tokenize.Token{Text: pairs[i], Pos: pairs[i+1]}
		if i+2 < len(pairs) {
			tok.Space = " "
		}
		tokens = append(tokens, tok)
	}
	return tokenize.Doc(tokens...)
}

func TestMatchPatterns(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pattern matchex.Pattern
		tokens  []matchex.Token
		want    []matchex.Match
	}{
		{
			name:    "literal text",
			pattern: matchex.Pattern{{"TEXT": "JavaScript"}},
			tokens:  tokenize.Words("JavaScript", "is", "good"),
			want:    []matchex.Match{span(0, 1)},
		},
		{
			name:    "literal sequence",
			pattern: matchex.Pattern{{"LOWER": "hello"}, {"LOWER": "world"}},
			tokens:  tokenize.Words("Hello", "World", "!"),
			want:    []matchex.Match{span(0, 2)},
		},
		{
			name:    "zero or more greedy",
			pattern: matchex.Pattern{{"ORTH": "a"}, {"ORTH": "b", "OP": "*"}},
			tokens:  tokenize.Words("a", "b", "b", "c"),
			want:    []matchex.Match{span(0, 3)},
		},
		{
			name:    "zero or more absent",
			pattern: matchex.Pattern{{"ORTH": "a"}, {"ORTH": "b", "OP": "*"}},
			tokens:  tokenize.Words("a", "c"),
			want:    []matchex.Match{span(0, 1)},
		},
		{
			name:    "one or more collapses repeats",
			pattern: matchex.Pattern{{"LOWER": "b", "OP": "+"}},
			tokens:  tokenize.Words("a", "b", "b", "c"),
			want:    []matchex.Match{span(1, 3)},
		},
		{
			name: "negation with fixed arity",
			pattern: matchex.Pattern{
				{"TEXT": `"`},
				{"OP": "!", "IS_PUNCT": true},
				{"OP": "!", "IS_PUNCT": true},
				{"TEXT": `"`},
			},
			tokens: tokenize.Words(`"`, "some", "words", `"`),
			want:   []matchex.Match{span(0, 4)},
		},
		{
			name: "negation arity mismatch",
			pattern: matchex.Pattern{
				{"TEXT": `"`},
				{"OP": "!", "IS_PUNCT": true},
				{"OP": "!", "IS_PUNCT": true},
				{"TEXT": `"`},
			},
			tokens: tokenize.Words(`"`, "some", "three", "words", `"`),
			want:   nil,
		},
		{
			name:    "negated value present",
			pattern: matchex.Pattern{{"OP": "!", "LOWER": "not"}, {"LOWER": "good"}},
			tokens:  tokenize.Words("not", "good"),
			want:    nil,
		},
		{
			name:    "negated value absent",
			pattern: matchex.Pattern{{"OP": "!", "LOWER": "not"}, {"LOWER": "good"}},
			tokens:  tokenize.Words("very", "good"),
			want:    []matchex.Match{span(0, 2)},
		},
		{
			name:    "optional wildcard taken",
			pattern: matchex.Pattern{{"LOWER": "a"}, {"OP": "?"}, {"LOWER": "c"}},
			tokens:  tokenize.Words("a", "x", "c"),
			want:    []matchex.Match{span(0, 3)},
		},
		{
			name:    "optional wildcard skipped",
			pattern: matchex.Pattern{{"LOWER": "a"}, {"OP": "?"}, {"LOWER": "c"}},
			tokens:  tokenize.Words("a", "c"),
			want:    []matchex.Match{span(0, 2)},
		},
		{
			name:    "optional wildcard too far",
			pattern: matchex.Pattern{{"LOWER": "a"}, {"OP": "?"}, {"LOWER": "c"}},
			tokens:  tokenize.Words("a", "x", "x", "c"),
			want:    nil,
		},
		{
			name:    "length equals",
			pattern: matchex.Pattern{{"LENGTH": map[string]any{"==": 2}}},
			tokens:  tokenize.Words("a", "aa", "aaa"),
			want:    []matchex.Match{span(1, 2)},
		},
		{
			name:    "length at least",
			pattern: matchex.Pattern{{"LENGTH": map[string]any{">=": 3}}},
			tokens:  tokenize.Words("a", "aa", "aaa", "aaaa"),
			want:    []matchex.Match{span(2, 3), span(3, 4)},
		},
		{
			name:    "length below",
			pattern: matchex.Pattern{{"LENGTH": map[string]any{"<": 2}}},
			tokens:  tokenize.Words("a", "aa", "aaa"),
			want:    []matchex.Match{span(0, 1)},
		},
		{
			name:    "membership",
			pattern: matchex.Pattern{{"POS": map[string]any{"IN": []any{"NOUN", "VERB"}}}},
			tokens:  posTokens("The", "DET", "cat", "NOUN", "sat", "VERB"),
			want:    []matchex.Match{span(1, 2), span(2, 3)},
		},
		{
			name:    "negated membership",
			pattern: matchex.Pattern{{"POS": map[string]any{"NOT_IN": []any{"DET"}}}},
			tokens:  posTokens("The", "DET", "cat", "NOUN", "sat", "VERB"),
			want:    []matchex.Match{span(1, 2), span(2, 3)},
		},
		{
			name:    "free regex over natural text",
			pattern: matchex.Pattern{{"REGEX": `\bUS\d+\b`}},
			tokens:  tokenize.Tokenize("filed as US123 by court"),
			want:    []matchex.Match{span(2, 3)},
		},
		{
			name:    "free regex spanning tokens",
			pattern: matchex.Pattern{{"REGEX": `by\s+court`}},
			tokens:  tokenize.Tokenize("filed as US123 by court"),
			want:    []matchex.Match{span(3, 5)},
		},
		{
			name:    "anchored attribute regex",
			pattern: matchex.Pattern{{"ORTH": map[string]any{"REGEX": "^sub(?:way|urb)$"}}},
			tokens:  tokenize.Words("subway", "and", "suburb"),
			want:    []matchex.Match{span(0, 1), span(2, 3)},
		},
		{
			name:    "unanchored attribute regex",
			pattern: matchex.Pattern{{"LOWER": map[string]any{"REGEX": "way"}}},
			tokens:  tokenize.Words("subway", "and", "highways"),
			want:    []matchex.Match{span(0, 1), span(2, 3)},
		},
		{
			name:    "boolean attribute",
			pattern: matchex.Pattern{{"IS_DIGIT": true}},
			tokens:  tokenize.Words("abc", "123"),
			want:    []matchex.Match{span(1, 2)},
		},
		{
			name: "two attributes one position",
			pattern: matchex.Pattern{
				{"LOWER": "us123", "LENGTH": map[string]any{">=": 3}},
			},
			tokens: tokenize.Words("x", "US123"),
			want:   []matchex.Match{span(1, 2)},
		},
		{
			name:    "case folding on lower",
			pattern: matchex.Pattern{{"LOWER": "wörld"}},
			tokens:  tokenize.Words("héllo", "wörld"),
			want:    []matchex.Match{span(1, 2)},
		},
		{
			name:    "lower compiles case-insensitive",
			pattern: matchex.Pattern{{"LOWER": "Cat"}},
			tokens:  tokenize.Words("the", "CAT", "sat"),
			want:    []matchex.Match{span(1, 2)},
		},
		{
			name:    "no match",
			pattern: matchex.Pattern{{"LOWER": "absent"}},
			tokens:  tokenize.Words("nothing", "here"),
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchex.NewMatcher()
			require.NoError(t, m.Add("RULE", []matchex.Pattern{tt.pattern}, nil))

			got, err := m.Find(tt.tokens)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			for _, mt := range got {
				assert.True(t, 0 <= mt.Start && mt.Start < mt.End && mt.End <= len(tt.tokens),
					"span (%d,%d) out of bounds", mt.Start, mt.End)
			}
		})
	}
}

func TestMatchSubmatchFiltering(t *testing.T) {
	t.Parallel()
	m := matchex.NewMatcher()
	require.NoError(t, m.Add("RULE", []matchex.Pattern{
		{{"LOWER": "b", "OP": "*"}, {"LOWER": "c"}},
	}, nil))

	// of all matches ending at "c", only the longest survives
	got, err := m.Find(tokenize.Words("a", "b", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, []matchex.Match{span(1, 4)}, got)
}

func TestMatchRepeatedRuns(t *testing.T) {
	t.Parallel()
	m := matchex.NewMatcher()
	require.NoError(t, m.Add("RULE", []matchex.Pattern{
		{{"LOWER": "go"}, {"LOWER": "home"}},
	}, nil))

	tokens := tokenize.Words("go", "home", "then", "go", "home")
	got, err := m.Find(tokens)
	require.NoError(t, err)
	assert.Equal(t, []matchex.Match{span(0, 2), span(3, 5)}, got)
}
