// Package tokenize provides a minimal whitespace tokenizer and a concrete
// token type for feeding the matcher. Linguistic annotation (lemmas, tags,
// dependencies) is expected from an upstream pipeline; the fields are plain
// so such a pipeline, or a test, can set them directly.
package tokenize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/matchex/matchex"
)

// Token is one attributed token. Text and Space come from the tokenizer;
// the annotation fields start empty and the corresponding attributes report
// missing until they are filled in.
type Token struct {
	Text  string
	Space string // trailing whitespace from the original text

	Lemma   string
	Pos     string
	Tag     string
	Dep     string
	Morph   string
	Norm    string
	EntType string
	EntIOB  string
	Lang    string
	Cluster int

	SentStart bool
	Stop      bool

	ext map[string]any
}

// SetExt sets a custom extension attribute.
func (t *Token) SetExt(name string, value any) {
	if t.ext == nil {
		t.ext = map[string]any{}
	}
	t.ext[name] = value
}

func (t *Token) Ext(name string) (string, bool) {
	v, ok := t.ext[name]
	if !ok {
		return "", false
	}
	return renderValue(v), true
}

func (t *Token) Whitespace() string { return t.Space }

// Attr serves the built-in attribute set. Annotation-dependent attributes
// report false while unannotated; everything else is derived from the text.
func (t *Token) Attr(name string) (string, bool) {
	switch name {
	case "TEXT", "ORTH":
		return t.Text, true
	case "LOWER":
		return strings.ToLower(t.Text), true
	case "NORM":
		if t.Norm == "" {
			return strings.ToLower(t.Text), true
		}
		return t.Norm, true
	case "LEMMA":
		return strings.ToLower(t.Lemma), t.Lemma != ""
	case "POS":
		return t.Pos, t.Pos != ""
	case "TAG":
		return t.Tag, t.Tag != ""
	case "DEP":
		return t.Dep, t.Dep != ""
	case "MORPH":
		return t.Morph, t.Morph != ""
	case "SHAPE":
		return shape(t.Text), true
	case "PREFIX":
		return prefix(t.Text), true
	case "SUFFIX":
		return suffix(t.Text), true
	case "LENGTH":
		// Length constraints count characters, so the projection only
		// needs the text; sharing the lower-cased form keeps it aligned
		// with LOWER.
		return strings.ToLower(t.Text), true
	case "ENT_TYPE":
		return t.EntType, true
	case "ENT_IOB":
		return t.EntIOB, true
	case "CLUSTER":
		return strconv.Itoa(t.Cluster), true
	case "LANG":
		return t.Lang, true
	case "IS_SENT_START":
		return boolAttr(t.SentStart)
	case "IS_STOP":
		return boolAttr(t.Stop)
	case "IS_ALPHA":
		return boolAttr(isAll(t.Text, unicode.IsLetter))
	case "IS_ASCII":
		return boolAttr(isAll(t.Text, func(r rune) bool { return r < 128 }))
	case "IS_DIGIT":
		return boolAttr(isAll(t.Text, unicode.IsDigit))
	case "IS_LOWER":
		return boolAttr(t.Text != "" && t.Text == strings.ToLower(t.Text) && t.Text != strings.ToUpper(t.Text))
	case "IS_UPPER":
		return boolAttr(t.Text != "" && t.Text == strings.ToUpper(t.Text) && t.Text != strings.ToLower(t.Text))
	case "IS_TITLE":
		return boolAttr(isTitle(t.Text))
	case "IS_PUNCT":
		return boolAttr(isAll(t.Text, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }))
	case "IS_SPACE":
		return boolAttr(isAll(t.Text, unicode.IsSpace))
	case "IS_BRACKET":
		return boolAttr(isAll(t.Text, func(r rune) bool { return strings.ContainsRune("()[]{}<>", r) }))
	case "IS_QUOTE":
		return boolAttr(isAll(t.Text, func(r rune) bool { return strings.ContainsRune(`"'`+"`“”‘’«»", r) }))
	case "IS_CURRENCY":
		return boolAttr(isAll(t.Text, func(r rune) bool { return unicode.Is(unicode.Sc, r) }))
	case "LIKE_NUM":
		return boolAttr(likeNum(t.Text))
	case "LIKE_URL":
		return boolAttr(likeURL(t.Text))
	case "LIKE_EMAIL":
		return boolAttr(likeEmail(t.Text))
	}
	return "", false
}

// Tokenize splits text on whitespace, preserving each token's trailing
// whitespace so natural-text offsets can be reconstructed.
func Tokenize(text string) []matchex.Token {
	var tokens []matchex.Token
	runes := []rune(text)
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) {
		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		word := string(runes[start:i])
		start = i
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		tokens = append(tokens, &Token{Text: word, Space: string(runes[start:i])})
	}
	return tokens
}

// Words builds a token sequence from plain words, single-space separated.
// Convenient for tests and examples.
func Words(words ...string) []matchex.Token {
	tokens := make([]matchex.Token, len(words))
	for i, w := range words {
		space := " "
		if i == len(words)-1 {
			space = ""
		}
		tokens[i] = &Token{Text: w, Space: space}
	}
	return tokens
}

// Doc adapts concrete tokens to the matcher interface.
func Doc(tokens ...*Token) []matchex.Token {
	out := make([]matchex.Token, len(tokens))
	for i, t := range tokens {
		out[i] = t
	}
	return out
}

func boolAttr(b bool) (string, bool) {
	return strconv.FormatBool(b), true
}

func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}

func isAll(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func isTitle(s string) bool {
	first := true
	cased := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			cased = true
			if first && !unicode.IsUpper(r) {
				return false
			}
			if !first && unicode.IsUpper(r) {
				return false
			}
			first = false
		}
	}
	return cased
}

// shape maps letters to x/X and digits to d, keeping other characters, with
// runs longer than four compressed.
func shape(s string) string {
	var sb strings.Builder
	var last rune
	run := 0
	for _, r := range s {
		var c rune
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLetter(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		default:
			c = r
		}
		if c == last {
			run++
		} else {
			run = 1
			last = c
		}
		if run <= 4 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

func prefix(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func suffix(s string) string {
	runes := []rune(s)
	if len(runes) <= 3 {
		return s
	}
	return string(runes[len(runes)-3:])
}

var numberWords = map[string]bool{
	"zero": true, "one": true, "two": true, "three": true, "four": true,
	"five": true, "six": true, "seven": true, "eight": true, "nine": true,
	"ten": true, "eleven": true, "twelve": true, "hundred": true,
	"thousand": true, "million": true, "billion": true,
}

func likeNum(s string) bool {
	s = strings.ToLower(s)
	if numberWords[s] {
		return true
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
			if dots > 1 {
				return false
			}
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func likeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.") || strings.HasSuffix(s, ".com") ||
		strings.HasSuffix(s, ".org") || strings.HasSuffix(s, ".net")
}

func likeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && strings.Contains(s[at:], ".")
}
