package matchex

import (
	"strconv"
	"strings"
)

// Token is the unit the engine matches over. Implementations expose named
// attribute values on demand: Attr serves the built-in attribute set and
// reports false when the attribute requires an annotation the token does not
// carry; Ext serves the open extension namespace. Whitespace returns the
// token's original trailing whitespace, used only by the free-form REGEX
// projection.
type Token interface {
	Attr(name string) (string, bool)
	Ext(name string) (string, bool)
	Whitespace() string
}

// Pseudo-attribute for free-form regular expressions over the natural text.
const attrRegex = "REGEX"

// patternAttrs is the closed set of attribute names a token spec may
// constrain. Extension attributes live under the "_" key and are not listed.
var patternAttrs = map[string]bool{
	"TEXT":   true,
	"ORTH":   true,
	"NORM":   true,
	"LOWER":  true,
	"LEMMA":  true,
	"POS":    true,
	"TAG":    true,
	"DEP":    true,
	"MORPH":  true,
	"SHAPE":  true,
	"PREFIX": true,
	"SUFFIX": true,
	"LENGTH": true,
	"REGEX":  true,

	"ENT_TYPE": true,
	"ENT_IOB":  true,
	"CLUSTER":  true,
	"LANG":     true,

	"IS_SENT_START": true,
	"IS_ALPHA":      true,
	"IS_ASCII":      true,
	"IS_DIGIT":      true,
	"IS_LOWER":      true,
	"IS_UPPER":      true,
	"IS_TITLE":      true,
	"IS_PUNCT":      true,
	"IS_SPACE":      true,
	"IS_BRACKET":    true,
	"IS_QUOTE":      true,
	"IS_CURRENCY":   true,
	"IS_STOP":       true,
	"LIKE_NUM":      true,
	"LIKE_URL":      true,
	"LIKE_EMAIL":    true,
}

// annotationAttrs maps attributes that require upstream annotation to the
// pipeline component expected to produce them.
var annotationAttrs = map[string]string{
	"TAG":   "tagger",
	"POS":   "tagger",
	"LEMMA": "lemmatizer",
	"DEP":   "parser",
	"MORPH": "morphologizer",
}

// normalizeAttr canonicalizes an attribute name from a pattern literal.
// Lower-case names are accepted and upper-cased; SENT_START is an alias.
func normalizeAttr(name string) string {
	name = strings.ToUpper(name)
	if name == "SENT_START" {
		return "IS_SENT_START"
	}
	return name
}

// valueString renders a pattern literal value the way projections render
// token values, so compiled fragments and projected text agree. Booleans
// become "true"/"false", whole numbers their decimal form.
func valueString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return "", false
	default:
		return "", false
	}
}

// intValue extracts a whole number from a pattern literal value.
func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == float64(int64(t)) {
			return int(t), true
		}
	}
	return 0, false
}
