package matchex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Quantifiers. quantNone marks free-form REGEX positions, which carry their
// own repetition and get no wrapping beyond a capture group.
const (
	quantNone     = "x"
	quantOne      = "1"
	quantOnePlus  = "+"
	quantZero     = "!"
	quantZeroOne  = "?"
	quantZeroPlus = "*"
)

const (
	xpOneToken   = `[^\s]+`
	xpTokenStart = `(?:\s|^)`
	xpTokenDelim = `(?:\s|^|$)`
)

// neverMatch is a fragment that fails unconditionally, used for comparison
// bounds that admit no value (e.g. LENGTH < 1).
const neverMatch = `(?!)`

// xpFromValue compiles an exact-value predicate to an escaped literal.
func xpFromValue(v any) (string, error) {
	s, ok := valueString(v)
	if !ok {
		return "", fmt.Errorf("unsupported value type %T", v)
	}
	return regexp.QuoteMeta(s), nil
}

// xpFromRegex passes a free regular expression through, stripping leading
// and trailing anchors since the engine supplies its own token boundaries.
// A pattern with no anchors may match anywhere inside the projected token
// text, so it is padded with non-greedy wildcards on both sides.
func xpFromRegex(expr string) string {
	var sb strings.Builder
	runes := []rune(expr)
	anchored := false
	for i, r := range runes {
		var prev rune
		if i > 0 {
			prev = runes[i-1]
		}
		if r == '^' && prev != '[' && prev != '\\' {
			anchored = true
			continue
		}
		if r == '$' && prev != '\\' {
			anchored = true
			continue
		}
		sb.WriteRune(r)
	}
	if anchored {
		return sb.String()
	}
	return `[^ ]*?` + sb.String() + `[^ ]*?`
}

// xpFromSet compiles IN/NOT_IN to an alternation of escaped literals.
// NOT_IN still consumes exactly one token: the lookahead only forbids the
// listed values.
func xpFromSet(pred string, arg any) (string, error) {
	var items []any
	switch t := arg.(type) {
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	default:
		return "", fmt.Errorf("%s expects a list, got %T", pred, arg)
	}
	terms := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := valueString(it)
		if !ok {
			return "", fmt.Errorf("%s member has unsupported type %T", pred, it)
		}
		terms = append(terms, regexp.QuoteMeta(s))
	}
	var pipe string
	if len(terms) == 1 {
		pipe = terms[0]
	} else {
		pipe = "(?:" + strings.Join(terms, "|") + ")"
	}
	if pred == "NOT_IN" {
		return "(?!" + pipe + ")[^ ]+", nil
	}
	return pipe, nil
}

// xpFromComparison compiles a numeric comparison on the token's character
// count to a bounded repetition of non-separator characters. The atomic
// group keeps the repetition from giving characters back to the enclosing
// expression.
func xpFromComparison(pred string, arg any) (string, error) {
	n, ok := intValue(arg)
	if !ok {
		return "", fmt.Errorf("%s expects a whole number, got %v", pred, arg)
	}
	switch pred {
	case "==":
		if n < 1 {
			return neverMatch, nil
		}
		return fmt.Sprintf(`(?>[^ ]{%d})`, n), nil
	case "!=":
		if n <= 1 {
			return fmt.Sprintf(`(?>[^ ]{%d,})`, n+1), nil
		}
		return fmt.Sprintf(`(?>[^ ]{1,%d}|[^ ]{%d,})`, n-1, n+1), nil
	case ">=":
		return fmt.Sprintf(`(?>[^ ]{%d,})`, maxInt(n, 1)), nil
	case "<=":
		if n < 1 {
			return neverMatch, nil
		}
		return fmt.Sprintf(`(?>[^ ]{1,%d})`, n), nil
	case ">":
		return fmt.Sprintf(`(?>[^ ]{%d,})`, maxInt(n+1, 1)), nil
	case "<":
		if n <= 1 {
			return neverMatch, nil
		}
		return fmt.Sprintf(`(?>[^ ]{1,%d})`, n-1), nil
	}
	return "", fmt.Errorf("unknown comparison %q", pred)
}

// xpFromPredicates compiles a predicate object ({"IN": …}, {"REGEX": …},
// {"==": n}, …) for one attribute. With several predicates in one object
// the last one, in lexical key order, wins.
func xpFromPredicates(preds map[string]any) (string, error) {
	keys := make([]string, 0, len(preds))
	for k := range preds {
		keys = append(keys, strings.ToUpper(k))
	}
	sort.Strings(keys)
	var xp string
	for _, k := range keys {
		arg := predArg(preds, k)
		var err error
		switch k {
		case "REGEX":
			s, ok := arg.(string)
			if !ok {
				return "", fmt.Errorf("REGEX expects a string, got %T", arg)
			}
			xp = xpFromRegex(s)
		case "IN", "NOT_IN":
			xp, err = xpFromSet(k, arg)
		case "==", "!=", ">=", "<=", ">", "<":
			xp, err = xpFromComparison(k, arg)
		default:
			err = fmt.Errorf("unknown predicate %q", k)
		}
		if err != nil {
			return "", err
		}
	}
	return xp, nil
}

func predArg(preds map[string]any, upper string) any {
	for k, v := range preds {
		if strings.ToUpper(k) == upper {
			return v
		}
	}
	return nil
}

// wrapQuantifier wraps a position fragment per its quantifier. Every wrap
// contributes exactly one capture group, so group numbers stay aligned with
// token-spec positions across all attributes. A lazy wrap makes the
// repetition non-greedy; it is only meaningful for + and *.
func wrapQuantifier(q, xp string, lazy bool) (string, error) {
	var wrapped string
	switch q {
	case quantNone, quantOne:
		return "(" + xp + ")", nil
	case quantOnePlus:
		wrapped = "((?:" + xp + xpTokenDelim + ")+)"
	case quantZero:
		return "(?!" + xp + ")([^ ]+)", nil
	case quantZeroOne:
		wrapped = "(" + xp + xpTokenDelim + ")?"
	case quantZeroPlus:
		wrapped = "((?:" + xp + xpTokenDelim + ")*)"
	default:
		return "", fmt.Errorf("unknown quantifier %q, expected one of 1, +, !, ?, *", q)
	}
	if lazy && (q == quantOnePlus || q == quantZeroPlus) {
		wrapped = wrapped[:len(wrapped)-1] + "?" + wrapped[len(wrapped)-1:]
	}
	return wrapped, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
