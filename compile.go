package matchex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// TokenSpec is one position of a pattern: a map from attribute name to a
// literal value (string, bool, whole number) or a predicate object, plus an
// optional "OP" quantifier and an "_" map for extension attributes. The
// empty spec matches any single token.
type TokenSpec map[string]any

// Pattern is an ordered sequence of token specs.
type Pattern []TokenSpec

// specEntry is one attribute constraint contributed by a token spec. An
// empty attr applies the fragment to every attribute column of the pattern.
type specEntry struct {
	attr string
	ext  bool
	xp   string
	q    string
}

type attrColumn struct {
	name string
	ext  bool
}

// attrPattern is one attribute's fully assembled expression.
type attrPattern struct {
	name string
	ext  bool
	re   *regexp2.Regexp
}

// compiledPattern holds one pattern compiled per attribute. Capture group
// i+1 corresponds to token-spec position i in every attribute expression;
// anchors lists the groups whose quantifier guarantees at least one token.
type compiledPattern struct {
	attrs   []attrPattern
	anchors []int
	arity   int
	fixed   bool // every position consumes exactly one token

	seenAttrs []string
}

var quantifiers = map[string]bool{
	quantOne: true, quantOnePlus: true, quantZero: true, quantZeroOne: true, quantZeroPlus: true,
}

// compilePattern translates a pattern into per-attribute expressions.
// Every token-spec position gets one canonical quantifier, recorded in a
// shared position table; each attribute's expression honors it, with
// any-token fragments synthesized for positions the attribute does not
// constrain, so the independently matched attributes stay in lock-step.
func compilePattern(pattern Pattern) (*compiledPattern, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("pattern cannot be empty")
	}

	n := len(pattern)
	quants := make([]string, n)
	entries := make([][]specEntry, n)
	var columns []attrColumn
	haveColumn := map[attrColumn]bool{}

	for i, spec := range pattern {
		es, q, err := entriesFromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("token spec %d: %w", i, err)
		}
		if q != quantNone && !quantifiers[q] {
			return nil, fmt.Errorf("token spec %d: unknown quantifier %q, expected one of 1, +, !, ?, *", i, q)
		}
		entries[i] = es
		quants[i] = q
		for _, e := range es {
			if e.attr == "" {
				continue
			}
			c := attrColumn{name: e.attr, ext: e.ext}
			if !haveColumn[c] {
				haveColumn[c] = true
				columns = append(columns, c)
			}
		}
	}

	// Cheap, high-selectivity attributes narrow candidates fastest.
	cheap := map[string]bool{"LEMMA": true, "LOWER": true, "TEXT": true, "ORTH": true}
	sort.SliceStable(columns, func(i, j int) bool {
		ci := !columns[i].ext && cheap[columns[i].name]
		cj := !columns[j].ext && cheap[columns[j].name]
		return ci && !cj
	})

	cp := &compiledPattern{arity: n, fixed: true}
	for i, q := range quants {
		if q == quantOne || q == quantOnePlus {
			cp.anchors = append(cp.anchors, i+1)
		}
		if q != quantOne && q != quantZero {
			cp.fixed = false
		}
	}

	for _, col := range columns {
		fragments := make([]string, 0, n)
		for i := range pattern {
			xp, q := xpOneToken, quants[i]
			if q == quantZero {
				q = quantOne
			}
			needsDelim := q == quantOne
			for _, e := range entries[i] {
				if e.attr == "" || (e.attr == col.name && e.ext == col.ext) {
					xp, q = e.xp, e.q
					break
				}
			}
			lazy := q == quantOnePlus && xp == xpOneToken
			wrapped, err := wrapQuantifier(q, xp, lazy)
			if err != nil {
				return nil, fmt.Errorf("token spec %d: %w", i, err)
			}
			if needsDelim {
				wrapped += fmt.Sprintf("(?(%d)%s|)", i+1, xpTokenDelim)
			}
			fragments = append(fragments, wrapped)
		}

		expr := strings.Join(fragments, "")
		if col.ext || col.name != attrRegex {
			expr = xpTokenStart + expr
		}
		opts := regexp2.RegexOptions(regexp2.Multiline)
		if !col.ext && (col.name == "LENGTH" || col.name == "LOWER") {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(expr, opts)
		if err != nil {
			return nil, fmt.Errorf("assemble %s expression: %w", col.name, err)
		}
		cp.attrs = append(cp.attrs, attrPattern{name: col.name, ext: col.ext, re: re})
		if !col.ext {
			cp.seenAttrs = append(cp.seenAttrs, col.name)
		}
	}
	return cp, nil
}

// entriesFromSpec normalizes one token spec and compiles its constraints to
// fragments, returning the entries and the position's canonical quantifier.
func entriesFromSpec(spec TokenSpec) ([]specEntry, string, error) {
	norm := make(map[string]any, len(spec))
	for k, v := range spec {
		norm[normalizeAttr(k)] = v
	}
	if len(norm) == 0 {
		return []specEntry{{xp: xpOneToken, q: quantOne}}, quantOne, nil
	}
	if raw, ok := norm[attrRegex]; ok {
		expr, ok := raw.(string)
		if !ok {
			return nil, "", fmt.Errorf("REGEX expects a string, got %T", raw)
		}
		return []specEntry{{attr: attrRegex, xp: expr, q: quantNone}}, quantNone, nil
	}

	q := quantOne
	if op, ok := norm["OP"]; ok {
		s, isStr := op.(string)
		if !isStr {
			return nil, "", fmt.Errorf("OP expects a string, got %T", op)
		}
		if !quantifiers[s] {
			return nil, "", fmt.Errorf("unknown quantifier %q, expected one of 1, +, !, ?, *", s)
		}
		q = s
		if len(norm) == 1 {
			return []specEntry{{xp: xpOneToken, q: q}}, q, nil
		}
	}

	attrs := make([]string, 0, len(norm))
	for attr := range norm {
		if attr != "OP" {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)

	var entries []specEntry
	for _, attr := range attrs {
		value := norm[attr]
		if attr == "_" {
			exts, ok := asMap(value)
			if !ok {
				return nil, "", fmt.Errorf("extension constraints must be a map, got %T", value)
			}
			names := make([]string, 0, len(exts))
			for name := range exts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				xp, err := xpFromConstraint(exts[name])
				if err != nil {
					return nil, "", fmt.Errorf("extension %s: %w", name, err)
				}
				entries = append(entries, specEntry{attr: name, ext: true, xp: xp, q: q})
			}
			continue
		}
		if !patternAttrs[attr] {
			return nil, "", fmt.Errorf("unknown attribute %q", attr)
		}
		xp, err := xpFromConstraint(value)
		if err != nil {
			return nil, "", fmt.Errorf("attribute %s: %w", attr, err)
		}
		entries = append(entries, specEntry{attr: attr, xp: xp, q: q})
	}
	return entries, q, nil
}

func xpFromConstraint(value any) (string, error) {
	if preds, ok := asMap(value); ok {
		return xpFromPredicates(preds)
	}
	return xpFromValue(value)
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case TokenSpec:
		return t, true
	}
	return nil, false
}
