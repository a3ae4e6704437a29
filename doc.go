/*
Package matchex is a token-sequence pattern matching engine: given an
ordered sequence of attributed tokens and a set of declaratively registered
patterns, it finds every token span satisfying a pattern and fires rule
callbacks on the results.

# Overview

A pattern is an ordered list of token specs. Each spec constrains one token
position through named attributes (surface text, lower-cased form, lemma,
part-of-speech tag, character length, custom extension values, ...) and an
optional quantifier. Patterns are compiled once, when registered, into one
extended regular expression per referenced attribute; matching projects each
attribute of the whole document into a single text, narrows candidate
windows attribute by attribute and translates the surviving spans back to
token indices.

# Pattern Syntax

A token spec maps attribute names to constraints:

  - a literal value: {"TEXT": "JavaScript"}, {"IS_PUNCT": true}
  - a set predicate: {"POS": {"IN": ["NOUN", "PROPN"]}}
  - a negated set: {"ORTH": {"NOT_IN": ["a", "an"]}}
  - a length comparison: {"LENGTH": {">=": 10}}
  - a regular expression over one attribute: {"LOWER": {"REGEX": "ing$"}}
  - a free-form regular expression over the natural text: {"REGEX": "\\bUS\\d+\\b"}

The empty spec {} matches any single token. The "OP" key holds a
quantifier:

  - "1": exactly one token (the default)
  - "!": exactly one token that fails the constraints
  - "?": zero or one token
  - "+": one or more tokens
  - "*": zero or more tokens

"+" and "*" match greedily, returning the longest span. The one exception
is a "+" on a position with no attribute constraint of its own, which
matches non-greedily to limit backtracking.

# Matching

	m := matchex.NewMatcher()
	err := m.Add("JS", []matchex.Pattern{{{"TEXT": "JavaScript"}}}, nil)
	...
	matches, err := m.Find(tokens)

Matches are (key, start, end) spans over token indices, half-open. Rules
accumulate: adding under an existing key appends patterns and replaces the
callback. Callbacks run sequentially in match order and may mutate the
tokens.
*/
package matchex
