package matchex

import (
	"github.com/dlclark/regexp2"
)

type span struct {
	start, end int
}

// candidate is a token window that has survived the attribute passes run so
// far, together with the token spans its anchor groups resolved to.
type candidate struct {
	window  span
	anchors map[int]span
}

// matchCall carries the per-call state of one matching run: the tokens and
// the memoized attribute projections. It is never shared between calls.
type matchCall struct {
	tokens      []Token
	projections map[string]*projection
}

func newMatchCall(tokens []Token) *matchCall {
	return &matchCall{tokens: tokens, projections: map[string]*projection{}}
}

func (c *matchCall) projection(attr string, ext bool) *projection {
	key := attr
	if ext {
		key = "_:" + attr
	}
	p, ok := c.projections[key]
	if !ok {
		p = buildProjection(c.tokens, attr, ext)
		c.projections[key] = p
	}
	return p
}

// runPattern finds every token span of the call's tokens matching one
// compiled pattern. Candidates start as the full window and are narrowed by
// successive per-attribute passes; a candidate survives a pass only when
// its anchor groups resolve to the same token spans the earlier passes saw.
func runPattern(call *matchCall, cp *compiledPattern) []span {
	numTokens := len(call.tokens)

	// A fixed-arity pattern covering the whole window either matches it
	// exactly once or not at all, so each attribute can be checked with a
	// single anchored pass.
	if cp.fixed && cp.arity == numTokens && numTokens > 0 {
		for _, ap := range cp.attrs {
			proj := call.projection(ap.name, ap.ext)
			m, _ := ap.re.FindRunesMatch(proj.runes)
			if m == nil || m.Index != 0 || m.Length != len(proj.runes) {
				return nil
			}
		}
		return []span{{0, numTokens}}
	}

	candidates := []candidate{{window: span{0, numTokens}}}
	for _, ap := range cp.attrs {
		proj := call.projection(ap.name, ap.ext)
		var next []candidate
		for _, cand := range candidates {
			startIdx := proj.indexToOffset[cand.window.start]
			endIdx := proj.indexToOffset[cand.window.end]
			window := proj.runes[startIdx:endIdx]
			for _, m := range findOverlapped(ap.re, window) {
				s, e := proj.tokenSpan(startIdx+m.Index, startIdx+m.Index+m.Length)
				anchors := map[int]span{}
				for _, g := range cp.anchors {
					grp := m.GroupByNumber(g)
					if grp == nil || len(grp.Captures) == 0 {
						continue
					}
					gs, ge := proj.tokenSpan(startIdx+grp.Index, startIdx+grp.Index+grp.Length)
					anchors[g] = span{gs, ge}
				}
				if !anchorsAgree(cand.anchors, anchors) {
					continue
				}
				for g, sp := range cand.anchors {
					if _, ok := anchors[g]; !ok {
						anchors[g] = sp
					}
				}
				next = append(next, candidate{window: span{s, e}, anchors: anchors})
			}
		}
		candidates = next
	}

	spans := make([]span, 0, len(candidates))
	for _, cand := range candidates {
		if cand.window.start < cand.window.end {
			spans = append(spans, cand.window)
		}
	}
	return spans
}

func anchorsAgree(prev, cur map[int]span) bool {
	if len(prev) == 0 {
		return true
	}
	for g, sp := range cur {
		if before, ok := prev[g]; ok && before != sp {
			return false
		}
	}
	return true
}

// findOverlapped scans for every match, resuming one rune past each match
// start so overlapping matches are reported too.
func findOverlapped(re *regexp2.Regexp, runes []rune) []*regexp2.Match {
	var out []*regexp2.Match
	m, _ := re.FindRunesMatch(runes)
	for m != nil {
		out = append(out, m)
		from := m.Index + 1
		if from > len(runes) {
			break
		}
		m, _ = re.FindRunesMatchStartingAt(runes, from)
	}
	return out
}

// filterSubmatches drops matches that are pure suffixes of an earlier,
// longer match ending at the same token.
func filterSubmatches(spans []span) []span {
	var kept []span
	i := 0
	for i < len(spans) {
		kept = append(kept, spans[i])
		j := i + 1
		for j < len(spans) && spans[i].start < spans[j].start && spans[i].end == spans[j].end {
			j++
		}
		i = j
	}
	return kept
}
