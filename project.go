package matchex

// projection is one attribute's values across a whole token sequence,
// rendered as a single text with bidirectional maps between token index and
// rune offset. Both maps are total over token boundaries: one entry per
// token start plus a sentinel at the end of the text, offsets strictly
// increasing with token index.
type projection struct {
	runes         []rune
	indexToOffset []int       // token index -> rune offset, len(tokens)+1 entries
	offsetToIndex map[int]int // rune offset -> token index
}

// buildProjection renders one attribute of every token into a projection.
// The REGEX pseudo-attribute concatenates token texts with their original
// trailing whitespace so offsets land on natural text positions; every other
// attribute joins values with a single separator per token boundary, which
// keeps the offset arithmetic independent of the attribute's own content.
func buildProjection(tokens []Token, attr string, ext bool) *projection {
	p := &projection{
		indexToOffset: make([]int, len(tokens)+1),
		offsetToIndex: make(map[int]int, len(tokens)+1),
	}
	isRegex := !ext && attr == attrRegex

	valLen := 0 // runes of attribute values emitted so far
	wsLen := 0  // runes of preserved whitespace emitted so far (REGEX only)
	for i, tok := range tokens {
		pad := i
		if isRegex {
			pad = wsLen
		}
		off := valLen + pad
		p.indexToOffset[i] = off
		p.offsetToIndex[off] = i

		var value string
		switch {
		case ext:
			value, _ = tok.Ext(attr)
		case isRegex:
			value, _ = tok.Attr("TEXT")
		default:
			value, _ = tok.Attr(attr)
		}
		if !isRegex && i > 0 {
			p.runes = append(p.runes, ' ')
		}
		vr := []rune(value)
		p.runes = append(p.runes, vr...)
		valLen += len(vr)
		if isRegex {
			wr := []rune(tok.Whitespace())
			p.runes = append(p.runes, wr...)
			wsLen += len(wr)
		}
	}

	end := valLen + wsLen
	if !isRegex && len(tokens) > 0 {
		end = valLen + len(tokens) - 1
	}
	p.indexToOffset[len(tokens)] = end
	p.offsetToIndex[end] = len(tokens)
	return p
}

// tokenSpan translates a rune span of the projection back to a token span.
// Offsets inside a token round up to the next token boundary.
func (p *projection) tokenSpan(start, end int) (int, int) {
	return p.boundary(start), p.boundary(end)
}

func (p *projection) boundary(off int) int {
	max := len(p.runes)
	for {
		if i, ok := p.offsetToIndex[off]; ok {
			return i
		}
		if off >= max {
			return p.offsetToIndex[max]
		}
		off++
	}
}
