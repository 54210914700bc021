package md

import (
	"unicode"
	"unicode/utf8"
)

// Emphasis resolution follows the CommonMark delimiter stack algorithm:
// closers scan backward for the nearest compatible opener, consuming up
// to two delimiter characters per match from the inside out.

// flanking computes whether the delimiter run [start, end) can open or
// close emphasis, applying the stricter intraword rules for '_'.
func (il *inliner) flanking(start, end int, ch byte) (canOpen, canClose bool) {
	beforeWS, beforePunct := classifyBefore(il.text, start)
	afterWS, afterPunct := classifyAfter(il.text, end)

	left := !afterWS && (!afterPunct || beforeWS || beforePunct)
	right := !beforeWS && (!beforePunct || afterWS || afterPunct)

	if ch == '_' {
		canOpen = left && (!right || beforePunct)
		canClose = right && (!left || afterPunct)
		return canOpen, canClose
	}
	return left, right
}

func classifyBefore(text []byte, i int) (ws, punct bool) {
	if i == 0 {
		return true, false
	}
	r, _ := utf8.DecodeLastRune(text[:i])
	return classifyRune(r)
}

func classifyAfter(text []byte, i int) (ws, punct bool) {
	if i >= len(text) {
		return true, false
	}
	r, _ := utf8.DecodeRune(text[i:])
	return classifyRune(r)
}

func classifyRune(r rune) (ws, punct bool) {
	if unicode.IsSpace(r) {
		return true, false
	}
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return false, true
	}
	return false, false
}

// processEmphasis resolves delimiters above bottom into emphasis,
// strong, strikethrough and underline spans. Matched and unusable
// delimiters are removed; the rest stay for an enclosing call.
func (il *inliner) processEmphasis(bottom int) {
	d := il.delims
	i := bottom
	for i < len(d) {
		if !d[i].canClose {
			i++
			continue
		}

		opener := -1
		var use int
		var span SpanType
		for j := i - 1; j >= bottom; j-- {
			if d[j].ch != d[i].ch || !d[j].canOpen {
				continue
			}
			if u, s, ok := il.pairing(&d[j], &d[i]); ok {
				opener, use, span = j, u, s
				break
			}
		}
		if opener < 0 {
			if !d[i].canOpen {
				d = append(d[:i], d[i+1:]...)
			} else {
				i++
			}
			continue
		}

		op, cl := &d[opener], &d[i]
		il.elems = append(il.elems, elem{
			kind: elemSpan, span: span,
			start: op.end - use, end: cl.start + use,
			innerStart: op.end, innerEnd: cl.start,
		})
		op.end -= use
		cl.start += use

		// Delimiters between the pair can never match anything now.
		if i > opener+1 {
			d = append(d[:opener+1], d[i:]...)
			i = opener + 1
		}
		if op.len() == 0 {
			d = append(d[:opener], d[opener+1:]...)
			i--
		}
		if d[i].len() == 0 {
			d = append(d[:i], d[i+1:]...)
		}
	}
	il.delims = d
}

// pairing decides whether an opener and closer run can match, and with
// how many characters and which span type.
func (il *inliner) pairing(op, cl *delim) (int, SpanType, bool) {
	switch op.ch {
	case '~':
		// Tilde runs only match runs of the same length.
		if op.len() != cl.len() {
			return 0, 0, false
		}
		return op.len(), SpanStrikethrough, true
	case '_':
		if il.p.flags.Has(Underline) {
			return 1, SpanUnderline, true
		}
	}

	// Multiple-of-three rule: a run that could both open and close may
	// not match when the combined original length divides by three,
	// unless both lengths do individually.
	if cl.canOpen || op.canClose {
		if (op.origLen+cl.origLen)%3 == 0 && (op.origLen%3 != 0 || cl.origLen%3 != 0) {
			return 0, 0, false
		}
	}
	if op.len() >= 2 && cl.len() >= 2 {
		return 2, SpanStrong, true
	}
	return 1, SpanEmphasis, true
}
