package md

// lineSpan is one logical line of the input. Content occupies
// [start:text); the line's bytes including its terminator end at next.
// A trailing '\r' before the '\n' is excluded from content.
type lineSpan struct {
	start int // first byte of the line
	text  int // one past the last content byte
	next  int // first byte of the following line
}

// splitLines decomposes src into logical lines on '\n', tolerating a
// trailing '\r'. A final line without a terminator is kept; no phantom
// empty line is produced after a trailing newline.
func splitLines(src []byte) []lineSpan {
	var lines []lineSpan
	start := 0
	for i, b := range src {
		if b != '\n' {
			continue
		}
		text := i
		if text > start && src[text-1] == '\r' {
			text--
		}
		lines = append(lines, lineSpan{start: start, text: text, next: i + 1})
		start = i + 1
	}
	if start < len(src) {
		lines = append(lines, lineSpan{start: start, text: len(src), next: len(src)})
	}
	return lines
}

const tabStop = 4

// nextTabStop returns the column after expanding a tab at col.
func nextTabStop(col int) int {
	return col + tabStop - col%tabStop
}

// firstNonspace walks whitespace from (off, col) within the line and
// returns the position and column of the first byte that is not a space
// or tab. At end of content it returns (ln.text, col-at-end).
func (p *parser) firstNonspace(ln lineSpan, off, col int) (int, int) {
	for off < ln.text {
		switch p.src[off] {
		case ' ':
			off++
			col++
		case '\t':
			off++
			col = nextTabStop(col)
		default:
			return off, col
		}
	}
	return off, col
}

// restBlank reports whether only whitespace remains on the line at off.
func (p *parser) restBlank(ln lineSpan, off int) bool {
	for ; off < ln.text; off++ {
		if p.src[off] != ' ' && p.src[off] != '\t' {
			return false
		}
	}
	return true
}

// stripCols consumes up to n columns of leading whitespace starting at
// (off, col). It returns the new position and column plus the number of
// columns owed by a tab that straddled the boundary; those render as pad
// spaces in front of the content.
func (p *parser) stripCols(ln lineSpan, off, col, n int) (int, int, int) {
	target := col + n
	for off < ln.text && col < target {
		switch p.src[off] {
		case ' ':
			off++
			col++
		case '\t':
			stop := nextTabStop(col)
			off++
			if stop > target {
				// Partially consumed tab: the excess becomes pad.
				return off, stop, stop - target
			}
			col = stop
		default:
			return off, col, 0
		}
	}
	return off, col, 0
}
