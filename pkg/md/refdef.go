package md

import "strings"

// Link reference definitions are recognized when a paragraph closes: as
// many definitions as possible are consumed from its start and moved into
// the document's reference table; whatever remains is the paragraph.

type refDef struct {
	dest     []byte
	title    []byte
	hasTitle bool
}

// normalizeLabel case-folds a reference label and collapses its interior
// whitespace, per CommonMark's label matching rule.
func normalizeLabel(label []byte) string {
	fields := strings.Fields(string(label))
	joined := strings.Join(fields, " ")
	return strings.ToLower(strings.ToUpper(joined))
}

// extractRefDefs consumes leading link reference definitions from a
// closed paragraph's text and returns the remaining content. The first
// definition for a label wins.
func (p *parser) extractRefDefs(buf []byte) []byte {
	pos := 0
	for pos < len(buf) {
		label, def, next, ok := parseRefDef(buf, pos)
		if !ok {
			break
		}
		key := normalizeLabel(label)
		if key != "" {
			if _, exists := p.refs[key]; !exists {
				p.refs[key] = def
				p.debugf("reference definition %q -> %q", key, def.dest)
			}
		}
		pos = next
	}
	return buf[pos:]
}

// parseRefDef matches one link reference definition starting at pos:
// [label]: destination with an optional title, and nothing else on the
// final line.
func parseRefDef(buf []byte, pos int) ([]byte, refDef, int, bool) {
	i := pos
	for n := 0; i < len(buf) && buf[i] == ' ' && n < 3; n++ {
		i++
	}
	if i >= len(buf) || buf[i] != '[' {
		return nil, refDef{}, 0, false
	}
	label, i, ok := scanLinkLabel(buf, i)
	if !ok {
		return nil, refDef{}, 0, false
	}
	if i >= len(buf) || buf[i] != ':' {
		return nil, refDef{}, 0, false
	}
	i++
	i, nl := skipRefSpace(buf, i)
	if nl > 1 {
		return nil, refDef{}, 0, false
	}

	dest, i, ok := scanLinkDest(buf, i, false)
	if !ok {
		return nil, refDef{}, 0, false
	}
	def := refDef{dest: unescapeBytes(dest)}

	// A definition without a title is complete if its line ends here.
	destLineEnd, destLineOK := endOfLine(buf, i)

	j, nl := skipRefSpace(buf, i)
	if nl <= 1 && j > i {
		if title, k, ok := scanLinkTitle(buf, j); ok {
			if lineEnd, lineOK := endOfLine(buf, k); lineOK {
				def.title = unescapeBytes(title)
				def.hasTitle = true
				return label, def, lineEnd, true
			}
		}
	}

	if !destLineOK {
		return nil, refDef{}, 0, false
	}
	return label, def, destLineEnd, true
}

// scanLinkLabel matches [label] at i, returning the label text and the
// position past the closing bracket. Labels may not contain unescaped
// brackets and must hold at least one non-whitespace character.
func scanLinkLabel(buf []byte, i int) ([]byte, int, bool) {
	if i >= len(buf) || buf[i] != '[' {
		return nil, 0, false
	}
	start := i + 1
	j := start
	for j < len(buf) {
		switch buf[j] {
		case '\\':
			j += 2
			continue
		case '[':
			return nil, 0, false
		case ']':
			label := buf[start:j]
			if j-start > 999 || isBlankLabel(label) {
				return nil, 0, false
			}
			return label, j + 1, true
		}
		j++
	}
	return nil, 0, false
}

func isBlankLabel(label []byte) bool {
	for _, c := range label {
		if c != ' ' && c != '\t' && c != '\n' {
			return false
		}
	}
	return true
}

// scanLinkDest matches a link destination at i: either <...> or a bare
// run of non-whitespace with balanced parentheses. With stopParen set an
// unmatched ')' terminates the bare form (inline link syntax).
func scanLinkDest(buf []byte, i int, stopParen bool) ([]byte, int, bool) {
	if i < len(buf) && buf[i] == '<' {
		j := i + 1
		for j < len(buf) {
			switch buf[j] {
			case '\\':
				j += 2
				continue
			case '>':
				return buf[i+1 : j], j + 1, true
			case '\n', '<':
				return nil, 0, false
			}
			j++
		}
		return nil, 0, false
	}

	depth := 0
	j := i
	for j < len(buf) {
		c := buf[j]
		if c == '\\' && j+1 < len(buf) && isASCIIPunct(buf[j+1]) {
			j += 2
			continue
		}
		if c <= ' ' || c == 0x7f {
			break
		}
		if c == '(' {
			depth++
		}
		if c == ')' {
			if depth == 0 {
				if stopParen {
					break
				}
				return nil, 0, false
			}
			depth--
		}
		j++
	}
	if depth != 0 {
		return nil, 0, false
	}
	return buf[i:j], j, true
}

// scanLinkTitle matches a link title at i delimited by double quotes,
// single quotes or parentheses. Titles may span lines.
func scanLinkTitle(buf []byte, i int) ([]byte, int, bool) {
	if i >= len(buf) {
		return nil, 0, false
	}
	open := buf[i]
	var close byte
	switch open {
	case '"', '\'':
		close = open
	case '(':
		close = ')'
	default:
		return nil, 0, false
	}
	j := i + 1
	for j < len(buf) {
		switch buf[j] {
		case '\\':
			j += 2
			continue
		case close:
			return buf[i+1 : j], j + 1, true
		case open:
			if open == '(' {
				return nil, 0, false
			}
		}
		j++
	}
	return nil, 0, false
}

// skipRefSpace skips spaces, tabs and newlines from i, returning the new
// position and the number of newlines crossed.
func skipRefSpace(buf []byte, i int) (int, int) {
	nl := 0
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t':
		case '\n':
			nl++
		default:
			return i, nl
		}
		i++
	}
	return i, nl
}

// endOfLine verifies only whitespace remains on the current line and
// returns the position just past its newline (or end of input).
func endOfLine(buf []byte, i int) (int, bool) {
	for ; i < len(buf); i++ {
		switch buf[i] {
		case ' ', '\t':
		case '\n':
			return i + 1, true
		default:
			return 0, false
		}
	}
	return len(buf), true
}
