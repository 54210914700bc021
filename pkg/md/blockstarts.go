package md

import "bytes"

// Block-start matchers. Each inspects the line at the first non-space
// position ns without consuming anything; the caller decides what to do
// with a match. CommonMark's opening precedence is encoded by the call
// order in openBlocks.

// matchSetext recognizes a setext heading underline ('===' or '---' with
// nothing else on the line). Only valid while a paragraph is open.
func (p *parser) matchSetext(ln lineSpan, ns pos) (int, bool) {
	ch := p.src[ns.off]
	if ch != '=' && ch != '-' {
		return 0, false
	}
	i := ns.off
	for i < ln.text && p.src[i] == ch {
		i++
	}
	if !p.restBlank(ln, i) {
		return 0, false
	}
	if ch == '=' {
		return 1, true
	}
	return 2, true
}

// matchThematicBreak recognizes a thematic break: three or more of the
// same marker character, optionally interleaved with whitespace.
func (p *parser) matchThematicBreak(ln lineSpan, ns pos) bool {
	ch := p.src[ns.off]
	if ch != '-' && ch != '_' && ch != '*' {
		return false
	}
	count := 0
	for i := ns.off; i < ln.text; i++ {
		switch p.src[i] {
		case ch:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// matchATX recognizes an ATX heading and returns its level and content
// with the optional closing sequence stripped.
func (p *parser) matchATX(ln lineSpan, ns pos) (int, []byte, bool) {
	i := ns.off
	for i < ln.text && p.src[i] == '#' {
		i++
	}
	level := i - ns.off
	if level < 1 || level > 6 {
		return 0, nil, false
	}
	switch {
	case i == ln.text:
		return level, nil, true
	case p.src[i] == ' ' || p.src[i] == '\t':
	case p.flags.Has(PermissiveATXHeaders):
	default:
		return 0, nil, false
	}

	content := p.src[i:ln.text]
	content = bytes.Trim(content, " \t")

	// Strip a closing '#' run when preceded by whitespace or alone.
	j := len(content)
	for j > 0 && content[j-1] == '#' {
		j--
	}
	if j < len(content) {
		if j == 0 {
			content = nil
		} else if content[j-1] == ' ' || content[j-1] == '\t' {
			content = bytes.TrimRight(content[:j], " \t")
		}
	}
	return level, content, true
}

// fenceInfo describes a matched opening code fence.
type fenceInfo struct {
	char   byte
	length int
	indent int // columns of indentation before the fence
	info   []byte
}

// matchFenceOpen recognizes an opening code fence of three or more
// backticks or tildes. Backtick fences reject info strings containing a
// backtick.
func (p *parser) matchFenceOpen(ln lineSpan, ns pos, indent int) (fenceInfo, bool) {
	ch := p.src[ns.off]
	i := ns.off
	for i < ln.text && p.src[i] == ch {
		i++
	}
	length := i - ns.off
	if length < 3 {
		return fenceInfo{}, false
	}
	info := bytes.Trim(p.src[i:ln.text], " \t")
	if ch == '`' && bytes.IndexByte(info, '`') >= 0 {
		return fenceInfo{}, false
	}
	return fenceInfo{char: ch, length: length, indent: indent, info: info}, true
}

// closesFence reports whether the line is a valid closing fence for the
// open fenced code leaf.
func (p *parser) closesFence(ln lineSpan, at pos) bool {
	indent, ns := p.indentAt(ln, at)
	if indent > 3 || ns.off >= ln.text || p.src[ns.off] != p.leaf.fenceChar {
		return false
	}
	i := ns.off
	for i < ln.text && p.src[i] == p.leaf.fenceChar {
		i++
	}
	if i-ns.off < p.leaf.fenceLen {
		return false
	}
	return p.restBlank(ln, i)
}

// listMarker describes a matched list item marker.
type listMarker struct {
	ordered bool
	mark    byte // bullet char, or ordinal delimiter for ordered lists
	start   int

	restBlank     bool
	contentIndent int // columns relative to the parent's content start
	content       pos // where first-line content begins
	markerEnd     int // byte offset just past the marker
}

// parseListMarker recognizes a bullet or ordered list marker at ns. The
// marker must be followed by whitespace or end of line.
func (p *parser) parseListMarker(ln lineSpan, at pos, ns pos) (listMarker, bool) {
	indent := at.pad + ns.col - at.col
	if indent > 3 {
		return listMarker{}, false
	}

	var m listMarker
	i := ns.off
	switch c := p.src[i]; {
	case c == '-' || c == '+' || c == '*':
		m.mark = c
		i++
	case c >= '0' && c <= '9':
		start := 0
		digits := 0
		for i < ln.text && p.src[i] >= '0' && p.src[i] <= '9' {
			start = start*10 + int(p.src[i]-'0')
			digits++
			i++
		}
		if digits > 9 || i >= ln.text || (p.src[i] != '.' && p.src[i] != ')') {
			return listMarker{}, false
		}
		m.ordered = true
		m.start = start
		m.mark = p.src[i]
		i++
	default:
		return listMarker{}, false
	}
	if i < ln.text && p.src[i] != ' ' && p.src[i] != '\t' {
		return listMarker{}, false
	}
	m.markerEnd = i
	width := (ns.col - at.col + at.pad) + (i - ns.off) // indent + marker bytes, all single-column

	markerEndCol := ns.col + (i - ns.off)
	aOff, aCol := p.firstNonspace(ln, i, markerEndCol)
	spacesAfter := aCol - markerEndCol
	switch {
	case aOff >= ln.text:
		m.restBlank = true
		m.contentIndent = width + 1
		m.content = pos{off: aOff, col: aCol}
	case spacesAfter > 4:
		m.contentIndent = width + 1
		m.content = p.skipIndent(ln, pos{off: i, col: markerEndCol}, 1)
	default:
		m.contentIndent = width + spacesAfter
		m.content = pos{off: aOff, col: aCol}
	}
	return m, true
}

// openListItem opens (or continues) the list for the marker and pushes a
// new item container. It returns the position where the item's first-line
// content starts.
func (p *parser) openListItem(ln lineSpan, m listMarker) pos {
	// Reuse a compatible open list; anything else closes first.
	reuse := false
	if n := len(p.containers); n > 0 {
		top := p.containers[n-1]
		if top.typ == BlockUnorderedList || top.typ == BlockOrderedList {
			if top.ordered == m.ordered && top.mark == m.mark {
				reuse = true
			} else {
				p.closeContainers(n - 1)
			}
		}
	}

	p.touchLists()

	if !reuse {
		detail := &ListDetail{
			Ordered: m.ordered,
			Start:   m.start,
		}
		if m.ordered {
			detail.MarkDelimiter = m.mark
		} else {
			detail.Mark = m.mark
		}
		var typ BlockType
		if m.ordered {
			typ = BlockOrderedList
		} else {
			typ = BlockUnorderedList
		}
		rec := &blockRec{typ: typ, detail: BlockDetail{List: detail}}
		p.ops = append(p.ops, progOp{opEnter, rec})
		p.containers = append(p.containers, &container{
			typ:     typ,
			rec:     rec,
			mark:    m.mark,
			ordered: m.ordered,
		})
	}

	itemDetail := &ListItemDetail{}
	rec := &blockRec{typ: BlockListItem, detail: BlockDetail{ListItem: itemDetail}}
	p.ops = append(p.ops, progOp{opEnter, rec})
	item := &container{
		typ:           BlockListItem,
		rec:           rec,
		contentIndent: m.contentIndent,
		hasContent:    !m.restBlank,
	}
	p.containers = append(p.containers, item)

	at := m.content
	if !m.restBlank && p.flags.Has(TaskLists) {
		if mark, end, ok := p.matchTaskMarker(ln, at.off); ok {
			itemDetail.Task = true
			itemDetail.TaskMark = mark
			itemDetail.TaskMarkOffset = at.off + 1
			off, col := p.firstNonspace(ln, end, at.col+(end-at.off))
			at = pos{off: off, col: col}
		}
	}
	return at
}

// matchTaskMarker recognizes a task list marker '[ ]', '[x]' or '[X]'
// followed by whitespace or end of line.
func (p *parser) matchTaskMarker(ln lineSpan, off int) (byte, int, bool) {
	if off+3 > ln.text || p.src[off] != '[' || p.src[off+2] != ']' {
		return 0, 0, false
	}
	mark := p.src[off+1]
	if mark != ' ' && mark != 'x' && mark != 'X' {
		return 0, 0, false
	}
	if off+3 < ln.text && p.src[off+3] != ' ' && p.src[off+3] != '\t' {
		return 0, 0, false
	}
	return mark, off + 3, true
}
