package md

// The block pass scans the document line by line, maintaining a stack of
// open containers (blockquotes, lists, list items) and at most one open
// leaf (paragraph, code block, HTML block, table). It records the block
// structure as a flat program of enter/leave instructions which the
// driver replays as events once the whole document has been analyzed.
// Deferred decisions (list tightness, reference definitions swallowing a
// paragraph) are patched into the program before replay, so the event
// stream the consumer sees is identical to single-pass emission.

type progOpKind uint8

const (
	opEnter progOpKind = iota
	opLeave
)

type progOp struct {
	kind progOpKind
	rec  *blockRec
}

// blockRec is one block in the program. Enter and leave instructions
// share the record, so a detail patched at close time (tightness) is
// visible to both events.
type blockRec struct {
	typ    BlockType
	detail BlockDetail

	// verbatim is TextCode or TextHTML for verbatim leaves; TextNormal
	// means content (if any) runs through the inline parser.
	verbatim TextType

	// lines holds verbatim leaf content.
	lines []leafLine

	// content holds inline leaf content (paragraph, heading, cell).
	content []byte
}

// leafLine is one captured content line of a verbatim leaf.
type leafLine struct {
	start, end int
	pad        int // spaces owed by a partially consumed tab
}

// pos is a cursor within a line: byte offset, column (tab stop 4), and
// pad columns owed by a partially consumed tab.
type pos struct {
	off, col, pad int
}

type container struct {
	typ BlockType
	rec *blockRec

	// List state.
	mark         byte // bullet char, or ordinal delimiter for ordered lists
	ordered      bool
	loose        bool
	pendingBlank bool

	// Item state.
	contentIndent   int // columns past the parent's content start
	hasContent      bool
	sawLeadingBlank bool
}

type leafKind uint8

const (
	leafNone leafKind = iota
	leafParagraph
	leafFencedCode
	leafIndentedCode
	leafHTML
	leafTable
)

// openLeaf is the state of the currently accumulating leaf block.
type openLeaf struct {
	kind leafKind
	rec  *blockRec

	// Paragraph: raw line spans with leading whitespace trimmed.
	paraLines []leafLine

	// Fenced code.
	fenceChar   byte
	fenceLen    int
	fenceIndent int

	// HTML block kind (1-7).
	htmlKind int

	// Indented code: buffered interior blank lines.
	blankRun []leafLine

	// Table: header plus body row spans and the fixed column alignments.
	tableRows   []leafLine
	tableAligns []Align
}

type parser struct {
	src   []byte
	flags Flags
	v     Visitor
	debug DebugFunc

	ops        []progOp
	refs       map[string]refDef
	containers []*container
	leaf       openLeaf
}

func (p *parser) debugf(format string, args ...any) {
	if p.debug != nil {
		p.debug(format, args...)
	}
}

// indentAt measures the whitespace run at `at` and returns its width in
// columns together with the position of the first non-whitespace byte.
func (p *parser) indentAt(ln lineSpan, at pos) (int, pos) {
	nsOff, nsCol := p.firstNonspace(ln, at.off, at.col)
	return at.pad + nsCol - at.col, pos{off: nsOff, col: nsCol}
}

// skipIndent consumes exactly n columns of whitespace from `at`.
func (p *parser) skipIndent(ln lineSpan, at pos, n int) pos {
	if n <= at.pad {
		at.pad -= n
		return at
	}
	n -= at.pad
	off, col, pad := p.stripCols(ln, at.off, at.col, n)
	return pos{off: off, col: col, pad: pad}
}

// processLine advances the block state machine by one line.
func (p *parser) processLine(ln lineSpan) {
	at := pos{off: ln.start}

	// Phase 1: continue open containers outermost-first.
	matched := 0
	for i, c := range p.containers {
		ok, next := p.matchContinuation(c, ln, at)
		if !ok {
			break
		}
		at = next
		matched = i + 1
	}
	allMatched := matched == len(p.containers)
	blank := p.restBlank(ln, at.off)

	// Phase 2: close what could not be continued, unless the line is a
	// lazy continuation of an open paragraph.
	if !allMatched {
		if p.leaf.kind == leafParagraph && !blank && !p.startsBlock(ln, at, p.matchedList(matched)) {
			p.appendParaLine(ln, at)
			return
		}
		p.closeContainers(matched)
	}

	if blank {
		p.blankLine(ln, at)
		return
	}

	// The line contributes content to every item still open.
	for _, c := range p.containers {
		if c.typ == BlockListItem {
			c.hasContent = true
		}
	}

	// Phase 3: verbatim leaves consume the rest of the line wholesale.
	switch p.leaf.kind {
	case leafFencedCode:
		if p.closesFence(ln, at) {
			p.closeLeaf()
			return
		}
		p.appendFenceContent(ln, at)
		p.clearPending()
		return
	case leafHTML:
		p.appendLeafLine(ln, at)
		if p.htmlBlockEnd(p.leaf.htmlKind, ln, at) {
			p.closeLeaf()
		}
		p.clearPending()
		return
	}

	// Phase 4: open new blocks and capture remaining content.
	p.openBlocks(ln, at)
}

// matchContinuation consumes the continuation marker a container requires
// from the current line, if present.
func (p *parser) matchContinuation(c *container, ln lineSpan, at pos) (bool, pos) {
	switch c.typ {
	case BlockQuote:
		indent, ns := p.indentAt(ln, at)
		if indent > 3 || ns.off >= ln.text || p.src[ns.off] != '>' {
			return false, at
		}
		next := pos{off: ns.off + 1, col: ns.col + 1}
		// One column of whitespace after '>' belongs to the marker.
		if next.off < ln.text && (p.src[next.off] == ' ' || p.src[next.off] == '\t') {
			next = p.skipIndent(ln, next, 1)
		}
		return true, next

	case BlockUnorderedList, BlockOrderedList:
		// Lists are continued or closed through their items.
		return true, at

	case BlockListItem:
		if p.restBlank(ln, at.off) {
			if !c.hasContent {
				if c.sawLeadingBlank {
					return false, at
				}
				c.sawLeadingBlank = true
			}
			return true, at
		}
		// An item that began with a blank line accepts no content.
		if !c.hasContent && c.sawLeadingBlank {
			return false, at
		}
		indent, _ := p.indentAt(ln, at)
		if indent < c.contentIndent {
			return false, at
		}
		return true, p.skipIndent(ln, at, c.contentIndent)
	}
	return true, at
}

// blankLine handles a line that is blank after container continuation.
func (p *parser) blankLine(ln lineSpan, at pos) {
	switch p.leaf.kind {
	case leafFencedCode:
		p.appendFenceContent(ln, at)
		return
	case leafHTML:
		if p.leaf.htmlKind >= 6 {
			p.closeLeaf()
			break
		}
		p.appendLeafLine(ln, at)
		return
	case leafIndentedCode:
		stripped := p.skipIndent(ln, at, tabStop)
		p.leaf.blankRun = append(p.leaf.blankRun, leafLine{start: stripped.off, end: ln.text, pad: stripped.pad})
	case leafParagraph, leafTable:
		p.closeLeaf()
	}

	for i, c := range p.containers {
		if c.typ != BlockUnorderedList && c.typ != BlockOrderedList {
			continue
		}
		// A blank directly after a bare list marker does not count.
		if i+1 < len(p.containers) {
			if item := p.containers[i+1]; item.typ == BlockListItem && !item.hasContent {
				continue
			}
		}
		c.pendingBlank = true
	}
}

// clearPending forgets blank lines that turned out to be interior to a
// still-open leaf; they cannot loosen a list.
func (p *parser) clearPending() {
	for _, c := range p.containers {
		c.pendingBlank = false
	}
}

// touchLists marks the deepest open list loose if a blank line separates
// the content now arriving from what came before.
func (p *parser) touchLists() {
	for i := len(p.containers) - 1; i >= 0; i-- {
		c := p.containers[i]
		if c.typ == BlockUnorderedList || c.typ == BlockOrderedList {
			if c.pendingBlank {
				c.loose = true
				c.pendingBlank = false
			}
			return
		}
	}
}

// popTrailingLists closes lists whose current item has ended; non-item
// content at list level belongs outside the list.
func (p *parser) popTrailingLists() {
	for len(p.containers) > 0 {
		top := p.containers[len(p.containers)-1]
		if top.typ != BlockUnorderedList && top.typ != BlockOrderedList {
			return
		}
		p.closeContainers(len(p.containers) - 1)
	}
}

// openBlocks opens new containers and leaves for the remaining content of
// a non-blank line.
func (p *parser) openBlocks(ln lineSpan, at pos) {
	for {
		indent, ns := p.indentAt(ln, at)
		if ns.off >= ln.text {
			// Only whitespace left (e.g. after a bare list marker).
			return
		}

		if indent >= tabStop {
			switch p.leaf.kind {
			case leafParagraph:
				// Indented content cannot interrupt a paragraph.
				p.appendParaLine(ln, at)
				return
			case leafTable:
				p.appendTableRow(ln, at)
				return
			case leafIndentedCode:
				p.appendIndentedContent(ln, at)
				p.clearPending()
				return
			}
			if p.flags.Has(NoIndentedCodeBlocks) {
				break
			}
			p.openIndentedCode(ln, at)
			return
		}

		c := p.src[ns.off]

		if p.leaf.kind == leafParagraph && (c == '=' || c == '-') {
			if level, ok := p.matchSetext(ln, ns); ok {
				p.closeParagraphSetext(level, ln, ns)
				return
			}
		}

		if (c == '-' || c == '_' || c == '*') && p.matchThematicBreak(ln, ns) {
			p.closeLeaf()
			p.popTrailingLists()
			p.touchLists()
			rec := &blockRec{typ: BlockThematicBreak}
			p.ops = append(p.ops, progOp{opEnter, rec}, progOp{opLeave, rec})
			return
		}

		if c == '#' {
			if level, content, ok := p.matchATX(ln, ns); ok {
				p.closeLeaf()
				p.popTrailingLists()
				p.touchLists()
				rec := &blockRec{
					typ:     BlockHeading,
					detail:  BlockDetail{Heading: &HeadingDetail{Level: level}},
					content: content,
				}
				p.ops = append(p.ops, progOp{opEnter, rec}, progOp{opLeave, rec})
				return
			}
		}

		if c == '`' || c == '~' {
			if fence, ok := p.matchFenceOpen(ln, ns, indent); ok {
				p.closeLeaf()
				p.popTrailingLists()
				p.touchLists()
				p.openFencedCode(fence)
				return
			}
		}

		if c == '<' && !p.flags.Has(NoHTMLBlocks) {
			if kind := p.htmlBlockStart(ln, ns, p.leaf.kind == leafParagraph); kind != 0 {
				p.closeLeaf()
				p.popTrailingLists()
				p.touchLists()
				p.openHTMLBlock(kind, ln, ns)
				return
			}
		}

		if c == '>' {
			p.closeLeaf()
			p.popTrailingLists()
			p.touchLists()
			rec := &blockRec{typ: BlockQuote}
			p.ops = append(p.ops, progOp{opEnter, rec})
			p.containers = append(p.containers, &container{typ: BlockQuote, rec: rec})
			at = pos{off: ns.off + 1, col: ns.col + 1}
			if at.off < ln.text && (p.src[at.off] == ' ' || p.src[at.off] == '\t') {
				at = p.skipIndent(ln, at, 1)
			}
			continue
		}

		if m, ok := p.parseListMarker(ln, at, ns); ok {
			if p.leaf.kind == leafParagraph {
				// An empty item or an ordered item not starting at 1
				// cannot interrupt a paragraph.
				if m.restBlank || (m.ordered && m.start != 1) {
					break
				}
			}
			p.closeLeaf()
			at = p.openListItem(ln, m)
			continue
		}

		break
	}

	// Plain text line.
	switch p.leaf.kind {
	case leafTable:
		p.appendTableRow(ln, at)
		return
	case leafParagraph:
		if p.tryTablePromotion(ln, at) {
			return
		}
		p.appendParaLine(ln, at)
		return
	case leafIndentedCode:
		// Indent dropped below four columns: the code block ends here.
		p.closeLeaf()
	}
	p.popTrailingLists()
	p.touchLists()
	p.openParagraph(ln, at)
}

// matchedList returns the innermost container that survived continuation
// matching when it is a list, nil otherwise. A list marker compatible
// with it begins a sibling item rather than a new list.
func (p *parser) matchedList(n int) *container {
	if n == 0 {
		return nil
	}
	if c := p.containers[n-1]; c.typ == BlockUnorderedList || c.typ == BlockOrderedList {
		return c
	}
	return nil
}

// startsBlock reports whether the remaining line content would open a new
// block, which rules out lazy paragraph continuation. list, when non-nil,
// is the open list the line's marker would extend.
func (p *parser) startsBlock(ln lineSpan, at pos, list *container) bool {
	indent, ns := p.indentAt(ln, at)
	if ns.off >= ln.text || indent >= tabStop {
		// Indented code cannot interrupt a paragraph.
		return false
	}
	switch c := p.src[ns.off]; c {
	case '>':
		return true
	case '#':
		_, _, ok := p.matchATX(ln, ns)
		return ok
	case '`', '~':
		_, ok := p.matchFenceOpen(ln, ns, indent)
		return ok
	case '<':
		if p.flags.Has(NoHTMLBlocks) {
			return false
		}
		return p.htmlBlockStart(ln, ns, true) != 0
	}
	if p.matchThematicBreak(ln, ns) {
		return true
	}
	if m, ok := p.parseListMarker(ln, at, ns); ok {
		if list != nil && list.ordered == m.ordered && list.mark == m.mark {
			// A marker matching the open list starts a sibling item,
			// regardless of its number or trailing content.
			return true
		}
		// A new list cannot interrupt a paragraph with an empty item or
		// an ordered item not starting at 1.
		return !m.restBlank && (!m.ordered || m.start == 1)
	}
	return false
}

// closeContainers closes the leaf and every container above keep,
// innermost first.
func (p *parser) closeContainers(keep int) {
	p.closeLeaf()
	for len(p.containers) > keep {
		c := p.containers[len(p.containers)-1]
		p.containers = p.containers[:len(p.containers)-1]
		if c.typ == BlockUnorderedList || c.typ == BlockOrderedList {
			c.rec.detail.List.Tight = !c.loose
		}
		p.ops = append(p.ops, progOp{opLeave, c.rec})
	}
}

func (p *parser) closeAll() {
	p.closeContainers(0)
}

// appendLeafLine captures the rest of the line as verbatim leaf content.
func (p *parser) appendLeafLine(ln lineSpan, at pos) {
	p.leaf.rec.lines = append(p.leaf.rec.lines, leafLine{start: at.off, end: ln.text, pad: at.pad})
}
