package md

import "bytes"

// Leaf block lifecycle: paragraphs, code blocks and HTML blocks
// accumulate content line by line and are finalized here.

func (p *parser) openParagraph(ln lineSpan, at pos) {
	rec := &blockRec{typ: BlockParagraph}
	p.ops = append(p.ops, progOp{opEnter, rec})
	p.leaf = openLeaf{kind: leafParagraph, rec: rec}
	p.appendParaLine(ln, at)
}

// appendParaLine adds a line to the open paragraph, trimming leading
// whitespace. Trailing whitespace is kept; it may encode a hard break.
func (p *parser) appendParaLine(ln lineSpan, at pos) {
	_, ns := p.indentAt(ln, at)
	p.leaf.paraLines = append(p.leaf.paraLines, leafLine{start: ns.off, end: ln.text})
}

// joinParaLines assembles the paragraph's inline text: lines joined with
// '\n', trailing whitespace of the final line removed.
func (p *parser) joinParaLines(lines []leafLine) []byte {
	var buf []byte
	for i, ll := range lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, p.src[ll.start:ll.end]...)
	}
	return bytes.TrimRight(buf, " \t")
}

func (p *parser) openIndentedCode(ln lineSpan, at pos) {
	p.touchLists()
	rec := &blockRec{
		typ:      BlockCode,
		verbatim: TextCode,
		detail: BlockDetail{Code: &CodeBlockDetail{
			Info: makeAttribute(nil),
			Lang: makeAttribute(nil),
		}},
	}
	p.ops = append(p.ops, progOp{opEnter, rec})
	p.leaf = openLeaf{kind: leafIndentedCode, rec: rec}
	stripped := p.skipIndent(ln, at, tabStop)
	rec.lines = append(rec.lines, leafLine{start: stripped.off, end: ln.text, pad: stripped.pad})
}

// appendIndentedContent adds a content line to the open indented code
// block, flushing any buffered interior blank lines first.
func (p *parser) appendIndentedContent(ln lineSpan, at pos) {
	p.leaf.rec.lines = append(p.leaf.rec.lines, p.leaf.blankRun...)
	p.leaf.blankRun = nil
	stripped := p.skipIndent(ln, at, tabStop)
	p.leaf.rec.lines = append(p.leaf.rec.lines, leafLine{start: stripped.off, end: ln.text, pad: stripped.pad})
}

func (p *parser) openFencedCode(fence fenceInfo) {
	info := unescapeBytes(fence.info)
	lang := info
	if sp := bytes.IndexAny(lang, " \t"); sp >= 0 {
		lang = lang[:sp]
	}
	rec := &blockRec{
		typ:      BlockCode,
		verbatim: TextCode,
		detail: BlockDetail{Code: &CodeBlockDetail{
			FenceChar: fence.char,
			Info:      makeAttribute(info),
			Lang:      makeAttribute(lang),
		}},
	}
	p.ops = append(p.ops, progOp{opEnter, rec})
	p.leaf = openLeaf{
		kind:        leafFencedCode,
		rec:         rec,
		fenceChar:   fence.char,
		fenceLen:    fence.length,
		fenceIndent: fence.indent,
	}
}

// appendFenceContent adds a content line to the open fenced code block,
// stripping at most the opening fence's indentation.
func (p *parser) appendFenceContent(ln lineSpan, at pos) {
	indent, _ := p.indentAt(ln, at)
	strip := p.leaf.fenceIndent
	if indent < strip {
		strip = indent
	}
	stripped := p.skipIndent(ln, at, strip)
	p.leaf.rec.lines = append(p.leaf.rec.lines, leafLine{start: stripped.off, end: ln.text, pad: stripped.pad})
}

func (p *parser) openHTMLBlock(kind int, ln lineSpan, at pos) {
	rec := &blockRec{typ: BlockHTML, verbatim: TextHTML}
	p.ops = append(p.ops, progOp{opEnter, rec})
	p.leaf = openLeaf{kind: leafHTML, rec: rec, htmlKind: kind}
	p.appendLeafLine(ln, at)
	if p.htmlBlockEnd(kind, ln, at) {
		p.closeLeaf()
	}
}

// closeLeaf finalizes the open leaf, if any.
func (p *parser) closeLeaf() {
	leaf := p.leaf
	p.leaf = openLeaf{}
	switch leaf.kind {
	case leafNone:
		return
	case leafParagraph:
		p.closeParagraph(leaf)
	case leafTable:
		p.closeTable(leaf)
	case leafIndentedCode:
		// Buffered trailing blank lines are discarded.
		p.ops = append(p.ops, progOp{opLeave, leaf.rec})
	default:
		p.ops = append(p.ops, progOp{opLeave, leaf.rec})
	}
}

// closeParagraph extracts leading link reference definitions and emits
// what remains as paragraph content. A paragraph consumed entirely by
// definitions vanishes from the program.
func (p *parser) closeParagraph(leaf openLeaf) {
	buf := p.joinParaLines(leaf.paraLines)
	rest := p.extractRefDefs(buf)
	rest = bytes.TrimLeft(rest, " \t\n")
	if len(rest) == 0 {
		p.removeLastEnter(leaf.rec)
		return
	}
	leaf.rec.content = rest
	p.ops = append(p.ops, progOp{opLeave, leaf.rec})
}

// closeParagraphSetext converts the open paragraph into a setext heading
// of the given level.
func (p *parser) closeParagraphSetext(level int, ln lineSpan, ns pos) {
	leaf := p.leaf
	p.leaf = openLeaf{}
	buf := p.joinParaLines(leaf.paraLines)
	rest := p.extractRefDefs(buf)
	rest = bytes.Trim(rest, " \t\n")
	if len(rest) == 0 {
		// Nothing but definitions: the underline is ordinary content.
		p.removeLastEnter(leaf.rec)
		if p.matchThematicBreak(ln, ns) {
			rec := &blockRec{typ: BlockThematicBreak}
			p.ops = append(p.ops, progOp{opEnter, rec}, progOp{opLeave, rec})
			return
		}
		at := pos{off: ns.off, col: ns.col}
		p.openParagraph(ln, at)
		return
	}
	leaf.rec.typ = BlockHeading
	leaf.rec.detail = BlockDetail{Heading: &HeadingDetail{Level: level}}
	leaf.rec.content = rest
	p.ops = append(p.ops, progOp{opLeave, leaf.rec})
}

// removeLastEnter drops the enter instruction of a leaf that produced no
// events. Leaves have no children, so the instruction is necessarily the
// last one recorded.
func (p *parser) removeLastEnter(rec *blockRec) {
	if n := len(p.ops); n > 0 && p.ops[n-1].rec == rec && p.ops[n-1].kind == opEnter {
		p.ops = p.ops[:n-1]
	}
}

// unescapeBytes resolves backslash escapes of ASCII punctuation.
func unescapeBytes(text []byte) []byte {
	if bytes.IndexByte(text, '\\') < 0 {
		return text
	}
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) && isASCIIPunct(text[i+1]) {
			i++
		}
		out = append(out, text[i])
	}
	return out
}

func isASCIIPunct(c byte) bool {
	switch {
	case c >= '!' && c <= '/':
		return true
	case c >= ':' && c <= '@':
		return true
	case c >= '[' && c <= '`':
		return true
	case c >= '{' && c <= '~':
		return true
	}
	return false
}
