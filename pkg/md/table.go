package md

import "bytes"

// GitHub-style tables. A one-line paragraph is promoted to a table when
// the following line matches the delimiter-row grammar with the same cell
// count; the column count and per-column alignments are fixed at that
// point and echoed into every cell's detail.

// tryTablePromotion converts the open single-line paragraph into a table
// leaf if the current line is a valid delimiter row.
func (p *parser) tryTablePromotion(ln lineSpan, at pos) bool {
	if !p.flags.Has(Tables) || len(p.leaf.paraLines) != 1 {
		return false
	}
	_, ns := p.indentAt(ln, at)
	aligns, ok := p.parseDelimiterRow(ln, ns)
	if !ok {
		return false
	}
	header := p.leaf.paraLines[0]
	if len(p.splitTableRow(p.src[header.start:header.end])) != len(aligns) {
		return false
	}

	rec := p.leaf.rec
	p.leaf = openLeaf{
		kind:        leafTable,
		tableRows:   []leafLine{header},
		tableAligns: aligns,
	}
	p.removeLastEnter(rec)
	return true
}

// parseDelimiterRow matches cells of '-' runs with optional ':' alignment
// markers, pipe-separated. At least one pipe is required somewhere on the
// line; a bare '---' line is a setext underline or thematic break, never
// a table.
func (p *parser) parseDelimiterRow(ln lineSpan, ns pos) ([]Align, bool) {
	row := bytes.Trim(p.src[ns.off:ln.text], " \t")
	if bytes.IndexByte(row, '|') < 0 {
		return nil, false
	}
	var aligns []Align
	for _, cell := range p.splitTableRow(row) {
		c := bytes.Trim(cell, " \t")
		if len(c) == 0 {
			return nil, false
		}
		left := c[0] == ':'
		right := c[len(c)-1] == ':'
		if left {
			c = c[1:]
		}
		if right && len(c) > 0 {
			c = c[:len(c)-1]
		}
		if len(c) == 0 {
			return nil, false
		}
		for _, b := range c {
			if b != '-' {
				return nil, false
			}
		}
		switch {
		case left && right:
			aligns = append(aligns, AlignCenter)
		case left:
			aligns = append(aligns, AlignLeft)
		case right:
			aligns = append(aligns, AlignRight)
		default:
			aligns = append(aligns, AlignDefault)
		}
	}
	return aligns, len(aligns) > 0
}

// splitTableRow splits a row into raw cell byte slices on unescaped
// pipes, honoring the optional leading and trailing pipe.
func (p *parser) splitTableRow(row []byte) [][]byte {
	row = bytes.Trim(row, " \t")
	if len(row) > 0 && row[0] == '|' {
		row = row[1:]
	}
	var cells [][]byte
	start := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, row[start:i])
			start = i + 1
		}
	}
	last := row[start:]
	if len(bytes.Trim(last, " \t")) > 0 || len(cells) == 0 {
		cells = append(cells, last)
	}
	return cells
}

// appendTableRow adds a body row to the open table leaf.
func (p *parser) appendTableRow(ln lineSpan, at pos) {
	_, ns := p.indentAt(ln, at)
	p.leaf.tableRows = append(p.leaf.tableRows, leafLine{start: ns.off, end: ln.text})
	p.clearPending()
}

// closeTable emits the accumulated rows as the table's program: header
// row under thead, remaining rows under tbody (omitted when empty).
func (p *parser) closeTable(leaf openLeaf) {
	aligns := leaf.tableAligns
	cols := len(aligns)
	bodyRows := leaf.tableRows[1:]

	table := &blockRec{
		typ: BlockTable,
		detail: BlockDetail{Table: &TableDetail{
			ColumnCount:  cols,
			HeadRowCount: 1,
			BodyRowCount: len(bodyRows),
		}},
	}
	p.ops = append(p.ops, progOp{opEnter, table})

	thead := &blockRec{typ: BlockTableHead}
	p.ops = append(p.ops, progOp{opEnter, thead})
	p.emitTableRow(leaf.tableRows[0], aligns, BlockTableHeaderCell)
	p.ops = append(p.ops, progOp{opLeave, thead})

	if len(bodyRows) > 0 {
		tbody := &blockRec{typ: BlockTableBody}
		p.ops = append(p.ops, progOp{opEnter, tbody})
		for _, row := range bodyRows {
			p.emitTableRow(row, aligns, BlockTableDataCell)
		}
		p.ops = append(p.ops, progOp{opLeave, tbody})
	}

	p.ops = append(p.ops, progOp{opLeave, table})
}

// emitTableRow appends one row's program: excess cells are dropped,
// missing cells filled in empty.
func (p *parser) emitTableRow(row leafLine, aligns []Align, cellType BlockType) {
	tr := &blockRec{typ: BlockTableRow}
	p.ops = append(p.ops, progOp{opEnter, tr})

	cells := p.splitTableRow(p.src[row.start:row.end])
	for i, align := range aligns {
		var content []byte
		if i < len(cells) {
			content = bytes.Trim(cells[i], " \t")
		}
		rec := &blockRec{
			typ:     cellType,
			detail:  BlockDetail{Cell: &TableCellDetail{Align: align}},
			content: content,
		}
		p.ops = append(p.ops, progOp{opEnter, rec}, progOp{opLeave, rec})
	}

	p.ops = append(p.ops, progOp{opLeave, tr})
}
