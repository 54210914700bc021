// Package docstats collects structural statistics about a Markdown
// document by consuming the parser's event stream. It backs the check
// command, which reports document structure without rendering.
package docstats

import "github.com/yaklabco/mdstream/pkg/md"

// Stats summarizes the structure of one document.
type Stats struct {
	// Bytes is the size of the source document.
	Bytes int

	// Block counts.
	Paragraphs  int
	Headings    int
	CodeBlocks  int
	Blockquotes int
	Lists       int
	ListItems   int
	Tables      int
	HTMLBlocks  int

	// MaxHeadingLevel is the deepest heading level seen, 0 when the
	// document has no headings.
	MaxHeadingLevel int

	// Span counts.
	Links     int
	Autolinks int
	Images    int
	CodeSpans int

	// Words counts whitespace-separated runs of normal text.
	Words int
}

// Collect parses src in the given dialect and tallies its structure.
func Collect(src []byte, flags md.Flags) (*Stats, error) {
	c := &collector{stats: Stats{Bytes: len(src)}}
	if err := md.Parse(src, flags, c); err != nil {
		return nil, err
	}
	return &c.stats, nil
}

// collector implements md.Visitor.
type collector struct {
	stats  Stats
	inWord bool

	// blocks mirrors the open block stack; listTight mirrors the open
	// list stack.
	blocks    []md.BlockType
	listTight []bool
}

func (c *collector) EnterBlock(t md.BlockType, detail md.BlockDetail) error {
	switch t {
	case md.BlockParagraph:
		// Paragraphs directly inside a tight list item are event-stream
		// envelopes that render without <p> tags; they are not counted.
		if !c.inTightItem() {
			c.stats.Paragraphs++
		}
	case md.BlockHeading:
		c.stats.Headings++
		if detail.Heading != nil && detail.Heading.Level > c.stats.MaxHeadingLevel {
			c.stats.MaxHeadingLevel = detail.Heading.Level
		}
	case md.BlockCode:
		c.stats.CodeBlocks++
	case md.BlockQuote:
		c.stats.Blockquotes++
	case md.BlockUnorderedList, md.BlockOrderedList:
		c.stats.Lists++
		c.listTight = append(c.listTight, detail.List != nil && detail.List.Tight)
	case md.BlockListItem:
		c.stats.ListItems++
	case md.BlockTable:
		c.stats.Tables++
	case md.BlockHTML:
		c.stats.HTMLBlocks++
	}
	c.blocks = append(c.blocks, t)
	c.inWord = false
	return nil
}

func (c *collector) LeaveBlock(t md.BlockType, _ md.BlockDetail) error {
	if n := len(c.blocks); n > 0 {
		c.blocks = c.blocks[:n-1]
	}
	if t == md.BlockUnorderedList || t == md.BlockOrderedList {
		c.listTight = c.listTight[:len(c.listTight)-1]
	}
	c.inWord = false
	return nil
}

// inTightItem reports whether the innermost open block is an item of a
// tight list.
func (c *collector) inTightItem() bool {
	if len(c.blocks) == 0 || c.blocks[len(c.blocks)-1] != md.BlockListItem {
		return false
	}
	return len(c.listTight) > 0 && c.listTight[len(c.listTight)-1]
}

func (c *collector) EnterSpan(t md.SpanType, detail md.SpanDetail) error {
	switch t {
	case md.SpanLink, md.SpanWikiLink:
		c.stats.Links++
		if detail.Link != nil && detail.Link.IsAutolink {
			c.stats.Autolinks++
		}
	case md.SpanImage:
		c.stats.Images++
	case md.SpanCode:
		c.stats.CodeSpans++
	}
	return nil
}

func (c *collector) LeaveSpan(md.SpanType, md.SpanDetail) error {
	return nil
}

func (c *collector) Text(t md.TextType, text []byte) error {
	switch t {
	case md.TextNormal:
		for _, b := range text {
			if b == ' ' || b == '\t' || b == '\n' {
				c.inWord = false
				continue
			}
			if !c.inWord {
				c.stats.Words++
			}
			c.inWord = true
		}
	case md.TextEntity, md.TextNullChar:
		// An entity or replacement character continues the current word.
		if !c.inWord {
			c.stats.Words++
		}
		c.inWord = true
	default:
		c.inWord = false
	}
	return nil
}
