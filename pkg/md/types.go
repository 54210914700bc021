package md

//go:generate stringer -type=BlockType,SpanType,TextType,Align -output=types_string.go

// BlockType classifies a structural block event.
type BlockType uint8

// Block types. Table-related types are only produced when the Tables
// dialect flag is set.
const (
	BlockDocument BlockType = iota
	BlockQuote
	BlockUnorderedList
	BlockOrderedList
	BlockListItem
	BlockThematicBreak
	BlockHeading
	BlockCode
	BlockHTML
	BlockParagraph
	BlockTable
	BlockTableHead
	BlockTableBody
	BlockTableRow
	BlockTableHeaderCell
	BlockTableDataCell
)

// SpanType classifies an inline span event.
type SpanType uint8

// Span types. Strikethrough, math, wiki-link and underline spans are only
// produced when their dialect flags are set.
const (
	SpanEmphasis SpanType = iota
	SpanStrong
	SpanLink
	SpanImage
	SpanCode
	SpanStrikethrough
	SpanLaTeXMath
	SpanLaTeXMathDisplay
	SpanWikiLink
	SpanUnderline
)

// TextType classifies a raw text run.
type TextType uint8

// Text types. The type governs how a renderer must escape the run.
const (
	// TextNormal is ordinary content.
	TextNormal TextType = iota

	// TextNullChar marks a NUL byte in the input; renderers substitute
	// the Unicode replacement character.
	TextNullChar

	// TextHardBreak is a forced line break (<br>).
	TextHardBreak

	// TextSoftBreak is a structural newline inside a paragraph.
	TextSoftBreak

	// TextEntity is a syntactically valid HTML entity, including the
	// leading '&' and trailing ';'.
	TextEntity

	// TextCode is verbatim content of a code block or code span.
	TextCode

	// TextHTML is raw HTML passed through unprocessed.
	TextHTML

	// TextLaTeXMath is verbatim content of a math span.
	TextLaTeXMath
)

// Align is a table column alignment as declared in the delimiter row.
type Align uint8

// Column alignments.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// HeadingDetail accompanies BlockHeading events.
type HeadingDetail struct {
	// Level is the heading level, 1 through 6.
	Level int
}

// ListDetail accompanies BlockUnorderedList and BlockOrderedList events.
type ListDetail struct {
	// Ordered is true for ordered lists.
	Ordered bool

	// Tight is true when no blank line separates any two of the list's
	// items' block content. It is final on both the enter and leave
	// events: the block pass resolves tightness before any event for the
	// list is delivered.
	Tight bool

	// Start is the first item's ordinal. Meaningful only for ordered
	// lists.
	Start int

	// Mark is the bullet character ('-', '+', '*') for unordered lists.
	Mark byte

	// MarkDelimiter is the character after the ordinal ('.' or ')') for
	// ordered lists.
	MarkDelimiter byte
}

// ListItemDetail accompanies BlockListItem events.
type ListItemDetail struct {
	// Task is true when the item is a task list item (TaskLists flag).
	Task bool

	// TaskMark is the character between the brackets: ' ', 'x' or 'X'.
	TaskMark byte

	// TaskMarkOffset is the byte offset of TaskMark in the source.
	TaskMarkOffset int
}

// CodeBlockDetail accompanies BlockCode events.
type CodeBlockDetail struct {
	// FenceChar is '`' or '~' for fenced code blocks, 0 for indented
	// ones.
	FenceChar byte

	// Info is the complete info string of a fenced block.
	Info Attribute

	// Lang is the first word of the info string.
	Lang Attribute
}

// TableDetail accompanies BlockTable events.
type TableDetail struct {
	ColumnCount  int
	HeadRowCount int
	BodyRowCount int
}

// TableCellDetail accompanies BlockTableHeaderCell and BlockTableDataCell
// events, echoing the column alignment fixed by the delimiter row.
type TableCellDetail struct {
	Align Align
}

// LinkDetail accompanies SpanLink events.
type LinkDetail struct {
	Href  Attribute
	Title Attribute

	// IsAutolink is true for <...> autolinks and for permissive
	// autolinks.
	IsAutolink bool
}

// ImageDetail accompanies SpanImage events.
type ImageDetail struct {
	Src   Attribute
	Title Attribute
}

// WikiLinkDetail accompanies SpanWikiLink events.
type WikiLinkDetail struct {
	Target Attribute
}

// BlockDetail carries the per-type detail record of a block event. Only
// the field matching the block type is non-nil; types without details
// (document, quote, thematic break, paragraph, table head/body/row) leave
// every field nil.
type BlockDetail struct {
	Heading  *HeadingDetail
	List     *ListDetail
	ListItem *ListItemDetail
	Code     *CodeBlockDetail
	Table    *TableDetail
	Cell     *TableCellDetail
}

// SpanDetail carries the per-type detail record of a span event. Only the
// field matching the span type is non-nil.
type SpanDetail struct {
	Link  *LinkDetail
	Image *ImageDetail
	Wiki  *WikiLinkDetail
}
