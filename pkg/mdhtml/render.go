// Package mdhtml renders Markdown to HTML by driving the streaming
// parser in pkg/md with a visitor that writes markup as events arrive.
// Output is produced in a single pass with no intermediate tree.
package mdhtml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yaklabco/mdstream/pkg/md"
)

// Flags adjust the rendered HTML independently of the Markdown dialect.
type Flags uint32

const (
	// Debug forwards the parser's internal diagnostics to the function
	// set with WithDebugLog.
	Debug Flags = 1 << iota

	// VerbatimEntities copies entity references to the output unchanged
	// instead of decoding them.
	VerbatimEntities

	// SkipUTF8BOM ignores a leading UTF-8 byte order mark in the input.
	SkipUTF8BOM

	// XHTML closes void elements in XHTML style (<br />, <hr />).
	XHTML
)

// Has reports whether every flag in q is set.
func (f Flags) Has(q Flags) bool { return f&q == q }

// LanguageResolver maps a code fence's language word to the class name
// to render. Returning "" keeps the original.
type LanguageResolver func(lang string) string

// Option configures a Render call.
type Option func(*renderer)

// WithFlags sets the renderer flags.
func WithFlags(f Flags) Option {
	return func(r *renderer) { r.flags = f }
}

// WithLanguageResolver canonicalizes code fence languages before they
// are written as class="language-..." attributes.
func WithLanguageResolver(fn LanguageResolver) Option {
	return func(r *renderer) { r.resolver = fn }
}

// WithDebugLog sets the sink for parser diagnostics. It only takes
// effect together with the Debug flag.
func WithDebugLog(fn md.DebugFunc) Option {
	return func(r *renderer) { r.debug = fn }
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Render parses src in the given dialect and writes HTML to w. A write
// error on w does not abort the parse; the first one is remembered and
// returned after the document has been drained.
func Render(w io.Writer, src []byte, dialect md.Flags, opts ...Option) error {
	r := &renderer{w: errWriter{w: w}, dialect: dialect}
	for _, opt := range opts {
		opt(r)
	}

	if r.flags.Has(SkipUTF8BOM) && bytes.HasPrefix(src, utf8BOM) {
		src = src[len(utf8BOM):]
	}

	var popts []md.Option
	if r.flags.Has(Debug) && r.debug != nil {
		popts = append(popts, md.WithDebugLog(r.debug))
	}
	if err := md.Parse(src, dialect, r, popts...); err != nil {
		return err
	}
	return r.w.err
}

// renderer implements md.Visitor. Its methods never return an error:
// sink failures are latched in the errWriter so the parse always runs
// to completion, keeping event accounting balanced for the caller.
type renderer struct {
	w        errWriter
	flags    Flags
	dialect  md.Flags
	resolver LanguageResolver
	debug    md.DebugFunc

	// blocks is the open block stack; used to decide whether a
	// paragraph sits directly in a list item.
	blocks []md.BlockType

	// tight tracks the tightness of each open list, innermost last.
	tight []bool

	// pTight is true while inside a paragraph whose tags are suppressed
	// by a tight list.
	pTight bool

	// imageNesting counts open image spans. Inside an image's alt text
	// only plain text is rendered.
	imageNesting int
}

func (r *renderer) EnterBlock(t md.BlockType, detail md.BlockDetail) error {
	switch t {
	case md.BlockDocument:
	case md.BlockQuote:
		r.w.writeString("<blockquote>\n")
	case md.BlockUnorderedList:
		r.tight = append(r.tight, detail.List.Tight)
		r.w.writeString("<ul>\n")
	case md.BlockOrderedList:
		r.tight = append(r.tight, detail.List.Tight)
		if detail.List.Start == 1 {
			r.w.writeString("<ol>\n")
		} else {
			fmt.Fprintf(&r.w, "<ol start=\"%d\">\n", detail.List.Start)
		}
	case md.BlockListItem:
		if d := detail.ListItem; d != nil && d.Task {
			r.w.writeString(`<li class="task-list-item"><input type="checkbox" class="task-list-item-checkbox" disabled`)
			if d.TaskMark == 'x' || d.TaskMark == 'X' {
				r.w.writeString(" checked")
			}
			r.closeVoid()
		} else {
			r.w.writeString("<li>")
		}
	case md.BlockThematicBreak:
		if r.flags.Has(XHTML) {
			r.w.writeString("<hr />\n")
		} else {
			r.w.writeString("<hr>\n")
		}
	case md.BlockHeading:
		fmt.Fprintf(&r.w, "<h%d>", detail.Heading.Level)
	case md.BlockCode:
		r.w.writeString("<pre><code")
		if d := detail.Code; d != nil && !d.Lang.Empty() {
			r.w.writeString(` class="language-`)
			r.writeLang(d.Lang)
			r.w.writeString(`"`)
		}
		r.w.writeString(">")
	case md.BlockHTML:
		// Content arrives as verbatim text events.
	case md.BlockParagraph:
		r.pTight = r.inTightItem()
		if !r.pTight {
			r.w.writeString("<p>")
		}
	case md.BlockTable:
		r.w.writeString("<table>\n")
	case md.BlockTableHead:
		r.w.writeString("<thead>\n")
	case md.BlockTableBody:
		r.w.writeString("<tbody>\n")
	case md.BlockTableRow:
		r.w.writeString("<tr>\n")
	case md.BlockTableHeaderCell:
		r.openCell("th", detail.Cell)
	case md.BlockTableDataCell:
		r.openCell("td", detail.Cell)
	}
	r.blocks = append(r.blocks, t)
	return nil
}

func (r *renderer) LeaveBlock(t md.BlockType, detail md.BlockDetail) error {
	r.blocks = r.blocks[:len(r.blocks)-1]
	switch t {
	case md.BlockDocument:
	case md.BlockQuote:
		r.w.writeString("</blockquote>\n")
	case md.BlockUnorderedList:
		r.tight = r.tight[:len(r.tight)-1]
		r.w.writeString("</ul>\n")
	case md.BlockOrderedList:
		r.tight = r.tight[:len(r.tight)-1]
		r.w.writeString("</ol>\n")
	case md.BlockListItem:
		r.w.writeString("</li>\n")
	case md.BlockThematicBreak:
	case md.BlockHeading:
		fmt.Fprintf(&r.w, "</h%d>\n", detail.Heading.Level)
	case md.BlockCode:
		r.w.writeString("</code></pre>\n")
	case md.BlockHTML:
	case md.BlockParagraph:
		if !r.pTight {
			r.w.writeString("</p>\n")
		}
		r.pTight = false
	case md.BlockTable:
		r.w.writeString("</table>\n")
	case md.BlockTableHead:
		r.w.writeString("</thead>\n")
	case md.BlockTableBody:
		r.w.writeString("</tbody>\n")
	case md.BlockTableRow:
		r.w.writeString("</tr>\n")
	case md.BlockTableHeaderCell:
		r.w.writeString("</th>\n")
	case md.BlockTableDataCell:
		r.w.writeString("</td>\n")
	}
	return nil
}

func (r *renderer) EnterSpan(t md.SpanType, detail md.SpanDetail) error {
	if t == md.SpanImage {
		r.imageNesting++
		if r.imageNesting > 1 {
			return nil
		}
		r.w.writeString(`<img src="`)
		r.writeAttribute(detail.Image.Src, true)
		r.w.writeString(`" alt="`)
		return nil
	}
	if r.imageNesting > 0 {
		return nil
	}
	switch t {
	case md.SpanEmphasis:
		r.w.writeString("<em>")
	case md.SpanStrong:
		r.w.writeString("<strong>")
	case md.SpanLink:
		r.w.writeString(`<a href="`)
		r.writeAttribute(detail.Link.Href, true)
		if !detail.Link.Title.Empty() {
			r.w.writeString(`" title="`)
			r.writeAttribute(detail.Link.Title, false)
		}
		r.w.writeString(`">`)
	case md.SpanCode:
		r.w.writeString("<code>")
	case md.SpanStrikethrough:
		r.w.writeString("<del>")
	case md.SpanLaTeXMath:
		r.w.writeString("<x-equation>")
	case md.SpanLaTeXMathDisplay:
		r.w.writeString(`<x-equation type="display">`)
	case md.SpanWikiLink:
		r.w.writeString(`<x-wikilink data-target="`)
		r.writeAttribute(detail.Wiki.Target, false)
		r.w.writeString(`">`)
	case md.SpanUnderline:
		r.w.writeString("<u>")
	}
	return nil
}

func (r *renderer) LeaveSpan(t md.SpanType, detail md.SpanDetail) error {
	if t == md.SpanImage {
		r.imageNesting--
		if r.imageNesting > 0 {
			return nil
		}
		r.w.writeString(`"`)
		if !detail.Image.Title.Empty() {
			r.w.writeString(` title="`)
			r.writeAttribute(detail.Image.Title, false)
			r.w.writeString(`"`)
		}
		r.closeVoid()
		return nil
	}
	if r.imageNesting > 0 {
		return nil
	}
	switch t {
	case md.SpanEmphasis:
		r.w.writeString("</em>")
	case md.SpanStrong:
		r.w.writeString("</strong>")
	case md.SpanLink:
		r.w.writeString("</a>")
	case md.SpanCode:
		r.w.writeString("</code>")
	case md.SpanStrikethrough:
		r.w.writeString("</del>")
	case md.SpanLaTeXMath, md.SpanLaTeXMathDisplay:
		r.w.writeString("</x-equation>")
	case md.SpanWikiLink:
		r.w.writeString("</x-wikilink>")
	case md.SpanUnderline:
		r.w.writeString("</u>")
	}
	return nil
}

func (r *renderer) Text(t md.TextType, text []byte) error {
	if r.imageNesting > 0 {
		// Image alt text: only character data survives.
		switch t {
		case md.TextNormal, md.TextCode, md.TextLaTeXMath:
			r.writeEscaped(text)
		case md.TextEntity:
			r.writeEntity(text, false)
		case md.TextNullChar:
			r.w.writeString(replacementChar)
		case md.TextHardBreak, md.TextSoftBreak:
			r.w.writeString(" ")
		}
		return nil
	}
	switch t {
	case md.TextNormal, md.TextCode, md.TextLaTeXMath:
		r.writeEscaped(text)
	case md.TextNullChar:
		r.w.writeString(replacementChar)
	case md.TextHardBreak:
		if r.flags.Has(XHTML) {
			r.w.writeString("<br />\n")
		} else {
			r.w.writeString("<br>\n")
		}
	case md.TextSoftBreak:
		r.w.writeString("\n")
	case md.TextEntity:
		r.writeEntity(text, false)
	case md.TextHTML:
		r.w.write(text)
	}
	return nil
}

// closeVoid terminates a void element per the XHTML flag.
func (r *renderer) closeVoid() {
	if r.flags.Has(XHTML) {
		r.w.writeString(" />")
	} else {
		r.w.writeString(">")
	}
}

// inTightItem reports whether the current position is directly inside a
// list item of a tight list.
func (r *renderer) inTightItem() bool {
	if len(r.blocks) == 0 || len(r.tight) == 0 {
		return false
	}
	return r.blocks[len(r.blocks)-1] == md.BlockListItem && r.tight[len(r.tight)-1]
}

func (r *renderer) openCell(tag string, d *md.TableCellDetail) {
	r.w.writeString("<")
	r.w.writeString(tag)
	if d != nil {
		switch d.Align {
		case md.AlignLeft:
			r.w.writeString(` align="left"`)
		case md.AlignCenter:
			r.w.writeString(` align="center"`)
		case md.AlignRight:
			r.w.writeString(` align="right"`)
		}
	}
	r.w.writeString(">")
}

// writeLang writes a code block's language class, canonicalized by the
// resolver when one is set.
func (r *renderer) writeLang(lang md.Attribute) {
	if r.resolver != nil {
		if c := r.resolver(lang.String()); c != "" {
			r.writeEscaped([]byte(c))
			return
		}
	}
	r.writeAttribute(lang, false)
}

// errWriter latches the first write error and swallows everything after
// it, so rendering can drain the event stream without partial-state
// cleanup.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	ew.write(p)
	return len(p), nil
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(p)
}

func (ew *errWriter) writeString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
