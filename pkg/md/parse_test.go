package md_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/mdstream/pkg/md"
)

// recorder captures the event stream as a flat trace and verifies stack
// discipline as events arrive.
type recorder struct {
	t *testing.T

	trace      []string
	blockStack []md.BlockType
	spanStack  []md.SpanType

	// details captured for assertions.
	lists     []md.ListDetail
	items     []md.ListItemDetail
	links     []md.LinkDetail
	tables    []md.TableDetail
	cellAlign []md.Align
	headings  []int
	code      []md.CodeBlockDetail
}

func (r *recorder) EnterBlock(t md.BlockType, detail md.BlockDetail) error {
	r.blockStack = append(r.blockStack, t)
	r.trace = append(r.trace, fmt.Sprintf("+B%d", t))
	switch t {
	case md.BlockHeading:
		r.headings = append(r.headings, detail.Heading.Level)
	case md.BlockUnorderedList, md.BlockOrderedList:
		r.lists = append(r.lists, *detail.List)
	case md.BlockListItem:
		if detail.ListItem != nil {
			r.items = append(r.items, *detail.ListItem)
		}
	case md.BlockCode:
		if detail.Code != nil {
			r.code = append(r.code, *detail.Code)
		}
	case md.BlockTable:
		r.tables = append(r.tables, *detail.Table)
	case md.BlockTableHeaderCell, md.BlockTableDataCell:
		r.cellAlign = append(r.cellAlign, detail.Cell.Align)
	}
	return nil
}

func (r *recorder) LeaveBlock(t md.BlockType, _ md.BlockDetail) error {
	if len(r.blockStack) == 0 {
		r.t.Fatalf("LeaveBlock(%d) with empty block stack", t)
	}
	top := r.blockStack[len(r.blockStack)-1]
	if top != t {
		r.t.Fatalf("LeaveBlock(%d) does not match open block %d", t, top)
	}
	r.blockStack = r.blockStack[:len(r.blockStack)-1]
	r.trace = append(r.trace, fmt.Sprintf("-B%d", t))
	return nil
}

func (r *recorder) EnterSpan(t md.SpanType, detail md.SpanDetail) error {
	r.spanStack = append(r.spanStack, t)
	r.trace = append(r.trace, fmt.Sprintf("+S%d", t))
	if t == md.SpanLink {
		r.links = append(r.links, *detail.Link)
	}
	return nil
}

func (r *recorder) LeaveSpan(t md.SpanType, _ md.SpanDetail) error {
	if len(r.spanStack) == 0 {
		r.t.Fatalf("LeaveSpan(%d) with empty span stack", t)
	}
	top := r.spanStack[len(r.spanStack)-1]
	if top != t {
		r.t.Fatalf("LeaveSpan(%d) does not match open span %d", t, top)
	}
	r.spanStack = r.spanStack[:len(r.spanStack)-1]
	r.trace = append(r.trace, fmt.Sprintf("-S%d", t))
	return nil
}

func (r *recorder) Text(t md.TextType, text []byte) error {
	r.trace = append(r.trace, fmt.Sprintf("T%d:%s", t, text))
	return nil
}

// text concatenates the content of all text events of the given type.
func (r *recorder) text(want md.TextType) string {
	var b strings.Builder
	prefix := fmt.Sprintf("T%d:", want)
	for _, ev := range r.trace {
		if strings.HasPrefix(ev, prefix) {
			b.WriteString(ev[len(prefix):])
		}
	}
	return b.String()
}

// blockCount counts enter events for the given block type.
func (r *recorder) blockCount(want md.BlockType) int {
	n := 0
	key := fmt.Sprintf("+B%d", want)
	for _, ev := range r.trace {
		if ev == key {
			n++
		}
	}
	return n
}

func (r *recorder) spanCount(want md.SpanType) int {
	n := 0
	key := fmt.Sprintf("+S%d", want)
	for _, ev := range r.trace {
		if ev == key {
			n++
		}
	}
	return n
}

func parseDoc(t *testing.T, src string, flags md.Flags) *recorder {
	t.Helper()
	rec := &recorder{t: t}
	if err := md.Parse([]byte(src), flags, rec); err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	if len(rec.blockStack) != 0 {
		t.Fatalf("unclosed blocks after parse: %v", rec.blockStack)
	}
	if len(rec.spanStack) != 0 {
		t.Fatalf("unclosed spans after parse: %v", rec.spanStack)
	}
	return rec
}

func TestParse_DocumentEnvelope(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "hello\n", md.DialectCommonMark)

	if len(rec.trace) < 2 {
		t.Fatalf("trace too short: %v", rec.trace)
	}
	if want := fmt.Sprintf("+B%d", md.BlockDocument); rec.trace[0] != want {
		t.Errorf("first event = %s, want %s", rec.trace[0], want)
	}
	if want := fmt.Sprintf("-B%d", md.BlockDocument); rec.trace[len(rec.trace)-1] != want {
		t.Errorf("last event = %s, want %s", rec.trace[len(rec.trace)-1], want)
	}
}

func TestParse_EventBalance(t *testing.T) {
	t.Parallel()

	docs := []string{
		"",
		"# Heading\n\nParagraph with *emphasis* and **strong**.\n",
		"> quote\n>\n> more\n",
		"- a\n- b\n  - nested\n",
		"1. one\n2. two\n",
		"```go\nfunc main() {}\n```\n",
		"    indented code\n",
		"text with `code` and [link](/url)\n",
		"![alt](/img.png)\n",
		"***\n",
		"<div>\nhtml block\n</div>\n",
		"[ref]\n\n[ref]: /target \"title\"\n",
		"a\x00b\n",
	}

	for _, doc := range docs {
		parseDoc(t, doc, md.DialectCommonMark)
		parseDoc(t, doc, md.DialectGitHub)
	}
}

func TestParse_Heading(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "## Title\n\nBody\n", md.DialectCommonMark)

	if len(rec.headings) != 1 || rec.headings[0] != 2 {
		t.Errorf("headings = %v, want [2]", rec.headings)
	}
	if got := rec.text(md.TextNormal); got != "TitleBody" {
		t.Errorf("normal text = %q, want %q", got, "TitleBody")
	}
}

func TestParse_SetextHeading(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "Title\n=====\n", md.DialectCommonMark)

	if len(rec.headings) != 1 || rec.headings[0] != 1 {
		t.Errorf("headings = %v, want [1]", rec.headings)
	}
	if rec.blockCount(md.BlockParagraph) != 0 {
		t.Error("setext heading must not produce a paragraph")
	}
}

func TestParse_SpanOrder(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "*a* **b** `c`\n", md.DialectCommonMark)

	if rec.spanCount(md.SpanEmphasis) != 1 {
		t.Error("expected one emphasis span")
	}
	if rec.spanCount(md.SpanStrong) != 1 {
		t.Error("expected one strong span")
	}
	if rec.spanCount(md.SpanCode) != 1 {
		t.Error("expected one code span")
	}
}

func TestParse_ListTightness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		tight bool
	}{
		{"tight", "- a\n- b\n", true},
		{"loose", "- a\n\n- b\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := parseDoc(t, tt.src, md.DialectCommonMark)
			if len(rec.lists) != 1 {
				t.Fatalf("lists = %v, want one list", rec.lists)
			}
			if rec.lists[0].Tight != tt.tight {
				t.Errorf("Tight = %v, want %v", rec.lists[0].Tight, tt.tight)
			}
		})
	}
}

func TestParse_OrderedListStart(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "3. three\n4. four\n", md.DialectCommonMark)

	if len(rec.lists) != 1 {
		t.Fatalf("lists = %v, want one list", rec.lists)
	}
	l := rec.lists[0]
	if !l.Ordered {
		t.Error("expected ordered list")
	}
	if l.Start != 3 {
		t.Errorf("Start = %d, want 3", l.Start)
	}
	if l.MarkDelimiter != '.' {
		t.Errorf("MarkDelimiter = %q, want '.'", l.MarkDelimiter)
	}
}

func TestParse_ListSiblingItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		lists int
		items int
	}{
		{"ordered from one", "1. a\n2. b\n", 1, 2},
		{"ordered from three", "3. a\n4. b\n", 1, 2},
		{"empty bullet between items", "- a\n-\n- b\n", 1, 3},
		{"paren delimiter", "1) a\n2) b\n", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := parseDoc(t, tt.src, md.DialectCommonMark)
			if got := len(rec.lists); got != tt.lists {
				t.Fatalf("lists = %d, want %d", got, tt.lists)
			}
			if got := rec.blockCount(md.BlockListItem); got != tt.items {
				t.Errorf("items = %d, want %d", got, tt.items)
			}
			if got := rec.text(md.TextNormal); strings.ContainsAny(got, ".)") {
				t.Errorf("marker leaked into paragraph text: %q", got)
			}
		})
	}

	// A marker with a different delimiter is a new list, so the usual
	// interrupt restriction applies and the line stays paragraph text.
	rec := parseDoc(t, "1. a\n2) b\n", md.DialectCommonMark)
	if got := len(rec.lists); got != 1 {
		t.Fatalf("lists = %d, want 1", got)
	}
	if got := rec.blockCount(md.BlockListItem); got != 1 {
		t.Errorf("items = %d, want 1", got)
	}
	if got := rec.text(md.TextNormal); !strings.Contains(got, "2) b") {
		t.Errorf("text = %q, want lazy continuation keeping %q", got, "2) b")
	}
}

func TestParse_TaskList(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "- [x] done\n- [ ] open\n", md.TaskLists)

	if len(rec.items) != 2 {
		t.Fatalf("items = %v, want two", rec.items)
	}
	if !rec.items[0].Task || rec.items[0].TaskMark != 'x' {
		t.Errorf("item 0 = %+v, want checked task", rec.items[0])
	}
	if !rec.items[1].Task || rec.items[1].TaskMark != ' ' {
		t.Errorf("item 1 = %+v, want unchecked task", rec.items[1])
	}
}

func TestParse_TaskListDisabledByDefault(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "- [x] done\n", md.DialectCommonMark)

	for _, item := range rec.items {
		if item.Task {
			t.Error("task item produced without TaskLists flag")
		}
	}
}

func TestParse_FencedCodeInfo(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "```go linenums\nx := 1\n```\n", md.DialectCommonMark)

	if len(rec.code) != 1 {
		t.Fatalf("code blocks = %v, want one", rec.code)
	}
	c := rec.code[0]
	if c.FenceChar != '`' {
		t.Errorf("FenceChar = %q, want '`'", c.FenceChar)
	}
	if c.Lang.String() != "go" {
		t.Errorf("Lang = %q, want %q", c.Lang.String(), "go")
	}
	if c.Info.String() != "go linenums" {
		t.Errorf("Info = %q, want %q", c.Info.String(), "go linenums")
	}
	if got := rec.text(md.TextCode); got != "x := 1\n" {
		t.Errorf("code text = %q, want %q", got, "x := 1\n")
	}
}

func TestParse_IndentedCode(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "    code line\n", md.DialectCommonMark)
	if rec.blockCount(md.BlockCode) != 1 {
		t.Error("expected one code block")
	}

	rec = parseDoc(t, "    code line\n", md.NoIndentedCodeBlocks)
	if rec.blockCount(md.BlockCode) != 0 {
		t.Error("indented code block produced despite NoIndentedCodeBlocks")
	}
}

func TestParse_LinkDetail(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, `[label](/url "the title")`+"\n", md.DialectCommonMark)

	if len(rec.links) != 1 {
		t.Fatalf("links = %v, want one", rec.links)
	}
	l := rec.links[0]
	if l.Href.String() != "/url" {
		t.Errorf("Href = %q, want %q", l.Href.String(), "/url")
	}
	if l.Title.String() != "the title" {
		t.Errorf("Title = %q, want %q", l.Title.String(), "the title")
	}
	if l.IsAutolink {
		t.Error("inline link reported as autolink")
	}
}

func TestParse_ReferenceLink(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "[label][ref]\n\n[ref]: /target \"t\"\n", md.DialectCommonMark)

	if len(rec.links) != 1 {
		t.Fatalf("links = %v, want one", rec.links)
	}
	if got := rec.links[0].Href.String(); got != "/target" {
		t.Errorf("Href = %q, want %q", got, "/target")
	}
}

func TestParse_Autolink(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "<http://example.com>\n", md.DialectCommonMark)

	if len(rec.links) != 1 {
		t.Fatalf("links = %v, want one", rec.links)
	}
	l := rec.links[0]
	if !l.IsAutolink {
		t.Error("angle-bracket autolink not flagged IsAutolink")
	}
	if got := l.Href.String(); got != "http://example.com" {
		t.Errorf("Href = %q, want %q", got, "http://example.com")
	}
}

func TestParse_PermissiveAutolinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		flags md.Flags
		href  string
	}{
		{"url", "see http://example.com/x now\n", md.PermissiveURLAutolinks, "http://example.com/x"},
		{"www", "see www.example.com now\n", md.PermissiveWWWAutolinks, "http://www.example.com"},
		{"email", "mail user@example.com now\n", md.PermissiveEmailAutolinks, "mailto:user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := parseDoc(t, tt.src, tt.flags)
			if len(rec.links) != 1 {
				t.Fatalf("links = %v, want one", rec.links)
			}
			l := rec.links[0]
			if !l.IsAutolink {
				t.Error("permissive autolink not flagged IsAutolink")
			}
			if got := l.Href.String(); got != tt.href {
				t.Errorf("Href = %q, want %q", got, tt.href)
			}

			// Same input without the flag stays plain text.
			plain := parseDoc(t, tt.src, md.DialectCommonMark)
			if len(plain.links) != 0 {
				t.Errorf("links without flag = %v, want none", plain.links)
			}
		})
	}
}

func TestParse_Table(t *testing.T) {
	t.Parallel()

	src := "| a | b |\n| --- | :-: |\n| 1 | 2 |\n"
	rec := parseDoc(t, src, md.Tables)

	if len(rec.tables) != 1 {
		t.Fatalf("tables = %v, want one", rec.tables)
	}
	tbl := rec.tables[0]
	if tbl.ColumnCount != 2 {
		t.Errorf("ColumnCount = %d, want 2", tbl.ColumnCount)
	}
	if tbl.HeadRowCount != 1 {
		t.Errorf("HeadRowCount = %d, want 1", tbl.HeadRowCount)
	}
	if tbl.BodyRowCount != 1 {
		t.Errorf("BodyRowCount = %d, want 1", tbl.BodyRowCount)
	}

	want := []md.Align{md.AlignDefault, md.AlignCenter, md.AlignDefault, md.AlignCenter}
	if len(rec.cellAlign) != len(want) {
		t.Fatalf("cell aligns = %v, want %v", rec.cellAlign, want)
	}
	for i := range want {
		if rec.cellAlign[i] != want[i] {
			t.Errorf("cell %d align = %d, want %d", i, rec.cellAlign[i], want[i])
		}
	}

	// Without the flag the same input is ordinary paragraphs.
	plain := parseDoc(t, src, md.DialectCommonMark)
	if plain.blockCount(md.BlockTable) != 0 {
		t.Error("table produced without Tables flag")
	}
}

func TestParse_Strikethrough(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "~~gone~~\n", md.Strikethrough)
	if rec.spanCount(md.SpanStrikethrough) != 1 {
		t.Error("expected one strikethrough span")
	}

	plain := parseDoc(t, "~~gone~~\n", md.DialectCommonMark)
	if plain.spanCount(md.SpanStrikethrough) != 0 {
		t.Error("strikethrough span produced without flag")
	}
}

func TestParse_WikiLink(t *testing.T) {
	t.Parallel()

	rec := &recorder{t: t}
	var wiki []string
	capture := &spanCapture{recorder: rec, onWiki: func(d md.WikiLinkDetail) {
		wiki = append(wiki, d.Target.String())
	}}
	if err := md.Parse([]byte("[[Target Page|label]]\n"), md.WikiLinks, capture); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(wiki) != 1 || wiki[0] != "Target Page" {
		t.Errorf("wiki targets = %v, want [Target Page]", wiki)
	}
	if got := rec.text(md.TextNormal); got != "label" {
		t.Errorf("label text = %q, want %q", got, "label")
	}
}

// spanCapture wraps recorder to observe wiki link details.
type spanCapture struct {
	*recorder
	onWiki func(md.WikiLinkDetail)
}

func (c *spanCapture) EnterSpan(t md.SpanType, detail md.SpanDetail) error {
	if t == md.SpanWikiLink {
		c.onWiki(*detail.Wiki)
	}
	return c.recorder.EnterSpan(t, detail)
}

func TestParse_Underline(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "_under_\n", md.Underline)
	if rec.spanCount(md.SpanUnderline) != 1 {
		t.Error("expected one underline span")
	}
	if rec.spanCount(md.SpanEmphasis) != 0 {
		t.Error("underscore emphasis still produced with Underline flag")
	}
}

func TestParse_MathSpans(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "inline $x+y$ and display $$E=mc^2$$\n", md.LaTeXMathSpans)
	if rec.spanCount(md.SpanLaTeXMath) != 1 {
		t.Error("expected one inline math span")
	}
	if rec.spanCount(md.SpanLaTeXMathDisplay) != 1 {
		t.Error("expected one display math span")
	}
	if got := rec.text(md.TextLaTeXMath); got != "x+yE=mc^2" {
		t.Errorf("math text = %q, want %q", got, "x+yE=mc^2")
	}
}

func TestParse_Breaks(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "a\nb\n", md.DialectCommonMark)
	if got := rec.text(md.TextSoftBreak); got == "" {
		t.Error("expected a soft break between the lines")
	}

	rec = parseDoc(t, "a  \nb\n", md.DialectCommonMark)
	if got := rec.text(md.TextHardBreak); got == "" {
		t.Error("two trailing spaces must force a hard break")
	}

	rec = parseDoc(t, "a\nb\n", md.HardSoftBreaks)
	if got := rec.text(md.TextSoftBreak); got != "" {
		t.Error("soft break reported despite HardSoftBreaks")
	}
	if got := rec.text(md.TextHardBreak); got == "" {
		t.Error("HardSoftBreaks must promote the line break")
	}
}

func TestParse_NullChar(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "a\x00b\n", md.DialectCommonMark)
	if got := rec.text(md.TextNullChar); got == "" {
		t.Error("NUL byte must surface as a TextNullChar event")
	}
	if got := rec.text(md.TextNormal); got != "ab" {
		t.Errorf("normal text = %q, want %q", got, "ab")
	}
}

func TestParse_Entity(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "caf&eacute; &notreal; &#65;\n", md.DialectCommonMark)
	if got := rec.text(md.TextEntity); got != "&eacute;&#65;" {
		t.Errorf("entity text = %q, want %q", got, "&eacute;&#65;")
	}
	if !strings.Contains(rec.text(md.TextNormal), "&notreal;") {
		t.Error("invalid entity must stay in the normal text channel")
	}
}

func TestParse_AbortWrapsVisitorError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("stop here")
	v := &abortVisitor{recorder: &recorder{t: t}, abortOn: md.BlockParagraph, err: sentinel}

	err := md.Parse([]byte("# H\n\npara\n"), md.DialectCommonMark, v)
	if err == nil {
		t.Fatal("expected error from aborted parse")
	}
	if !errors.Is(err, md.ErrAborted) {
		t.Errorf("error %v does not wrap ErrAborted", err)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap the visitor's error", err)
	}
}

// abortVisitor aborts when entering a block of the configured type.
type abortVisitor struct {
	*recorder
	abortOn md.BlockType
	err     error
}

func (v *abortVisitor) EnterBlock(t md.BlockType, detail md.BlockDetail) error {
	if t == v.abortOn {
		return v.err
	}
	return v.recorder.EnterBlock(t, detail)
}

func TestParse_CollapseWhitespace(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "a   \t  b\n", md.CollapseWhitespace)
	if got := rec.text(md.TextNormal); got != "a b" {
		t.Errorf("normal text = %q, want %q", got, "a b")
	}
}

func TestParse_PermissiveATXHeaders(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "#Title\n", md.DialectCommonMark)
	if rec.blockCount(md.BlockHeading) != 0 {
		t.Error("#Title must not be a heading in strict CommonMark")
	}

	rec = parseDoc(t, "#Title\n", md.PermissiveATXHeaders)
	if rec.blockCount(md.BlockHeading) != 1 {
		t.Error("#Title must be a heading with PermissiveATXHeaders")
	}
}

func TestParse_NoHTML(t *testing.T) {
	t.Parallel()

	rec := parseDoc(t, "<div>\nx\n</div>\n", md.DialectCommonMark)
	if rec.blockCount(md.BlockHTML) != 1 {
		t.Error("expected an HTML block")
	}

	rec = parseDoc(t, "<div>\nx\n</div>\n", md.NoHTMLBlocks)
	if rec.blockCount(md.BlockHTML) != 0 {
		t.Error("HTML block produced despite NoHTMLBlocks")
	}

	rec = parseDoc(t, "a <b>bold</b> word\n", md.NoHTMLSpans)
	if got := rec.text(md.TextHTML); got != "" {
		t.Errorf("raw HTML %q emitted despite NoHTMLSpans", got)
	}
}
