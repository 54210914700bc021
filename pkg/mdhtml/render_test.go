package mdhtml_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/pkg/md"
	"github.com/yaklabco/mdstream/pkg/mdhtml"
)

func render(t *testing.T, src string, dialect md.Flags, opts ...mdhtml.Option) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, mdhtml.Render(&buf, []byte(src), dialect, opts...))
	return buf.String()
}

func TestRender_CommonMark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "heading and paragraph",
			src:  "# Hello\n\nWorld\n",
			want: "<h1>Hello</h1>\n<p>World</p>\n",
		},
		{
			name: "emphasis",
			src:  "*a*\n",
			want: "<p><em>a</em></p>\n",
		},
		{
			name: "strong and code span",
			src:  "**b** and `c`\n",
			want: "<p><strong>b</strong> and <code>c</code></p>\n",
		},
		{
			name: "thematic break",
			src:  "***\n",
			want: "<hr>\n",
		},
		{
			name: "blockquote",
			src:  "> q\n",
			want: "<blockquote>\n<p>q</p>\n</blockquote>\n",
		},
		{
			name: "tight list",
			src:  "- a\n- b\n",
			want: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n",
		},
		{
			name: "loose list",
			src:  "- a\n\n- b\n",
			want: "<ul>\n<li><p>a</p>\n</li>\n<li><p>b</p>\n</li>\n</ul>\n",
		},
		{
			name: "ordered list with start",
			src:  "3. x\n4. y\n",
			want: "<ol start=\"3\">\n<li>x</li>\n<li>y</li>\n</ol>\n",
		},
		{
			name: "fenced code",
			src:  "```go\nx := 1\n```\n",
			want: "<pre><code class=\"language-go\">x := 1\n</code></pre>\n",
		},
		{
			name: "link with title",
			src:  "[x](/url \"t\")\n",
			want: "<p><a href=\"/url\" title=\"t\">x</a></p>\n",
		},
		{
			name: "image",
			src:  "![alt](/i.png \"t\")\n",
			want: "<p><img src=\"/i.png\" alt=\"alt\" title=\"t\"></p>\n",
		},
		{
			name: "angle autolink",
			src:  "<http://example.com>\n",
			want: "<p><a href=\"http://example.com\">http://example.com</a></p>\n",
		},
		{
			name: "hard break",
			src:  "a  \nb\n",
			want: "<p>a<br>\nb</p>\n",
		},
		{
			name: "backslash hard break",
			src:  "a\\\nb\n",
			want: "<p>a<br>\nb</p>\n",
		},
		{
			name: "escaping",
			src:  "a < b & c > d\n",
			want: "<p>a &lt; b &amp; c &gt; d</p>\n",
		},
		{
			name: "named entity decoded",
			src:  "caf&eacute;\n",
			want: "<p>café</p>\n",
		},
		{
			name: "uncommon named entity decoded",
			src:  "a &nleq; b\n",
			want: "<p>a ≰ b</p>\n",
		},
		{
			name: "numeric entity decoded",
			src:  "&#65;\n",
			want: "<p>A</p>\n",
		},
		{
			name: "unknown entity stays literal",
			src:  "&notareal;\n",
			want: "<p>&amp;notareal;</p>\n",
		},
		{
			name: "url percent encoding",
			src:  "[x](/café)\n",
			want: "<p><a href=\"/caf%C3%A9\">x</a></p>\n",
		},
		{
			name: "null byte replaced",
			src:  "a\x00b\n",
			want: "<p>a�b</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, render(t, tt.src, md.DialectCommonMark))
		})
	}
}

func TestRender_GitHub(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "strikethrough",
			src:  "~~gone~~\n",
			want: "<p><del>gone</del></p>\n",
		},
		{
			name: "www autolink",
			src:  "www.example.com\n",
			want: "<p><a href=\"http://www.example.com\">www.example.com</a></p>\n",
		},
		{
			name: "email autolink",
			src:  "user@example.com\n",
			want: "<p><a href=\"mailto:user@example.com\">user@example.com</a></p>\n",
		},
		{
			name: "task list",
			src:  "- [x] done\n- [ ] open\n",
			want: "<ul>\n" +
				"<li class=\"task-list-item\"><input type=\"checkbox\" class=\"task-list-item-checkbox\" disabled checked>done</li>\n" +
				"<li class=\"task-list-item\"><input type=\"checkbox\" class=\"task-list-item-checkbox\" disabled>open</li>\n" +
				"</ul>\n",
		},
		{
			name: "table",
			src:  "| a | b |\n| --- | --: |\n| 1 | 2 |\n",
			want: "<table>\n<thead>\n<tr>\n<th>a</th>\n<th align=\"right\">b</th>\n</tr>\n</thead>\n" +
				"<tbody>\n<tr>\n<td>1</td>\n<td align=\"right\">2</td>\n</tr>\n</tbody>\n</table>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, render(t, tt.src, md.DialectGitHub))
		})
	}
}

func TestRender_MathSpans(t *testing.T) {
	t.Parallel()

	got := render(t, "$x+y$\n", md.LaTeXMathSpans)
	assert.Equal(t, "<p><x-equation>x+y</x-equation></p>\n", got)

	got = render(t, "$$E=mc^2$$\n", md.LaTeXMathSpans)
	assert.Equal(t, "<p><x-equation type=\"display\">E=mc^2</x-equation></p>\n", got)
}

func TestRender_WikiLink(t *testing.T) {
	t.Parallel()

	got := render(t, "[[Target|label]]\n", md.WikiLinks)
	assert.Equal(t, "<p><x-wikilink data-target=\"Target\">label</x-wikilink></p>\n", got)
}

func TestRender_XHTML(t *testing.T) {
	t.Parallel()

	opts := []mdhtml.Option{mdhtml.WithFlags(mdhtml.XHTML)}

	assert.Equal(t, "<hr />\n", render(t, "***\n", md.DialectCommonMark, opts...))
	assert.Equal(t, "<p>a<br />\nb</p>\n", render(t, "a  \nb\n", md.DialectCommonMark, opts...))
	assert.Equal(t, "<p><img src=\"/i.png\" alt=\"alt\" /></p>\n",
		render(t, "![alt](/i.png)\n", md.DialectCommonMark, opts...))
}

func TestRender_VerbatimEntities(t *testing.T) {
	t.Parallel()

	got := render(t, "caf&eacute;\n", md.DialectCommonMark,
		mdhtml.WithFlags(mdhtml.VerbatimEntities))
	assert.Equal(t, "<p>caf&eacute;</p>\n", got)
}

func TestRender_SkipUTF8BOM(t *testing.T) {
	t.Parallel()

	src := "\xef\xbb\xbf# H\n"

	got := render(t, src, md.DialectCommonMark, mdhtml.WithFlags(mdhtml.SkipUTF8BOM))
	assert.Equal(t, "<h1>H</h1>\n", got)

	// Without the flag the BOM is ordinary text and the line is no
	// longer a heading.
	got = render(t, src, md.DialectCommonMark)
	assert.NotEqual(t, "<h1>H</h1>\n", got)
}

func TestRender_LanguageResolver(t *testing.T) {
	t.Parallel()

	resolver := func(lang string) string {
		if lang == "golang" {
			return "go"
		}
		return ""
	}

	got := render(t, "```golang\nx\n```\n", md.DialectCommonMark,
		mdhtml.WithLanguageResolver(resolver))
	assert.Contains(t, got, "class=\"language-go\"")

	// Resolver returning "" keeps the original tag.
	got = render(t, "```rust\nx\n```\n", md.DialectCommonMark,
		mdhtml.WithLanguageResolver(resolver))
	assert.Contains(t, got, "class=\"language-rust\"")
}

func TestRender_ImageAltStripsMarkup(t *testing.T) {
	t.Parallel()

	got := render(t, "![has *em* inside](/i.png)\n", md.DialectCommonMark)
	assert.Equal(t, "<p><img src=\"/i.png\" alt=\"has em inside\"></p>\n", got)
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	src := "# H\n\n- a\n- b\n\n[x](/url) ![i](/p.png) `c`\n"
	first := render(t, src, md.DialectGitHub)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render(t, src, md.DialectGitHub))
	}
}

// failWriter fails every write after the first n bytes.
type failWriter struct {
	n       int
	written int
}

var errSink = errors.New("sink failed")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.n {
		return 0, errSink
	}
	w.written += len(p)
	return len(p), nil
}

func TestRender_WriteErrorSurfaces(t *testing.T) {
	t.Parallel()

	src := strings.Repeat("paragraph text\n\n", 50)
	err := mdhtml.Render(&failWriter{n: 16}, []byte(src), md.DialectCommonMark)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSink)
}

func TestRender_DebugLog(t *testing.T) {
	t.Parallel()

	var lines int
	debug := func(format string, args ...any) { lines++ }

	src := "[ref]: /dest\n\n[ref]\n"
	_ = render(t, src, md.DialectCommonMark,
		mdhtml.WithFlags(mdhtml.Debug), mdhtml.WithDebugLog(debug))
	assert.Positive(t, lines, "debug sink must receive parser diagnostics")

	// Without the Debug flag the sink stays silent.
	lines = 0
	_ = render(t, src, md.DialectCommonMark, mdhtml.WithDebugLog(debug))
	assert.Zero(t, lines)
}
