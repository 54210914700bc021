package md

// Flags selects optional dialect behavior. The zero value is strict
// CommonMark.
type Flags uint32

// Dialect flags. Each flag enables one deviation from or extension to
// strict CommonMark.
const (
	// CollapseWhitespace coalesces consecutive non-newline whitespace in
	// normal text into a single space at emission time.
	CollapseWhitespace Flags = 1 << iota

	// PermissiveATXHeaders allows ATX headings without a space after the
	// '#' characters.
	PermissiveATXHeaders

	// PermissiveURLAutolinks recognizes bare http/https/ftp URLs without
	// surrounding angle brackets.
	PermissiveURLAutolinks

	// PermissiveEmailAutolinks recognizes bare email addresses without
	// surrounding angle brackets.
	PermissiveEmailAutolinks

	// NoIndentedCodeBlocks disables indented code blocks.
	NoIndentedCodeBlocks

	// NoHTMLBlocks disables raw HTML blocks.
	NoHTMLBlocks

	// NoHTMLSpans disables raw inline HTML.
	NoHTMLSpans

	// Tables enables GitHub-style tables.
	Tables

	// Strikethrough enables ~delete~ spans.
	Strikethrough

	// PermissiveWWWAutolinks recognizes www.-prefixed autolinks without a
	// scheme; the renderer prefixes "http://" to the destination.
	PermissiveWWWAutolinks

	// TaskLists enables GitHub-style task list items ([ ] / [x]).
	TaskLists

	// LaTeXMathSpans enables $...$ and $$...$$ math spans.
	LaTeXMathSpans

	// WikiLinks enables [[target]] and [[target|label]] wiki links.
	WikiLinks

	// Underline renders _underscore emphasis_ as underline spans instead
	// of ordinary emphasis.
	Underline

	// HardSoftBreaks forces all soft line breaks to be reported as hard
	// breaks.
	HardSoftBreaks
)

// Convenience dialects.
const (
	// DialectCommonMark is strict CommonMark.
	DialectCommonMark Flags = 0

	// DialectGitHub is GitHub Flavored Markdown.
	DialectGitHub = PermissiveURLAutolinks | PermissiveEmailAutolinks |
		PermissiveWWWAutolinks | Tables | Strikethrough | TaskLists
)

// Has reports whether all bits of q are set in f.
func (f Flags) Has(q Flags) bool {
	return f&q == q
}
