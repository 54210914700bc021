package md

import "bytes"

// Raw HTML recognition. Block-level HTML follows CommonMark's seven
// start/end conditions; inline HTML shares the tag grammar.

// htmlBlockTags are the names that open a type-6 HTML block.
var htmlBlockTags = []string{
	"address", "article", "aside", "base", "basefont", "blockquote",
	"body", "caption", "center", "col", "colgroup", "dd", "details",
	"dialog", "dir", "div", "dl", "dt", "fieldset", "figcaption",
	"figure", "footer", "form", "frame", "frameset", "h1", "h2", "h3",
	"h4", "h5", "h6", "head", "header", "hr", "html", "iframe", "legend",
	"li", "link", "main", "menu", "menuitem", "nav", "noframes", "ol",
	"optgroup", "option", "p", "param", "search", "section", "summary",
	"table", "tbody", "td", "tfoot", "th", "thead", "title", "tr",
	"track", "ul",
}

// verbatimTags open a type-1 HTML block whose content is taken verbatim
// until the matching end tag.
var verbatimTags = []string{"pre", "script", "style", "textarea"}

// htmlBlockStart classifies the line as an HTML block opener, returning
// the block kind (1-7) or 0.
func (p *parser) htmlBlockStart(ln lineSpan, ns pos, inParagraph bool) int {
	line := p.src[ns.off:ln.text]
	if len(line) < 2 || line[0] != '<' {
		return 0
	}

	for _, tag := range verbatimTags {
		if hasTagPrefixFold(line[1:], tag, " \t>") {
			return 1
		}
	}
	if bytes.HasPrefix(line, []byte("<!--")) {
		return 2
	}
	if line[1] == '?' {
		return 3
	}
	if bytes.HasPrefix(line, []byte("<![CDATA[")) {
		return 5
	}
	if line[1] == '!' && len(line) > 2 && isASCIILetter(line[2]) {
		return 4
	}

	rest := line[1:]
	if len(rest) > 0 && rest[0] == '/' {
		rest = rest[1:]
	}
	for _, tag := range htmlBlockTags {
		if hasTagPrefixFold(rest, tag, " \t>/") {
			return 6
		}
	}

	if !inParagraph {
		if end, ok := matchTagAt(line, 0); ok && isBlankBytes(line[end:]) {
			return 7
		}
	}
	return 0
}

// htmlBlockEnd reports whether the content line terminates the HTML
// block of the given kind. Kinds 6 and 7 end only on a blank line.
func (p *parser) htmlBlockEnd(kind int, ln lineSpan, at pos) bool {
	line := p.src[at.off:ln.text]
	switch kind {
	case 1:
		lower := bytes.ToLower(line)
		for _, tag := range verbatimTags {
			if bytes.Contains(lower, []byte("</"+tag+">")) {
				return true
			}
		}
	case 2:
		return bytes.Contains(line, []byte("-->"))
	case 3:
		return bytes.Contains(line, []byte("?>"))
	case 4:
		return bytes.IndexByte(line, '>') >= 0
	case 5:
		return bytes.Contains(line, []byte("]]>"))
	}
	return false
}

// hasTagPrefixFold reports whether s begins with the tag name
// (case-insensitive) followed by end of input or one of the delimiters.
func hasTagPrefixFold(s []byte, tag string, delims string) bool {
	if len(s) < len(tag) {
		return false
	}
	for i := 0; i < len(tag); i++ {
		if lowerByte(s[i]) != tag[i] {
			return false
		}
	}
	if len(s) == len(tag) {
		return true
	}
	next := s[len(tag)]
	return bytes.IndexByte([]byte(delims), next) >= 0
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isBlankBytes(s []byte) bool {
	for _, c := range s {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// matchRawHTML matches any inline raw HTML construct at position i of
// buf: a tag, comment, processing instruction, declaration or CDATA
// section. It returns the position just past the construct.
func matchRawHTML(buf []byte, i int) (int, bool) {
	if i >= len(buf) || buf[i] != '<' {
		return 0, false
	}
	if end, ok := matchTagAt(buf, i); ok {
		return end, ok
	}
	rest := buf[i:]
	switch {
	case bytes.HasPrefix(rest, []byte("<!--")):
		if idx := bytes.Index(rest[4:], []byte("-->")); idx >= 0 {
			return i + 4 + idx + 3, true
		}
	case bytes.HasPrefix(rest, []byte("<![CDATA[")):
		if idx := bytes.Index(rest[9:], []byte("]]>")); idx >= 0 {
			return i + 9 + idx + 3, true
		}
	case bytes.HasPrefix(rest, []byte("<?")):
		if idx := bytes.Index(rest[2:], []byte("?>")); idx >= 0 {
			return i + 2 + idx + 2, true
		}
	case len(rest) > 2 && rest[1] == '!' && isASCIILetter(rest[2]):
		if idx := bytes.IndexByte(rest, '>'); idx >= 0 {
			return i + idx + 1, true
		}
	}
	return 0, false
}

// matchTagAt matches a complete open or closing tag at position i.
func matchTagAt(buf []byte, i int) (int, bool) {
	if i >= len(buf) || buf[i] != '<' {
		return 0, false
	}
	j := i + 1
	closing := false
	if j < len(buf) && buf[j] == '/' {
		closing = true
		j++
	}
	j, ok := matchTagName(buf, j)
	if !ok {
		return 0, false
	}
	if !closing {
		for {
			k := skipHTMLSpace(buf, j)
			if k == j {
				break
			}
			k2, ok := matchAttribute(buf, k)
			if !ok {
				j = k
				break
			}
			j = k2
		}
		if j < len(buf) && buf[j] == '/' {
			j++
		}
	} else {
		j = skipHTMLSpace(buf, j)
	}
	if j < len(buf) && buf[j] == '>' {
		return j + 1, true
	}
	return 0, false
}

func matchTagName(buf []byte, i int) (int, bool) {
	if i >= len(buf) || !isASCIILetter(buf[i]) {
		return 0, false
	}
	i++
	for i < len(buf) && (isASCIILetter(buf[i]) || isASCIIDigit(buf[i]) || buf[i] == '-') {
		i++
	}
	return i, true
}

func matchAttribute(buf []byte, i int) (int, bool) {
	if i >= len(buf) {
		return 0, false
	}
	c := buf[i]
	if !isASCIILetter(c) && c != '_' && c != ':' {
		return 0, false
	}
	i++
	for i < len(buf) && (isASCIILetter(buf[i]) || isASCIIDigit(buf[i]) ||
		buf[i] == '_' || buf[i] == ':' || buf[i] == '.' || buf[i] == '-') {
		i++
	}
	j := skipHTMLSpace(buf, i)
	if j >= len(buf) || buf[j] != '=' {
		return i, true
	}
	j = skipHTMLSpace(buf, j+1)
	if j >= len(buf) {
		return 0, false
	}
	switch buf[j] {
	case '"', '\'':
		quote := buf[j]
		k := j + 1
		for k < len(buf) && buf[k] != quote {
			k++
		}
		if k >= len(buf) {
			return 0, false
		}
		return k + 1, true
	default:
		k := j
		for k < len(buf) && !isHTMLSpace(buf[k]) &&
			buf[k] != '"' && buf[k] != '\'' && buf[k] != '=' &&
			buf[k] != '<' && buf[k] != '>' && buf[k] != '`' {
			k++
		}
		if k == j {
			return 0, false
		}
		return k, true
	}
}

func skipHTMLSpace(buf []byte, i int) int {
	for i < len(buf) && isHTMLSpace(buf[i]) {
		i++
	}
	return i
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
