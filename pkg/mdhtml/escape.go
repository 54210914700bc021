package mdhtml

import (
	"fmt"

	"github.com/yaklabco/mdstream/pkg/entity"
	"github.com/yaklabco/mdstream/pkg/md"
)

const replacementChar = "�"

// writeEscaped writes s with the four HTML metacharacters replaced.
func (r *renderer) writeEscaped(s []byte) {
	last := 0
	for i := 0; i < len(s); i++ {
		var rep string
		switch s[i] {
		case '&':
			rep = "&amp;"
		case '<':
			rep = "&lt;"
		case '>':
			rep = "&gt;"
		case '"':
			rep = "&quot;"
		default:
			continue
		}
		r.w.write(s[last:i])
		r.w.writeString(rep)
		last = i + 1
	}
	r.w.write(s[last:])
}

// writeURLEscaped percent-encodes bytes outside the URL-safe set; '&'
// becomes &amp; since the URL lands inside an HTML attribute.
func (r *renderer) writeURLEscaped(s []byte) {
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' {
			r.w.write(s[last:i])
			r.w.writeString("&amp;")
			last = i + 1
			continue
		}
		if isURLSafe(c) {
			continue
		}
		r.w.write(s[last:i])
		fmt.Fprintf(&r.w, "%%%02X", c)
		last = i + 1
	}
	r.w.write(s[last:])
}

func isURLSafe(c byte) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return true
	}
	switch c {
	case '~', '-', '_', '.', '+', '!', '*', '(', ')', ',', '%', '#',
		'@', '?', '=', ';', ':', '/', '$':
		return true
	}
	return false
}

// writeAttribute writes an attribute value part by part, applying the
// escaping rule matching each part's kind.
func (r *renderer) writeAttribute(a md.Attribute, url bool) {
	for _, part := range a.Parts() {
		switch part.Kind {
		case md.TextEntity:
			r.writeEntity(part.Text, url)
		case md.TextNullChar:
			r.w.writeString(replacementChar)
		default:
			if url {
				r.writeURLEscaped(part.Text)
			} else {
				r.writeEscaped(part.Text)
			}
		}
	}
}

// writeEntity resolves one entity reference (including '&' and ';') and
// writes its replacement, or the raw reference when VerbatimEntities is
// set or the name is unknown.
func (r *renderer) writeEntity(raw []byte, url bool) {
	if r.flags.Has(VerbatimEntities) {
		r.w.write(raw)
		return
	}
	body := string(raw[1 : len(raw)-1])

	var text string
	if len(body) > 0 && body[0] == '#' {
		if rr, ok := entity.DecodeNumeric(body); ok {
			text = string(rr)
		}
	} else if t, ok := entity.Lookup(body); ok {
		text = t
	}
	if text == "" {
		r.writeEscaped(raw)
		return
	}
	if url {
		r.writeURLEscaped([]byte(text))
	} else {
		r.writeEscaped([]byte(text))
	}
}
