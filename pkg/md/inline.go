package md

import (
	"bytes"
	"sort"
)

// Inline parsing runs over a leaf block's assembled content. A single
// left-to-right scan resolves everything that needs no matching (code
// spans, entities, autolinks, raw HTML, breaks) and collects emphasis
// delimiter runs and bracket openers; emphasis pairing and link
// resolution then turn those into resolved elements. Events are emitted
// at the end from the sorted element list.

type elemKind int

const (
	elemSpan elemKind = iota
	elemAtom
)

// elem is a resolved inline construct. Spans carry an outer range (the
// whole construct including markers) and an inner range (the content);
// atoms replace their range with a single text event.
type elem struct {
	kind   elemKind
	span   SpanType
	detail SpanDetail

	start, end           int
	innerStart, innerEnd int

	hasVerbatim  bool
	verbatim     []byte
	verbatimType TextType

	atomType TextType
	lit      []byte
}

// delim is a pending emphasis delimiter run. start and end shrink as the
// run is consumed by matches; origLen stays at the scanned length for
// the multiple-of-three rule.
type delim struct {
	ch         byte
	start, end int
	origLen    int
	canOpen    bool
	canClose   bool
}

func (d *delim) len() int { return d.end - d.start }

// bracket is a pending '[' or '![' opener.
type bracket struct {
	image       bool
	openPos     int // position of '[' or '!'
	textPos     int // where label content starts
	delimBottom int
	active      bool
}

type inliner struct {
	p    *parser
	text []byte

	elems    []elem
	delims   []delim
	brackets []bracket
}

var hardBreakLit = []byte("\n")

// inlineContent parses the content of one leaf block and emits its span
// and text events.
func (p *parser) inlineContent(text []byte) error {
	il := &inliner{p: p, text: text}
	il.scan()
	il.processEmphasis(0)
	sort.SliceStable(il.elems, func(i, j int) bool {
		a, b := &il.elems[i], &il.elems[j]
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end > b.end
	})
	idx := 0
	return il.emitRange(0, len(text), &idx)
}

func (il *inliner) scan() {
	text := il.text
	flags := il.p.flags
	i := 0
	for i < len(text) {
		switch c := text[i]; c {
		case '\\':
			if i+1 < len(text) && text[i+1] == '\n' {
				i = il.breakAtom(i, i+1, true)
				continue
			}
			if i+1 < len(text) && isASCIIPunct(text[i+1]) {
				il.elems = append(il.elems, elem{
					kind: elemAtom, start: i, end: i + 2,
					atomType: TextNormal, lit: text[i+1 : i+2],
				})
				i += 2
				continue
			}
			i++

		case '\n':
			s := i
			for s > 0 && text[s-1] == ' ' {
				s--
			}
			i = il.breakAtom(s, i, i-s >= 2)

		case '`':
			n := runLen(text, i, '`')
			if end, ok := il.codeSpan(i, n); ok {
				i = end
			} else {
				i += n
			}

		case '&':
			if end, ok := scanEntity(text, i); ok {
				il.elems = append(il.elems, elem{
					kind: elemAtom, start: i, end: end,
					atomType: TextEntity, lit: text[i:end],
				})
				i = end
			} else {
				i++
			}

		case '<':
			if end, href, ok := scanAutolink(text, i); ok {
				il.elems = append(il.elems, elem{
					kind: elemSpan, span: SpanLink,
					start: i, end: end,
					innerStart: i + 1, innerEnd: end - 1,
					detail: SpanDetail{Link: &LinkDetail{
						Href:       makeAttribute(href),
						IsAutolink: true,
					}},
				})
				i = end
				continue
			}
			if !flags.Has(NoHTMLSpans) {
				if end, ok := matchRawHTML(text, i); ok {
					il.elems = append(il.elems, elem{
						kind: elemAtom, start: i, end: end,
						atomType: TextHTML, lit: text[i:end],
					})
					i = end
					continue
				}
			}
			i++

		case '*', '_':
			i = il.pushDelim(i, c)

		case '~':
			if !flags.Has(Strikethrough) {
				i++
				continue
			}
			n := runLen(text, i, '~')
			if n > 2 {
				i += n
				continue
			}
			i = il.pushDelim(i, c)

		case '$':
			if !flags.Has(LaTeXMathSpans) {
				i++
				continue
			}
			if end, ok := il.mathSpan(i); ok {
				i = end
			} else {
				i += runLen(text, i, '$')
			}

		case '!':
			if i+1 < len(text) && text[i+1] == '[' {
				il.brackets = append(il.brackets, bracket{
					image: true, openPos: i, textPos: i + 2,
					delimBottom: len(il.delims), active: true,
				})
				i += 2
			} else {
				i++
			}

		case '[':
			if flags.Has(WikiLinks) && i+1 < len(text) && text[i+1] == '[' {
				if e, next, ok := il.wikiLink(i); ok {
					il.elems = append(il.elems, e)
					i = next
					continue
				}
			}
			il.brackets = append(il.brackets, bracket{
				openPos: i, textPos: i + 1,
				delimBottom: len(il.delims), active: true,
			})
			i++

		case ']':
			i = il.closeBracket(i)

		case ':':
			if flags.Has(PermissiveURLAutolinks) {
				if start, end, ok := scanPermissiveURL(text, i); ok && il.claimRange(start) {
					il.permissiveLink(start, end, text[start:end])
					i = end
					continue
				}
			}
			i++

		case '@':
			if flags.Has(PermissiveEmailAutolinks) {
				if start, end, ok := scanPermissiveEmail(text, i); ok && il.claimRange(start) {
					href := make([]byte, 0, len("mailto:")+end-start)
					href = append(href, "mailto:"...)
					href = append(href, text[start:end]...)
					il.permissiveLink(start, end, href)
					i = end
					continue
				}
			}
			i++

		case 'w', 'W':
			if flags.Has(PermissiveWWWAutolinks) {
				if end, ok := scanPermissiveWWW(text, i); ok {
					href := make([]byte, 0, len("http://")+end-i)
					href = append(href, "http://"...)
					href = append(href, text[i:end]...)
					il.permissiveLink(i, end, href)
					i = end
					continue
				}
			}
			i++

		default:
			i++
		}
	}
}

// breakAtom records a line break atom spanning [start, nl] plus the
// following line's leading whitespace.
func (il *inliner) breakAtom(start, nl int, hard bool) int {
	end := nl + 1
	for end < len(il.text) && (il.text[end] == ' ' || il.text[end] == '\t') {
		end++
	}
	typ := TextSoftBreak
	if hard || il.p.flags.Has(HardSoftBreaks) {
		typ = TextHardBreak
	}
	il.elems = append(il.elems, elem{
		kind: elemAtom, start: start, end: end,
		atomType: typ, lit: hardBreakLit,
	})
	return end
}

// codeSpan resolves a backtick code span opened by a run of n backticks
// at i. The closer must be a run of exactly n backticks.
func (il *inliner) codeSpan(i, n int) (int, bool) {
	text := il.text
	j := i + n
	for j < len(text) {
		if text[j] != '`' {
			j++
			continue
		}
		m := runLen(text, j, '`')
		if m == n {
			content := normalizeCodeSpan(text[i+n : j])
			il.elems = append(il.elems, elem{
				kind: elemSpan, span: SpanCode,
				start: i, end: j + m,
				hasVerbatim: true, verbatim: content, verbatimType: TextCode,
			})
			return j + m, true
		}
		j += m
	}
	return 0, false
}

// normalizeCodeSpan applies the code span content rules: newlines become
// spaces, and one leading plus one trailing space is stripped when both
// are present and the content is not all spaces.
func normalizeCodeSpan(content []byte) []byte {
	if bytes.IndexByte(content, '\n') >= 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte(" "))
	}
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' {
		allSpace := true
		for _, b := range content {
			if b != ' ' {
				allSpace = false
				break
			}
		}
		if !allSpace {
			content = content[1 : len(content)-1]
		}
	}
	return content
}

// mathSpan resolves a $ or $$ delimited LaTeX math span at i.
func (il *inliner) mathSpan(i int) (int, bool) {
	text := il.text
	n := runLen(text, i, '$')
	if n > 2 {
		return 0, false
	}
	j := i + n
	for j < len(text) {
		if text[j] != '$' {
			j++
			continue
		}
		m := runLen(text, j, '$')
		if m == n {
			typ := SpanLaTeXMath
			if n == 2 {
				typ = SpanLaTeXMathDisplay
			}
			content := bytes.Trim(text[i+n:j], " \t\n")
			il.elems = append(il.elems, elem{
				kind: elemSpan, span: typ,
				start: i, end: j + m,
				hasVerbatim: true, verbatim: content, verbatimType: TextLaTeXMath,
			})
			return j + m, true
		}
		j += m
	}
	return 0, false
}

// wikiLink matches [[target]] or [[target|label]] at i. The target is
// limited to a single line of at most 100 characters and must not be
// empty.
func (il *inliner) wikiLink(i int) (elem, int, bool) {
	text := il.text
	j := i + 2
	pipe := -1
	for j < len(text) && j-i <= 102 {
		switch text[j] {
		case '\n', '[':
			return elem{}, 0, false
		case '|':
			if pipe < 0 {
				pipe = j
			}
		case ']':
			if j+1 < len(text) && text[j+1] == ']' {
				targetEnd := j
				if pipe >= 0 {
					targetEnd = pipe
				}
				target := bytes.TrimSpace(text[i+2 : targetEnd])
				if len(target) == 0 || len(target) > 100 {
					return elem{}, 0, false
				}
				innerStart := i + 2
				if pipe >= 0 {
					innerStart = pipe + 1
					if innerStart == j {
						return elem{}, 0, false
					}
				}
				e := elem{
					kind: elemSpan, span: SpanWikiLink,
					start: i, end: j + 2,
					innerStart: innerStart, innerEnd: j,
					detail: SpanDetail{Wiki: &WikiLinkDetail{
						Target: makeAttribute(unescapeBytes(target)),
					}},
				}
				return e, innerStart, true
			}
		}
		j++
	}
	return elem{}, 0, false
}

// pushDelim records an emphasis delimiter run starting at i.
func (il *inliner) pushDelim(i int, ch byte) int {
	n := runLen(il.text, i, ch)
	canOpen, canClose := il.flanking(i, i+n, ch)
	if canOpen || canClose {
		il.delims = append(il.delims, delim{
			ch: ch, start: i, end: i + n, origLen: n,
			canOpen: canOpen, canClose: canClose,
		})
	}
	return i + n
}

// closeBracket handles ']' at i: resolve the innermost pending bracket
// as an inline, reference, collapsed or shortcut link, or leave the
// bracket text literal.
func (il *inliner) closeBracket(i int) int {
	n := len(il.brackets)
	if n == 0 {
		return i + 1
	}
	br := il.brackets[n-1]
	il.brackets = il.brackets[:n-1]
	if !br.active {
		return i + 1
	}

	text := il.text
	var det SpanDetail
	end := 0

	if i+1 < len(text) && text[i+1] == '(' {
		if d, e, ok := il.inlineLinkSuffix(i + 1); ok {
			det, end = d, e
		}
	}
	if end == 0 && i+1 < len(text) && text[i+1] == '[' {
		if i+2 < len(text) && text[i+2] == ']' {
			// Collapsed reference.
			if d, ok := il.refDetail(text[br.textPos:i]); ok {
				det, end = d, i+3
			}
		} else if label, after, ok := scanLinkLabel(text, i+1); ok {
			if d, ok := il.refDetail(label); ok {
				det, end = d, after
			}
		}
	}
	if end == 0 {
		if d, ok := il.refDetail(text[br.textPos:i]); ok {
			det, end = d, i+1
		}
	}
	if end == 0 {
		return i + 1
	}

	typ := SpanLink
	if br.image {
		typ = SpanImage
		if det.Link != nil {
			det = SpanDetail{Image: &ImageDetail{
				Src:   det.Link.Href,
				Title: det.Link.Title,
			}}
		}
	}
	il.elems = append(il.elems, elem{
		kind: elemSpan, span: typ,
		start: br.openPos, end: end,
		innerStart: br.textPos, innerEnd: i,
		detail: det,
	})

	il.processEmphasis(br.delimBottom)
	il.delims = il.delims[:br.delimBottom]
	if !br.image {
		// A link may not contain another link.
		for k := range il.brackets {
			if !il.brackets[k].image {
				il.brackets[k].active = false
			}
		}
	}
	return end
}

// inlineLinkSuffix parses "(dest "title")" starting at the '(' and
// returns the link detail and the position past ')'.
func (il *inliner) inlineLinkSuffix(open int) (SpanDetail, int, bool) {
	text := il.text
	j, _ := skipRefSpace(text, open+1)
	dest, j, ok := scanLinkDest(text, j, true)
	if !ok {
		return SpanDetail{}, 0, false
	}
	d := &LinkDetail{Href: makeAttribute(unescapeBytes(dest))}
	k, _ := skipRefSpace(text, j)
	if k > j {
		if title, after, ok := scanLinkTitle(text, k); ok {
			d.Title = makeAttribute(unescapeBytes(title))
			k, _ = skipRefSpace(text, after)
		}
	}
	if k >= len(text) || text[k] != ')' {
		return SpanDetail{}, 0, false
	}
	return SpanDetail{Link: d}, k + 1, true
}

// refDetail resolves a reference label against the document's reference
// definitions.
func (il *inliner) refDetail(label []byte) (SpanDetail, bool) {
	key := normalizeLabel(label)
	if key == "" {
		return SpanDetail{}, false
	}
	def, ok := il.p.refs[key]
	if !ok {
		return SpanDetail{}, false
	}
	d := &LinkDetail{Href: makeAttribute(def.dest)}
	if def.hasTitle {
		d.Title = makeAttribute(def.title)
	}
	return SpanDetail{Link: d}, true
}

// permissiveLink records an autolink covering [start, end) with the
// given href, discarding any delimiters scanned inside the range.
func (il *inliner) permissiveLink(start, end int, href []byte) {
	for len(il.delims) > 0 && il.delims[len(il.delims)-1].start >= start {
		il.delims = il.delims[:len(il.delims)-1]
	}
	il.elems = append(il.elems, elem{
		kind: elemSpan, span: SpanLink,
		start: start, end: end,
		innerStart: start, innerEnd: end,
		detail: SpanDetail{Link: &LinkDetail{
			Href:       makeAttribute(href),
			IsAutolink: true,
		}},
	})
}

// claimRange reports whether a backward-extending construct starting at
// start would overlap an already resolved element.
func (il *inliner) claimRange(start int) bool {
	for k := len(il.elems) - 1; k >= 0; k-- {
		if il.elems[k].end <= start {
			return true
		}
		if il.elems[k].start < start {
			return false
		}
	}
	return true
}

// emitRange emits text and elements covering [from, to). idx advances
// through the sorted element list and is shared across recursion levels.
func (il *inliner) emitRange(from, to int, idx *int) error {
	pos := from
	for *idx < len(il.elems) {
		e := &il.elems[*idx]
		if e.start >= to {
			break
		}
		if e.start < pos {
			*idx++
			continue
		}
		if err := il.emitText(pos, e.start); err != nil {
			return err
		}
		*idx++
		switch e.kind {
		case elemAtom:
			if err := il.p.v.Text(e.atomType, e.lit); err != nil {
				return err
			}
		case elemSpan:
			if err := il.p.v.EnterSpan(e.span, e.detail); err != nil {
				return err
			}
			if e.hasVerbatim {
				if len(e.verbatim) > 0 {
					if err := il.p.v.Text(e.verbatimType, e.verbatim); err != nil {
						return err
					}
				}
			} else if err := il.emitRange(e.innerStart, e.innerEnd, idx); err != nil {
				return err
			}
			if err := il.p.v.LeaveSpan(e.span, e.detail); err != nil {
				return err
			}
		}
		pos = e.end
	}
	return il.emitText(pos, to)
}

var nullReplacement = []byte("�")

// emitText emits the raw text of [from, to) as normal text events,
// splitting out NUL bytes as their own events.
func (il *inliner) emitText(from, to int) error {
	seg := il.text[from:to]
	for len(seg) > 0 {
		idx := bytes.IndexByte(seg, 0)
		if idx < 0 {
			return il.normalText(seg)
		}
		if idx > 0 {
			if err := il.normalText(seg[:idx]); err != nil {
				return err
			}
		}
		if err := il.p.v.Text(TextNullChar, nullReplacement); err != nil {
			return err
		}
		seg = seg[idx+1:]
	}
	return nil
}

func (il *inliner) normalText(seg []byte) error {
	if len(seg) == 0 {
		return nil
	}
	if il.p.flags.Has(CollapseWhitespace) {
		seg = collapseWS(seg)
	}
	return il.p.v.Text(TextNormal, seg)
}

// collapseWS reduces every run of spaces and tabs to a single space.
func collapseWS(seg []byte) []byte {
	if bytes.IndexByte(seg, '\t') < 0 && !bytes.Contains(seg, []byte("  ")) {
		return seg
	}
	out := make([]byte, 0, len(seg))
	inWS := false
	for _, b := range seg {
		if b == ' ' || b == '\t' {
			if !inWS {
				out = append(out, ' ')
			}
			inWS = true
			continue
		}
		inWS = false
		out = append(out, b)
	}
	return out
}

func runLen(text []byte, i int, ch byte) int {
	j := i
	for j < len(text) && text[j] == ch {
		j++
	}
	return j - i
}
