package md

import "fmt"

// Option configures a Parse call.
type Option func(*parser)

// WithDebugLog routes the parser's trace output to fn.
func WithDebugLog(fn DebugFunc) Option {
	return func(p *parser) { p.debug = fn }
}

// Parse analyzes src as Markdown in the dialect selected by flags and
// streams the document to v as block, span and text events. The first
// non-nil error from a visitor method aborts the parse; Parse then
// returns an error wrapping both ErrAborted and the visitor's error, so
// callers can distinguish their own failure from a requested stop with
// errors.Is.
func Parse(src []byte, flags Flags, v Visitor, opts ...Option) error {
	p := &parser{
		src:   src,
		flags: flags,
		v:     v,
		refs:  make(map[string]refDef),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, ln := range splitLines(src) {
		p.processLine(ln)
	}
	p.closeAll()
	if err := p.replay(); err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return nil
}

// replay walks the recorded block program and emits the event stream.
// Running after the whole document is analyzed means every deferred
// detail (list tightness, reference resolution) is already final.
func (p *parser) replay() error {
	var doc BlockDetail
	if err := p.v.EnterBlock(BlockDocument, doc); err != nil {
		return err
	}
	for _, op := range p.ops {
		rec := op.rec
		if op.kind == opLeave {
			if err := p.v.LeaveBlock(rec.typ, rec.detail); err != nil {
				return err
			}
			continue
		}
		if err := p.v.EnterBlock(rec.typ, rec.detail); err != nil {
			return err
		}
		if rec.verbatim != TextNormal {
			if err := p.emitVerbatim(rec); err != nil {
				return err
			}
		} else if len(rec.content) > 0 {
			if err := p.inlineContent(rec.content); err != nil {
				return err
			}
		}
	}
	return p.v.LeaveBlock(BlockDocument, doc)
}

var (
	newlineLit = []byte("\n")
	padSpaces  = []byte("    ")
)

// emitVerbatim streams a code or HTML leaf's captured lines, each
// terminated by its own newline event.
func (p *parser) emitVerbatim(rec *blockRec) error {
	for _, ll := range rec.lines {
		if ll.pad > 0 {
			if err := p.v.Text(rec.verbatim, padSpaces[:ll.pad]); err != nil {
				return err
			}
		}
		if ll.end > ll.start {
			if err := p.verbatimText(rec.verbatim, p.src[ll.start:ll.end]); err != nil {
				return err
			}
		}
		if err := p.v.Text(rec.verbatim, newlineLit); err != nil {
			return err
		}
	}
	return nil
}

// verbatimText emits one verbatim segment, splitting out NUL bytes as
// their own events.
func (p *parser) verbatimText(t TextType, seg []byte) error {
	for len(seg) > 0 {
		idx := -1
		for k, b := range seg {
			if b == 0 {
				idx = k
				break
			}
		}
		if idx < 0 {
			return p.v.Text(t, seg)
		}
		if idx > 0 {
			if err := p.v.Text(t, seg[:idx]); err != nil {
				return err
			}
		}
		if err := p.v.Text(TextNullChar, nullReplacement); err != nil {
			return err
		}
		seg = seg[idx+1:]
	}
	return nil
}
