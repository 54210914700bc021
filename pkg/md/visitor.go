package md

import "errors"

// Visitor receives the parser's event stream. Methods are called in strict
// source order with stack discipline: every EnterBlock/EnterSpan has
// exactly one matching LeaveBlock/LeaveSpan of the same type.
//
// Returning a non-nil error from any method aborts the parse immediately:
// no further blocks are closed, no further events are delivered, and Parse
// returns an error satisfying errors.Is(err, ErrAborted) that wraps the
// returned one.
type Visitor interface {
	EnterBlock(t BlockType, detail BlockDetail) error
	LeaveBlock(t BlockType, detail BlockDetail) error
	EnterSpan(t SpanType, detail SpanDetail) error
	LeaveSpan(t SpanType, detail SpanDetail) error
	Text(t TextType, text []byte) error
}

// ErrAborted is wrapped by the error Parse returns when a Visitor method
// requested an abort.
var ErrAborted = errors.New("markdown parse aborted")

// DebugFunc receives the parser's internal diagnostics when debug logging
// is enabled.
type DebugFunc func(format string, args ...any)
