// Package md implements a streaming, CommonMark-compliant Markdown parser.
//
// The parser never builds a document tree. Instead it walks the input in two
// phases (block structure first, then the inline content of each leaf block)
// and reports what it finds as an ordered stream of events delivered to a
// caller-supplied Visitor: EnterBlock/LeaveBlock pairs for structural blocks,
// EnterSpan/LeaveSpan pairs for inline spans, and Text for raw character runs
// classified by kind.
//
// Events for a given document are emitted in source order with strict stack
// discipline: every Enter has exactly one matching Leave of the same type.
// A Visitor method returning a non-nil error aborts the parse immediately;
// Parse returns that error and no further events are delivered.
//
// Dialect behavior is controlled by a Flags bit set. The zero value is strict
// CommonMark; DialectGitHub enables the GitHub-flavored extensions (tables,
// task lists, strikethrough, permissive autolinks).
package md
