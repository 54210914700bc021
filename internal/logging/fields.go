// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldFiles  = "files"
	FieldInput  = "input"
	FieldOutput = "output"

	// Configuration fields.
	FieldFlavor     = "flavor"
	FieldExtensions = "extensions"
	FieldFlags      = "flags"

	// Statistics fields.
	FieldBytes    = "bytes"
	FieldDuration = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
