package cli

import "errors"

// Exit codes for mdstream.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitRenderError indicates a document could not be processed.
	ExitRenderError = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitError carries an exit code alongside the underlying error.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitErr wraps err with an exit code.
func exitErr(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by command execution to a process
// exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitInternalError
}
