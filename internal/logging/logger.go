// Package logging configures mdstream's structured diagnostics on top
// of charmbracelet/log and bridges the renderer's printf-style debug
// channel into it.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// defaultLogger is the process-wide logger commands fall back to when
// no run-scoped logger is attached to their context.
//
//nolint:gochecknoglobals // Process-wide logger is intentional.
var defaultLogger = New("info")

// New creates a logger for mdstream diagnostics. Output goes to stderr
// so rendered HTML on stdout stays clean. Valid levels are "debug",
// "info", "warn" and "error"; anything else means "info".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "mdstream",
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(parseLevel(level))
	return logger
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Default returns the process-wide logger.
func Default() *log.Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger = logger
}

// SetLevel updates the level of the process-wide logger.
func SetLevel(level string) {
	defaultLogger.SetLevel(parseLevel(level))
}

// DebugSink adapts logger to the printf-style callback the renderer's
// debug channel expects. Parser diagnostics arrive as single
// preformatted lines and are reported at debug level.
func DebugSink(logger *log.Logger) func(format string, args ...any) {
	return func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}
