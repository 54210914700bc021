package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// ctxKey keys the run-scoped logger in a command context.
type ctxKey struct{}

// NewContext returns a context carrying logger. The root command
// attaches its run-scoped logger here so subcommands and helpers log
// through the same instance.
func NewContext(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached to ctx, falling back to the
// process-wide default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
