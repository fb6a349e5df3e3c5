// Package ctxlog carries the run's slog.Logger and run id through
// context.Context.
package ctxlog

import (
	"context"
	"fmt"
	"log/slog"
)

type loggerKey struct{}

type runIDKey struct{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the slog.Logger from a context. A missing logger is a
// programming error.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}

// WithRunID returns a new context carrying the id of the current publish run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID extracts the run id, returning ("", false) if none is set.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// RunIDHandler wraps a slog.Handler and adds a "run_id" attribute to every
// record logged with a context that carries one.
type RunIDHandler struct {
	inner slog.Handler
}

// NewRunIDHandler wraps inner.
func NewRunIDHandler(inner slog.Handler) *RunIDHandler {
	return &RunIDHandler{inner: inner}
}

func (h *RunIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RunIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := RunID(ctx); ok {
		r.AddAttrs(slog.String("run_id", id))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("run id handler: %w", err)
	}
	return nil
}

func (h *RunIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RunIDHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *RunIDHandler) WithGroup(name string) slog.Handler {
	return &RunIDHandler{inner: h.inner.WithGroup(name)}
}
