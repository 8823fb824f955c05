package slogutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// LevelSilent is above every standard level.
const LevelSilent = slog.Level(100)

// NewLogger creates a logger writing lines to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLineHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, LevelSilent)
}

// LevelFromString converts debug, info, warn or error (any case) to a level.
// Anything else is info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity maps -v counts to a level: none is warn, one is info,
// more is debug. quiet silences everything.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return LevelSilent
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// TeeHandler writes records to several handlers.
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler creates a handler that writes to all provided handlers.
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

// Enabled returns true if any handler is enabled for the level.
func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes the record to every enabled handler and returns the first
// error.
func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *TeeHandler) each(fn func(slog.Handler) slog.Handler) *TeeHandler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = fn(h)
	}
	return &TeeHandler{handlers: next}
}
