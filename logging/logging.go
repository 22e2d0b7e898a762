// Package logging configures slog for the loader and carries per-run and
// per-item attributes through the context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	faqIDKey
)

// WithRunID returns a context whose log records carry run_id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithFAQID returns a context whose log records carry faq_id.
func WithFAQID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, faqIDKey, id)
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FAQID returns the document id stored in ctx, if any.
func FAQID(ctx context.Context) string {
	id, _ := ctx.Value(faqIDKey).(string)
	return id
}

// ContextHandler adds run_id and faq_id from the context to every record.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps h.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// Handle implements slog.Handler. Attributes already set on the record win.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	var hasRunID, hasFAQID bool
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "run_id":
			hasRunID = true
		case "faq_id":
			hasFAQID = true
		}
		return true
	})

	if id := RunID(ctx); id != "" && !hasRunID {
		r.AddAttrs(slog.String("run_id", id))
	}
	if id := FAQID(ctx); id != "" && !hasFAQID {
		r.AddAttrs(slog.String("faq_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

// New builds a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q: must be text or json", format)
	}

	return slog.New(NewContextHandler(h)), nil
}
