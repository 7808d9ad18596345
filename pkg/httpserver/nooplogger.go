package httpserver

import (
	"context"
	"log/slog"
)

// noopHandler discards every record so the server can log unconditionally.
type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (n noopHandler) WithAttrs([]slog.Attr) slog.Handler      { return n }
func (n noopHandler) WithGroup(string) slog.Handler           { return n }

func newNoopLogger() *slog.Logger {
	return slog.New(noopHandler{})
}
