package log

import (
	"context"
	"log/slog"
)

// WithLevel returns a logger that drops records below level and otherwise
// writes through logger's handler. The original logger is unchanged.
//
// The override can only raise the minimum level: records the underlying
// handler already filters stay filtered.
func WithLevel(logger *slog.Logger, level Level) *slog.Logger {
	return slog.New(&levelHandler{min: level.SlogLevel(), Handler: logger.Handler()})
}

type levelHandler struct {
	slog.Handler
	min slog.Level
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.min && h.Handler.Enabled(ctx, l)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{min: h.min, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{min: h.min, Handler: h.Handler.WithGroup(name)}
}
