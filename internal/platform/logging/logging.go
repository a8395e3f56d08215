// Package logging はプロセスのロガーを組み立てます。
package logging

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"erasmus_backend/internal/platform/requestid"
)

// ContextHandler はslog.Handlerをラップし、コンテキストのrequest_idをレコードに追加します。
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler はすべてのレコードにコンテキストの値を付与するハンドラーを返します。
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// New はローカル開発ではtintのカラー出力、それ以外ではJSON出力のロガーを返します。
func New(w io.Writer, local bool, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if local {
		inner = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(NewContextHandler(inner))
}
