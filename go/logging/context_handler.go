package logging

import (
	"context"
	"log/slog"
)

// RequestIDKey is the attribute key of request ids.
const RequestIDKey = "request_id"

type requestIDContextKey struct{}

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request id of ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

// ExtractRequestID is an ExtractFromContextFn for request ids.
func ExtractRequestID(ctx context.Context) []slog.Attr {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		return []slog.Attr{slog.String(RequestIDKey, requestID)}
	}
	return nil
}

// ExtractFromContextFn returns the attributes a context adds to the records logged with it.
type ExtractFromContextFn func(context.Context) []slog.Attr

// ContextHandler wraps an slog.Handler and adds the attributes extracted from the context of each record.
type ContextHandler struct {
	handler slog.Handler
	extract ExtractFromContextFn
}

// NewContextHandler returns a handler adding the attributes extracted by extract before delegating to handler.
func NewContextHandler(handler slog.Handler, extract ExtractFromContextFn) *ContextHandler {
	return &ContextHandler{handler: handler, extract: extract}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.extract != nil && ctx != nil {
		if attrs := h.extract(ctx); len(attrs) > 0 {
			r = r.Clone()
			r.AddAttrs(attrs...)
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.handler.WithAttrs(attrs), h.extract)
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return NewContextHandler(h.handler.WithGroup(name), h.extract)
}
