package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// RawHandler writes one line per record: the level, the message, then key=value pairs.
// It is meant for the output of command line tools, where timestamps are noise.
type RawHandler struct {
	mutex  *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	prefix string
	attrs  string
}

// NewRawHandler returns a RawHandler writing to w.
func NewRawHandler(w io.Writer, opts *slog.HandlerOptions) *RawHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &RawHandler{mutex: &sync.Mutex{}, writer: w, level: level}
}

func (h *RawHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *RawHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		appendAttr(&b, h.prefix, attr)
		return true
	})
	b.WriteByte('\n')

	h.mutex.Lock()
	defer h.mutex.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func appendAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, groupAttr := range attr.Value.Group() {
			appendAttr(b, prefix, groupAttr)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%v", prefix, attr.Key, attr.Value)
}

func (h *RawHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, attr := range attrs {
		appendAttr(&b, h.prefix, attr)
	}
	clone := *h
	clone.attrs = b.String()
	return &clone
}

func (h *RawHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
