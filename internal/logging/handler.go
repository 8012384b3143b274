package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// HumanReadableHandler is a slog handler that formats logs in a human-readable way:
//
//	15:04:05.000 INFO  dispatcher - message (key=value, other="quoted value")
type HumanReadableHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
}

// NewHumanReadableHandler creates a new human-readable log handler.
func NewHumanReadableHandler(w io.Writer, opts *slog.HandlerOptions) *HumanReadableHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &HumanReadableHandler{
		mu:     &sync.Mutex{},
		writer: w,
		opts:   *opts,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *HumanReadableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the log record.
func (h *HumanReadableHandler) Handle(ctx context.Context, r slog.Record) error {
	e := newEvent(r, h.attrs, h.groups)

	var buf strings.Builder
	buf.WriteString(e.Time.Format("15:04:05.000"))
	buf.WriteByte(' ')
	fmt.Fprintf(&buf, "%-5s ", e.Level.String())
	if e.Logger != "" {
		buf.WriteString(e.Logger)
		buf.WriteString(" - ")
	}
	buf.WriteString(e.Message)
	writeAttrs(&buf, h.replace(e.Attrs))
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, buf.String())
	return err
}

// replace applies ReplaceAttr and drops attributes whose key was cleared.
func (h *HumanReadableHandler) replace(attrs []slog.Attr) []slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return attrs
	}
	out := attrs[:0:0]
	for _, a := range attrs {
		a = h.opts.ReplaceAttr(nil, a)
		if a.Key != "" {
			out = append(out, a)
		}
	}
	return out
}

// WithAttrs returns a new handler with the given attributes.
func (h *HumanReadableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, qualify(a, h.groups))
	}
	return &h2
}

// WithGroup returns a new handler with the given group name.
func (h *HumanReadableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}

// writeAttrs writes " (k=v, k2=v2)", quoting strings that contain spaces
// or '='.
func writeAttrs(buf *strings.Builder, attrs []slog.Attr) {
	if len(attrs) == 0 {
		return
	}
	buf.WriteString(" (")
	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.Key)
		buf.WriteByte('=')
		val := a.Value.Resolve().String()
		if strings.ContainsAny(val, " =") {
			buf.WriteByte('"')
			buf.WriteString(val)
			buf.WriteByte('"')
		} else {
			buf.WriteString(val)
		}
	}
	buf.WriteByte(')')
}
