package logging

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultBufferSize is the capacity of the programmatically configured
// log buffers.
const DefaultBufferSize = 512

// RingBuffer is a fixed-capacity circular buffer of log events.
// When full, adding an event discards the oldest one.
type RingBuffer struct {
	mu     sync.RWMutex
	name   string
	events []Event
	start  int // index of the oldest event
	count  int
}

// NewRingBuffer creates a buffer holding at most size events.
func NewRingBuffer(name string, size int) *RingBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &RingBuffer{
		name:   name,
		events: make([]Event, size),
	}
}

// Name returns the buffer name.
func (b *RingBuffer) Name() string {
	return b.name
}

// Cap returns the maximum number of events the buffer holds.
func (b *RingBuffer) Cap() int {
	return len(b.events)
}

// Add appends an event, overwriting the oldest event when full.
func (b *RingBuffer) Add(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count < len(b.events) {
		b.events[(b.start+b.count)%len(b.events)] = e
		b.count++
		return
	}
	b.events[b.start] = e
	b.start = (b.start + 1) % len(b.events)
}

// Len returns the number of buffered events.
func (b *RingBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Get returns the i-th buffered event, 0 being the oldest.
func (b *RingBuffer) Get(i int) (Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= b.count {
		return Event{}, false
	}
	return b.events[(b.start+i)%len(b.events)], true
}

// Events returns a copy of the buffered events, oldest first.
func (b *RingBuffer) Events() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Event, b.count)
	for i := range out {
		out[i] = b.events[(b.start+i)%len(b.events)]
	}
	return out
}

// Recent returns at most n buffered events, newest first.
// A non-positive n returns all events.
func (b *RingBuffer) Recent(n int) []Event {
	events := b.Events()
	if n <= 0 || n > len(events) {
		n = len(events)
	}
	out := make([]Event, n)
	for i := 0; i < n; i++ {
		out[i] = events[len(events)-1-i]
	}
	return out
}

// Clear removes all buffered events.
func (b *RingBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.events)
	b.start, b.count = 0, 0
}

// BufferHandler is a slog handler that stores records in a RingBuffer.
type BufferHandler struct {
	buf    *RingBuffer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewBufferHandler creates a handler storing records at or above level in buf.
func NewBufferHandler(buf *RingBuffer, level slog.Leveler) *BufferHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &BufferHandler{buf: buf, level: level}
}

// Buffer returns the buffer the handler writes to.
func (h *BufferHandler) Buffer() *RingBuffer {
	return h.buf
}

// Enabled reports whether the handler handles records at the given level.
func (h *BufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle stores the record in the buffer.
func (h *BufferHandler) Handle(ctx context.Context, r slog.Record) error {
	h.buf.Add(newEvent(r, h.attrs, h.groups))
	return nil
}

// WithAttrs returns a new handler with the given attributes.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, qualify(a, h.groups))
	}
	return &h2
}

// WithGroup returns a new handler with the given group name.
func (h *BufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}
