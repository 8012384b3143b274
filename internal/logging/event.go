// Package logging sets up structured logging for the application.
//
// Besides console output, log records can be kept in fixed-size circular
// buffers (see RingBuffer) so recent events can be shown on a web page.
// Logging is configured from a YAML file when one is present, otherwise
// programmatically (see Setup).
package logging

import (
	"log/slog"
	"time"
)

// LoggerKey is the attribute key holding the name of the component that
// logged a record. Use Named to derive a component logger.
const LoggerKey = "logger"

// Named returns a logger that tags every record with the component name.
func Named(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(LoggerKey, name)
}

// Event is a log record captured by a buffer handler.
type Event struct {
	Time    time.Time
	Level   slog.Level
	Logger  string
	Message string
	Attrs   []slog.Attr
}

// newEvent builds an event from a record plus the attributes collected by
// WithAttrs. The logger attribute is lifted out of the attribute list.
func newEvent(r slog.Record, pre []slog.Attr, groups []string) Event {
	e := Event{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	add := func(a slog.Attr) {
		if a.Key == LoggerKey {
			e.Logger = a.Value.String()
			return
		}
		e.Attrs = append(e.Attrs, a)
	}
	for _, a := range pre {
		add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(qualify(a, groups))
		return true
	})
	return e
}

// qualify prefixes the attribute key with the open groups.
func qualify(a slog.Attr, groups []string) slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		a.Key = groups[i] + "." + a.Key
	}
	return a
}
