package logging

import (
	"fmt"
	"strings"
	"time"
)

// Layout formats buffered log events as text lines.
type Layout struct {
	TimeFormat  string // Go time layout for the event time
	LoggerWidth int    // Logger names longer than this are shortened from the left (0 keeps them whole)
}

var (
	// ShortLayout is used for the general log page.
	ShortLayout = Layout{TimeFormat: "02/01 15:04:05.000", LoggerWidth: 35}
	// FullLayout is used for the error log page.
	FullLayout = Layout{TimeFormat: "2006-01-02 15:04:05.000"}
)

// Format returns the event as a single line terminated by a newline:
//
//	<time> <LEVEL> <logger> - <message> (k=v, ...)
func (l Layout) Format(e Event) string {
	var sb strings.Builder
	sb.WriteString(e.Time.Format(l.TimeFormat))
	fmt.Fprintf(&sb, " %-5s ", e.Level.String())
	sb.WriteString(l.loggerName(e.Logger))
	sb.WriteString(" - ")
	sb.WriteString(e.Message)
	writeAttrs(&sb, e.Attrs)
	sb.WriteByte('\n')
	return sb.String()
}

// FormatAll formats the events in the given order and concatenates them.
func (l Layout) FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(l.Format(e))
	}
	return sb.String()
}

// Info formats an informational line that is not part of any buffer,
// e.g. a header for a list of events.
func (l Layout) Info(logger, msg string) string {
	return l.Format(Event{
		Time:    time.Now(),
		Level:   levelInfo,
		Logger:  logger,
		Message: msg,
	})
}

func (l Layout) loggerName(name string) string {
	if name == "" {
		return "root"
	}
	if l.LoggerWidth > 0 && len(name) > l.LoggerWidth {
		return "~" + name[len(name)-l.LoggerWidth+1:]
	}
	return name
}
