package logging

import (
	"log/slog"
	"sync"
	"time"
)

const (
	levelInfo  = slog.LevelInfo
	levelWarn  = slog.LevelWarn
	levelError = slog.LevelError
)

// maxStatusEntries bounds the status log; the oldest entries are dropped.
const maxStatusEntries = 256

// Status is a message about the logging system itself, e.g. where the
// configuration was loaded from or why loading it failed.
type Status struct {
	Time    time.Time
	Level   slog.Level
	Origin  string
	Message string
	Err     error
}

// StatusLog collects status messages. It is safe for concurrent use.
type StatusLog struct {
	mu      sync.RWMutex
	entries []Status
}

// NewStatusLog creates an empty status log.
func NewStatusLog() *StatusLog {
	return &StatusLog{}
}

// Add records a status message.
func (s *StatusLog) Add(level slog.Level, origin, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Status{
		Time:    time.Now(),
		Level:   level,
		Origin:  origin,
		Message: msg,
		Err:     err,
	})
	if len(s.entries) > maxStatusEntries {
		s.entries = s.entries[len(s.entries)-maxStatusEntries:]
	}
}

// Info records an informational status message.
func (s *StatusLog) Info(origin, msg string) {
	s.Add(levelInfo, origin, msg, nil)
}

// Warn records a warning status message.
func (s *StatusLog) Warn(origin, msg string, err error) {
	s.Add(levelWarn, origin, msg, err)
}

// Error records an error status message.
func (s *StatusLog) Error(origin, msg string, err error) {
	s.Add(levelError, origin, msg, err)
}

// Entries returns a copy of all status messages, oldest first.
func (s *StatusLog) Entries() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Status(nil), s.entries...)
}

// HighestLevel returns the highest level of all status messages, or
// slog.LevelDebug when there are none.
func (s *StatusLog) HighestLevel() slog.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	highest := slog.LevelDebug
	for _, e := range s.entries {
		if e.Level > highest {
			highest = e.Level
		}
	}
	return highest
}
