package stats

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Stats keeps track of statistical data for the application instance.
//
// Request counts are supplied by the request filter, session counts by the
// session manager. Stats is safe for concurrent use.
type Stats struct {
	startTime time.Time
	requests  Counter
	sessions  Counter
	logger    *slog.Logger
}

// New creates a new Stats instance with the start time set to now.
func New(logger *slog.Logger) *Stats {
	return &Stats{
		startTime: time.Now(),
		logger:    logger,
	}
}

// StartTime returns the time this instance started counting.
func (s *Stats) StartTime() time.Time {
	return s.startTime
}

// IncRequest increments the request count for requestURL.
//
// Returns the count after the increment, or 0 when requestURL is blank
// (nothing is counted in that case).
func (s *Stats) IncRequest(requestURL string) int64 {
	if isBlank(requestURL) {
		s.logger.Warn("Cannot register a request count for an empty request URL")
		return 0
	}
	return s.requests.Inc(requestURL)
}

// IncSession increments the session count for the remote host.
//
// Returns the count after the increment, or 0 when host is blank.
func (s *Stats) IncSession(host string) int64 {
	if isBlank(host) {
		s.logger.Warn("Cannot register a session count for an empty remote host")
		return 0
	}
	return s.sessions.Inc(host)
}

// RequestCount returns the request count for requestURL.
func (s *Stats) RequestCount(requestURL string) int64 {
	return s.requests.Get(requestURL)
}

// SessionCount returns the session count for host.
func (s *Stats) SessionCount(host string) int64 {
	return s.sessions.Get(host)
}

// RequestURLs returns all counted request URLs in sorted order.
func (s *Stats) RequestURLs() []string {
	return s.requests.Keys()
}

// SessionHosts returns all counted remote hosts in sorted order.
func (s *Stats) SessionHosts() []string {
	return s.sessions.Keys()
}

// TotalRequests returns the sum of all request counts.
func (s *Stats) TotalRequests() int64 {
	return s.requests.Total()
}

// TotalSessions returns the sum of all session counts.
func (s *Stats) TotalSessions() int64 {
	return s.sessions.Total()
}

// Describe returns a human-readable report of all counters.
func (s *Stats) Describe() string {
	requests := s.requests.Entries()
	sessions := s.sessions.Entries()

	var sb strings.Builder
	sb.WriteString("Started on ")
	sb.WriteString(s.startTime.Format(time.UnixDate))

	sb.WriteString("\n\nRequest-counts by URL:")
	for _, e := range requests {
		fmt.Fprintf(&sb, "\n%s\t: %d", e.Key, e.Count)
	}
	fmt.Fprintf(&sb, "\n\nTotal requests: %d", sumEntries(requests))

	sb.WriteString("\n\nSession-counts by remote host:")
	for _, e := range sessions {
		fmt.Fprintf(&sb, "\n%s\t: %d", e.Key, e.Count)
	}
	fmt.Fprintf(&sb, "\n\nTotal sessions: %d\n", sumEntries(sessions))
	return sb.String()
}

// Snapshot returns a copy of all counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		StartTime: s.startTime,
		SavedAt:   time.Now(),
		Requests:  s.requests.Entries(),
		Sessions:  s.sessions.Entries(),
	}
}

// Restore adds the counts from a previously taken snapshot.
//
// Must be called before the application starts serving requests.
func (s *Stats) Restore(snap Snapshot) {
	for _, e := range snap.Requests {
		if !isBlank(e.Key) {
			s.requests.Add(e.Key, e.Count)
		}
	}
	for _, e := range snap.Sessions {
		if !isBlank(e.Key) {
			s.sessions.Add(e.Key, e.Count)
		}
	}
	s.logger.Debug("Statistics restored",
		"requests", snap.TotalRequests(),
		"sessions", snap.TotalSessions(),
		"saved_at", snap.SavedAt)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
