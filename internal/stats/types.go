// Package stats keeps track of request and session counts for the
// application instance.
//
// Request counts are keyed by requested URL (set by the request filter),
// session counts by remote host (set when a new session is created).
// Counters only ever go up while the application is serving.
package stats

import "time"

// CountEntry represents a key and count pair in sorted order.
type CountEntry struct {
	Key   string
	Count int64
}

// Snapshot is a point-in-time copy of all counters.
//
// It is used to persist counters between restarts and is not guaranteed to
// be consistent with increments that happen while it is being taken.
type Snapshot struct {
	StartTime time.Time    // Start time of the instance that took the snapshot
	SavedAt   time.Time    // Time the snapshot was taken
	Requests  []CountEntry // Request counts by URL, sorted by key
	Sessions  []CountEntry // Session counts by remote host, sorted by key
}

// TotalRequests returns the sum of all request counts in the snapshot.
func (s Snapshot) TotalRequests() int64 {
	return sumEntries(s.Requests)
}

// TotalSessions returns the sum of all session counts in the snapshot.
func (s Snapshot) TotalSessions() int64 {
	return sumEntries(s.Sessions)
}

func sumEntries(entries []CountEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Count
	}
	return total
}
