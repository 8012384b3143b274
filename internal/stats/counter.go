package stats

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counter is a set of monotonically increasing counters keyed by string.
//
// The zero value is ready to use. All methods are safe for concurrent use.
// Creating the counter for an unseen key and incrementing it happen as one
// atomic step: concurrent first increments for the same key never get lost.
type Counter struct {
	counts sync.Map // string -> *atomic.Int64
}

// counter returns the counter for key, creating it if it does not exist yet.
func (c *Counter) counter(key string) *atomic.Int64 {
	if v, ok := c.counts.Load(key); ok {
		return v.(*atomic.Int64)
	}
	v, _ := c.counts.LoadOrStore(key, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// Inc increments the counter for key and returns the new value.
func (c *Counter) Inc(key string) int64 {
	return c.counter(key).Add(1)
}

// Add adds n to the counter for key and returns the new value.
// Negative values are ignored so counters never decrease.
func (c *Counter) Add(key string, n int64) int64 {
	if n <= 0 {
		return c.Get(key)
	}
	return c.counter(key).Add(n)
}

// Get returns the current value for key, or 0 if the key was never counted.
func (c *Counter) Get(key string) int64 {
	if v, ok := c.counts.Load(key); ok {
		return v.(*atomic.Int64).Load()
	}
	return 0
}

// Keys returns all counted keys in sorted order.
func (c *Counter) Keys() []string {
	var keys []string
	c.counts.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// Entries returns a snapshot of all counters sorted by key.
func (c *Counter) Entries() []CountEntry {
	var entries []CountEntry
	c.counts.Range(func(k, v any) bool {
		entries = append(entries, CountEntry{Key: k.(string), Count: v.(*atomic.Int64).Load()})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Total returns the sum of all counters.
//
// The sum is taken without locking: increments that race with Total may or
// may not be included.
func (c *Counter) Total() int64 {
	var total int64
	c.counts.Range(func(_, v any) bool {
		total += v.(*atomic.Int64).Load()
		return true
	})
	return total
}
