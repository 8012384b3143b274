// Package ratelimit limits requests per remote host with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultMaxHosts bounds the number of hosts tracked at once.
	DefaultMaxHosts = 10000
	// DefaultIdleTimeout is how long an unused host entry is kept.
	DefaultIdleTimeout = 5 * time.Minute
)

// Config configures a Limiter.
type Config struct {
	RequestsPerSecond float64       // Zero or less disables limiting
	Burst             int           // Tokens available at once; at least 1
	MaxHosts          int           // Zero means DefaultMaxHosts
	IdleTimeout       time.Duration // Zero means DefaultIdleTimeout
}

type hostEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter provides per-host rate limiting.
type Limiter struct {
	cfg   Config
	limit rate.Limit
	now   func() time.Time

	mu    sync.Mutex
	hosts map[string]*hostEntry

	cleanup  *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a limiter and starts its cleanup goroutine.
func New(cfg Config) *Limiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.MaxHosts <= 0 {
		cfg.MaxHosts = DefaultMaxHosts
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	l := &Limiter{
		cfg:      cfg,
		limit:    limit,
		now:      time.Now,
		hosts:    make(map[string]*hostEntry),
		stopChan: make(chan struct{}),
	}
	l.cleanup = time.NewTicker(cfg.IdleTimeout)
	go l.cleanupRoutine()
	return l
}

// Enabled reports whether requests are limited at all.
func (l *Limiter) Enabled() bool {
	return l.limit != rate.Inf
}

// Allow reports whether a request from host may proceed now.
//
// When MaxHosts hosts are tracked, requests from hosts not seen before are
// rejected until idle entries are cleaned up.
func (l *Limiter) Allow(host string) bool {
	if !l.Enabled() {
		return true
	}
	now := l.now()

	l.mu.Lock()
	e, ok := l.hosts[host]
	if !ok {
		if len(l.hosts) >= l.cfg.MaxHosts {
			l.mu.Unlock()
			return false
		}
		e = &hostEntry{limiter: rate.NewLimiter(l.limit, l.cfg.Burst)}
		l.hosts[host] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked hosts.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hosts)
}

func (l *Limiter) cleanupRoutine() {
	for {
		select {
		case <-l.cleanup.C:
			l.removeIdle()
		case <-l.stopChan:
			return
		}
	}
}

// removeIdle drops hosts not seen for IdleTimeout.
func (l *Limiter) removeIdle() int {
	cutoff := l.now().Add(-l.cfg.IdleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for host, e := range l.hosts {
		if e.lastSeen.Before(cutoff) {
			delete(l.hosts, host)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. Safe to call multiple times.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		l.cleanup.Stop()
		close(l.stopChan)
	})
}
