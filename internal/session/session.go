// Package session provides cookie based sessions. Every new session is
// counted per remote host in the statistics counter.
package session

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "PAGEWS_SESSION"
	// DefaultTTL is the idle time after which a session expires.
	DefaultTTL = 30 * time.Minute
)

// Counter receives one call per new session with the remote host.
type Counter interface {
	IncSession(host string) int64
}

// Session is a server side session.
type Session struct {
	ID      string
	Host    string
	Created time.Time

	lastSeen atomic.Int64 // unix nanoseconds
}

// LastSeen returns the time of the last request in this session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Manager creates, finds and expires sessions.
type Manager struct {
	sessions sync.Map // id -> *Session
	counter  Counter
	hostFn   func(*http.Request) string
	ttl      time.Duration
	secure   bool
	logger   *slog.Logger
	now      func() time.Time

	cleanup  *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts the expiry goroutine.
//
// hostFn extracts the remote host used for session counting. A ttl of zero
// or less means DefaultTTL.
func NewManager(counter Counter, hostFn func(*http.Request) string, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		counter:  counter,
		hostFn:   hostFn,
		ttl:      ttl,
		secure:   secure,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	m.cleanup = time.NewTicker(interval)
	go m.cleanupRoutine()

	return m
}

// Get returns the live session of the request, if any.
func (m *Manager) Get(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	v, ok := m.sessions.Load(c.Value)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if m.expired(s, m.now()) {
		m.sessions.Delete(s.ID)
		return nil, false
	}
	return s, true
}

// Ensure returns the session of the request, creating one when there is
// none. A new session sets the session cookie on w and is counted for the
// remote host. The boolean reports whether the session is new.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	now := m.now()
	if s, ok := m.Get(r); ok {
		s.touch(now)
		return s, false
	}

	s := &Session{
		ID:      uuid.NewString(),
		Host:    m.hostFn(r),
		Created: now,
	}
	s.touch(now)
	m.sessions.Store(s.ID, s)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})

	m.counter.IncSession(s.Host)
	m.logger.Debug("New session", "id", s.ID, "host", s.Host)
	return s, true
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	n := 0
	m.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return now.Sub(s.LastSeen()) > m.ttl
}

func (m *Manager) cleanupRoutine() {
	for {
		select {
		case <-m.cleanup.C:
			m.removeExpired()
		case <-m.stopChan:
			return
		}
	}
}

// removeExpired drops sessions idle for longer than the TTL.
func (m *Manager) removeExpired() int {
	now := m.now()
	removed := 0
	m.sessions.Range(func(k, v any) bool {
		if m.expired(v.(*Session), now) {
			m.sessions.Delete(k)
			removed++
		}
		return true
	})
	if removed > 0 {
		m.logger.Debug("Expired sessions removed", "count", removed)
	}
	return removed
}

// Stop stops the expiry goroutine. Safe to call multiple times.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.cleanup.Stop()
		close(m.stopChan)
	})
}
