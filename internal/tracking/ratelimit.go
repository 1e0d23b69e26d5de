package tracking

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultRateLimit is the number of ingestion calls allowed per session
	// within one window.
	DefaultRateLimit = 30
	// DefaultRateWindow is the length of the fixed counting window.
	DefaultRateWindow = time.Minute
	// DefaultRateCapacity bounds how many session counters are kept; the
	// least recently used ones are evicted beyond that.
	DefaultRateCapacity = 10000
)

type sessionWindow struct {
	count     int
	windowEnd time.Time
}

// SessionRateLimiter is a per-session fixed-window request counter backed by
// a bounded LRU, so stale session ids fall out instead of accumulating for
// the lifetime of the process.
type SessionRateLimiter struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *sessionWindow]
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewSessionRateLimiter(limit int, window time.Duration, capacity int) *SessionRateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	if capacity <= 0 {
		capacity = DefaultRateCapacity
	}
	cache, _ := lru.New[string, *sessionWindow](capacity)
	return &SessionRateLimiter{
		sessions: cache,
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow reports whether one more request from this session may proceed. The
// first request of a window resets the counter and schedules the window end;
// requests at or above the limit are rejected until the window rolls over.
func (l *SessionRateLimiter) Allow(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.sessions.Get(sessionID)
	if !ok || now.After(w.windowEnd) {
		l.sessions.Add(sessionID, &sessionWindow{count: 1, windowEnd: now.Add(l.window)})
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Len returns the number of tracked session counters.
func (l *SessionRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessions.Len()
}
