package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-key sliding-window counter. It is a best-effort,
// in-process limiter: state resets on restart and is not shared across
// instances. Stale keys are pruned on write so the map stays bounded by
// the set of keys seen within one window.
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time

	mu   sync.Mutex
	seen map[string][]time.Time
}

// NewLimiter creates a limiter allowing max hits per key within window
func NewLimiter(window time.Duration, max int) *Limiter {
	return &Limiter{
		window: window,
		max:    max,
		now:    time.Now,
		seen:   make(map[string][]time.Time),
	}
}

// Allow records a hit for key and reports whether it is within the limit
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.seen[key][:0]
	for _, t := range l.seen[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	l.seen[key] = recent

	if len(recent) > l.max {
		return false
	}

	// Drop other keys whose whole window has passed
	for other, hits := range l.seen {
		if other == key {
			continue
		}
		if len(hits) == 0 || !hits[len(hits)-1].After(windowStart) {
			delete(l.seen, other)
		}
	}
	return true
}
