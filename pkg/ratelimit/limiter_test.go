package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(time.Minute, 3)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("203.0.113.5"), "hit %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("203.0.113.5"))

	// Other keys are unaffected
	assert.True(t, limiter.Allow("198.51.100.7"))
}

func TestAllowWindowExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(time.Minute, 2)
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow("203.0.113.5"))
	assert.True(t, limiter.Allow("203.0.113.5"))
	assert.False(t, limiter.Allow("203.0.113.5"))

	current = current.Add(61 * time.Second)
	assert.True(t, limiter.Allow("203.0.113.5"))
}

func TestPruneStaleKeys(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(time.Minute, 5)
	limiter.now = func() time.Time { return current }

	limiter.Allow("203.0.113.5")
	limiter.Allow("198.51.100.7")

	current = current.Add(2 * time.Minute)
	limiter.Allow("203.0.113.5")

	limiter.mu.Lock()
	_, stale := limiter.seen["198.51.100.7"]
	limiter.mu.Unlock()
	assert.False(t, stale)
}
