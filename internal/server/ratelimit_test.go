package server

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(perMinute, perHour, perDay int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(perMinute, perHour, perDay)
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_NoLimits(t *testing.T) {
	rl, _ := newTestLimiter(0, 0, 0)

	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Allow("user1"))
	}
	assert.Equal(t, Usage{LastMinute: 100, LastHour: 100, Today: 100}, rl.Usage("user1"))
	assert.Equal(t, Usage{}, rl.Usage("nobody"))
}

func TestRateLimiter_PerMinute(t *testing.T) {
	rl, clock := newTestLimiter(2, 0, 0)

	require.NoError(t, rl.Allow("user1"))
	clock.advance(10 * time.Second)
	require.NoError(t, rl.Allow("user1"))

	err := rl.Allow("user1")
	var rateLimitErr *RateLimitError
	require.True(t, errors.As(err, &rateLimitErr))
	assert.Equal(t, "minute", rateLimitErr.Type)
	assert.Equal(t, 2, rateLimitErr.Limit)
	assert.Equal(t, 50*time.Second, rateLimitErr.RetryAfter)

	// Rejected requests are not counted.
	assert.Equal(t, 2, rl.Usage("user1").LastMinute)

	clock.advance(50 * time.Second)
	assert.NoError(t, rl.Allow("user1"))
}

func TestRateLimiter_PerHour(t *testing.T) {
	rl, clock := newTestLimiter(0, 3, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Allow("user1"))
		clock.advance(5 * time.Minute)
	}

	var rateLimitErr *RateLimitError
	require.True(t, errors.As(rl.Allow("user1"), &rateLimitErr))
	assert.Equal(t, "hour", rateLimitErr.Type)
	assert.Equal(t, 45*time.Minute, rateLimitErr.RetryAfter)

	clock.advance(45 * time.Minute)
	assert.NoError(t, rl.Allow("user1"))
}

func TestRateLimiter_DailyQuota(t *testing.T) {
	rl, clock := newTestLimiter(0, 0, 2)

	require.NoError(t, rl.Allow("user1"))
	require.NoError(t, rl.Allow("user1"))

	var quotaErr *QuotaExceededError
	require.True(t, errors.As(rl.Allow("user1"), &quotaErr))
	assert.Equal(t, "requests", quotaErr.Type)
	assert.Equal(t, int64(2), quotaErr.Limit)
	assert.Equal(t, int64(2), quotaErr.Used)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), quotaErr.Resets)
	assert.Contains(t, quotaErr.Error(), "quota exceeded for requests")

	clock.advance(12 * time.Hour)
	assert.NoError(t, rl.Allow("user1"))
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, 0, 0)

	require.NoError(t, rl.Allow("a"))
	require.NoError(t, rl.Allow("b"))
	assert.Error(t, rl.Allow("a"))
}

func TestRateLimiter_Prune(t *testing.T) {
	rl, clock := newTestLimiter(0, 0, 0)

	require.NoError(t, rl.Allow("old"))
	clock.advance(24 * time.Hour)
	require.NoError(t, rl.Allow("new"))

	assert.Equal(t, 1, rl.Prune())
	assert.Equal(t, Usage{}, rl.Usage("old"))
	assert.Equal(t, 1, rl.Usage("new").Today)
}

func TestRateLimitError_Error(t *testing.T) {
	err := &RateLimitError{Type: "minute", Limit: 5, RetryAfter: 30 * time.Second}
	assert.Equal(t, "rate limit exceeded for minute (limit: 5, retry after: 30s)", err.Error())
}
