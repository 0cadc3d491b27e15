package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var proxy = Route{Method: "POST", Path: "/api/gemini-proxy"}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *fakeClock) {
	t.Helper()
	cfg := PerMinute(perMinute, proxy)
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	return l, clock
}

func TestLimiter_AllowsBurstThenDenies(t *testing.T) {
	l, _ := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		info := l.Allow("10.0.0.1", "POST", "/api/gemini-proxy")
		require.True(t, info.Allowed, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	info := l.Allow("10.0.0.1", "POST", "/api/gemini-proxy")
	assert.False(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 20*time.Second, info.RetryAfter, float64(time.Millisecond))
}

func TestLimiter_Refills(t *testing.T) {
	l, clock := newTestLimiter(t, 60)

	for i := 0; i < 60; i++ {
		l.Allow("c", "POST", "/api/gemini-proxy")
	}
	assert.False(t, l.Allow("c", "POST", "/api/gemini-proxy").Allowed)

	clock.Advance(time.Second)
	assert.True(t, l.Allow("c", "POST", "/api/gemini-proxy").Allowed)
	assert.False(t, l.Allow("c", "POST", "/api/gemini-proxy").Allowed)

	clock.Advance(2 * time.Minute)
	info := l.Allow("c", "POST", "/api/gemini-proxy")
	assert.True(t, info.Allowed)
	assert.Equal(t, 59, info.Remaining, "refill is capped at capacity")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1)

	assert.True(t, l.Allow("a", "POST", "/api/gemini-proxy").Allowed)
	assert.False(t, l.Allow("a", "POST", "/api/gemini-proxy").Allowed)
	assert.True(t, l.Allow("b", "POST", "/api/gemini-proxy").Allowed)
	assert.Equal(t, 2, l.Len())
}

func TestLimiter_UnlimitedRoutes(t *testing.T) {
	l, _ := newTestLimiter(t, 1)

	for i := 0; i < 5; i++ {
		info := l.Allow("a", "GET", "/api/profiles")
		assert.True(t, info.Allowed)
		assert.Zero(t, info.Limit)
	}
	assert.True(t, l.Allow("a", "GET", "/api/gemini-proxy").Allowed, "method must match")
	assert.Zero(t, l.Len())
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(PerMinute(0, proxy))
	defer l.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a", "POST", "/api/gemini-proxy").Allowed)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, clock := newTestLimiter(t, 5)

	l.Allow("old", "POST", "/api/gemini-proxy")
	clock.Advance(2 * time.Hour)
	l.Allow("new", "POST", "/api/gemini-proxy")

	l.evictIdle()
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(PerMinute(10, proxy))
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, 50)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared", "POST", "/api/gemini-proxy").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestConfig_Limits(t *testing.T) {
	cfg := Config{Routes: []Route{proxy, {Method: "POST", Path: "/api/hooks/"}, {Path: "/any"}}}

	tests := []struct {
		method, path string
		want         bool
	}{
		{"POST", "/api/gemini-proxy", true},
		{"GET", "/api/gemini-proxy", false},
		{"POST", "/api/gemini-proxy/extra", false},
		{"POST", "/api/hooks/123", true},
		{"DELETE", "/api/hooks/123", false},
		{"GET", "/any", true},
		{"PUT", "/any", true},
		{"GET", "/health", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Limits(tt.method, tt.path))
		})
	}
}
