// Package ratelimit throttles generation requests per client with token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Info describes the bucket state after a request was checked.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket refills continuously at rate tokens per second up to capacity.
type bucket struct {
	capacity   float64
	rate       float64
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

func newBucket(capacity int, window time.Duration, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		rate:       float64(capacity) / window.Seconds(),
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.rate)
		b.lastRefill = now
	}
}

func (b *bucket) take(now time.Time) Info {
	b.refill(now)
	b.lastSeen = now

	info := Info{Limit: int(b.capacity)}
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	} else {
		info.RetryAfter = time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
	}
	info.Remaining = int(b.tokens)
	missing := b.capacity - b.tokens
	info.ResetTime = now.Add(time.Duration(missing / b.rate * float64(time.Second)))
	return info
}

// Limiter keeps one bucket per client for the routes its Config limits.
type Limiter struct {
	config  Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter. When cleanup is configured a goroutine evicts idle
// buckets until Stop is called.
func NewLimiter(config Config) *Limiter {
	config = config.withDefaults()
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow consumes a token for clientID when method and path are limited.
// Unlimited requests are always allowed and report a zero Limit.
func (l *Limiter) Allow(clientID, method, path string) Info {
	if !l.config.Enabled || !l.config.Limits(method, path) {
		return Info{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[clientID]
	if !ok {
		b = newBucket(l.config.PerWindow, l.config.Window, now)
		l.buckets[clientID] = b
	}
	return b.take(now)
}

// Len reports the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets unused for longer than IdleTTL.
func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-l.config.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, id)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
