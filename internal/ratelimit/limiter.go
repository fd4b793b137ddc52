package ratelimit

import (
	"sync"
	"time"
)

// Limiter provides per-client fixed-window rate limiting in process memory.
// Each server instance keeps independent counters, so the limit is
// approximate once more than one instance is deployed.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

type entry struct {
	count     int
	resetTime time.Time
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// New creates a limiter allowing max requests per window per identifier.
func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Check counts a request against identifier's current window. The first
// request for an identifier, or the first after its window expired, opens a
// fresh window with count 1. Exceeding the limit does not extend the window.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[identifier]
	if !ok || e.resetTime.Before(now) {
		e = &entry{count: 1, resetTime: now.Add(l.window)}
		l.entries[identifier] = e
		return Result{Allowed: true, Remaining: l.max - 1, ResetTime: e.resetTime}
	}

	e.count++
	if e.count > l.max {
		return Result{Allowed: false, Remaining: 0, ResetTime: e.resetTime}
	}
	return Result{Allowed: true, Remaining: l.max - e.count, ResetTime: e.resetTime}
}

// Max returns the per-window request limit.
func (l *Limiter) Max() int {
	return l.max
}

// Reset drops the current window for identifier.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	delete(l.entries, identifier)
	l.mu.Unlock()
}

// Prune removes entries whose window has already expired.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, e := range l.entries {
		if e.resetTime.Before(now) {
			delete(l.entries, id)
		}
	}
}

// StartSweep launches a background goroutine that prunes expired entries
// every interval, bounding memory growth. It runs for the process lifetime.
func (l *Limiter) StartSweep(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			l.Prune()
		}
	}()
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
