// Package ratelimit provides per-client request limits usable as an
// onRequest hook.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether one more request from key is allowed. Record
// both counts and decides, atomically per key.
type Limiter interface {
	Record(key string) bool
}

// Sweeper drops state for keys that have gone quiet.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SlidingWindow allows at most Max requests per key in any Window.
type SlidingWindow struct {
	Window time.Duration
	Max    int

	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewSlidingWindow(window time.Duration, max int) *SlidingWindow {
	return &SlidingWindow{Window: window, Max: max, hits: map[string][]time.Time{}, now: time.Now}
}

func (s *SlidingWindow) Record(key string) bool {
	now := s.now()
	start := now.Add(-s.Window)

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := prune(s.hits[key], start)
	kept = append(kept, now)
	s.hits[key] = kept
	return len(kept) <= s.Max
}

func (s *SlidingWindow) Sweep(now time.Time) int {
	start := now.Add(-s.Window)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, ts := range s.hits {
		if kept := prune(ts, start); len(kept) == 0 {
			delete(s.hits, k)
			n++
		} else {
			s.hits[k] = kept
		}
	}
	return n
}

// prune keeps timestamps strictly after start; ts is in ascending order.
func prune(ts []time.Time, start time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(start) {
		i++
	}
	return ts[i:]
}

// TokenBucket refills Max tokens per Window with the given burst.
type TokenBucket struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	idle    time.Duration
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewTokenBucket(window time.Duration, max, burst int) *TokenBucket {
	return &TokenBucket{
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   burst,
		buckets: map[string]*bucket{},
		now:     time.Now,
		idle:    window,
	}
}

func (t *TokenBucket) Record(key string) bool {
	now := t.now()
	t.mu.Lock()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(t.limit, t.burst)}
		t.buckets[key] = b
	}
	b.seen = now
	t.mu.Unlock()
	return b.lim.AllowN(now, 1)
}

func (t *TokenBucket) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for k, b := range t.buckets {
		if now.Sub(b.seen) > t.idle {
			delete(t.buckets, k)
			n++
		}
	}
	return n
}
