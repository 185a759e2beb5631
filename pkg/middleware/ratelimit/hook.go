package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

// Hook rejects requests over the limit with 429. Clients are keyed by IP.
func Hook(l Limiter) event.RequestHook {
	return func(c *event.Context) error {
		if !l.Record(c.ClientIP()) {
			return event.TooManyRequests("too many requests")
		}
		return nil
	}
}

// FromConfig builds the limiter the rate_limit section describes.
func FromConfig(rl config.RateLimit) Limiter {
	if rl.Strategy == config.StrategyTokenBucket {
		return NewTokenBucket(rl.Window(), rl.Max, rl.Burst)
	}
	return NewSlidingWindow(rl.Window(), rl.Max)
}

// RunSweeper calls Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, s Sweeper, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Sweep(now); n > 0 && log != nil {
				log.Debug("rate limit keys swept", zap.Int("keys", n))
			}
		}
	}
}

var (
	sharedMu sync.RWMutex
	shared   Limiter = NewSlidingWindow(time.Minute, 10)
)

// SetShared replaces the process-wide limiter used by Limit.
func SetShared(l Limiter) {
	if l == nil {
		return
	}
	sharedMu.Lock()
	shared = l
	sharedMu.Unlock()
}

// Shared returns the process-wide limiter.
func Shared() Limiter {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return shared
}

// Limit is Hook over the shared limiter, resolved on every request so route
// files can reference it before configuration is loaded.
func Limit(c *event.Context) error {
	return Hook(Shared())(c)
}
