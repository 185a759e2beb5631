package ratelimit

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
)

// ProvideLimiter builds the configured limiter and installs it as the
// shared one used by Limit.
func ProvideLimiter(cfg config.Config) Limiter {
	l := FromConfig(cfg.RateLimit)
	SetShared(l)
	return l
}

// runSweeper evicts idle clients for as long as the app runs.
func runSweeper(lc fx.Lifecycle, cfg config.Config, l Limiter, log *zap.Logger) {
	s, ok := l.(Sweeper)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				RunSweeper(ctx, s, cfg.RateLimit.SweepEvery(), log)
			}()
			return nil
		},
		OnStop: func(stop context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stop.Done():
			}
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(ProvideLimiter),
	fx.Invoke(runSweeper),
)
