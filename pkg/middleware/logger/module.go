package logger

import (
	"context"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func optionsFrom(cfg config.Config) Options {
	console := true
	if cfg.Log.Console != nil {
		console = *cfg.Log.Console
	}
	return Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: console}
}

// ProvideLogger is the system logger; it is synced when the app stops.
func ProvideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	l, err := New(SystemLog, optionsFrom(cfg))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		_ = l.Sync()
		return nil
	}})
	return l, nil
}

func ProvideLoggerMiddleware(cfg config.Config) (*Middleware, error) {
	l, err := New(AccessLog, optionsFrom(cfg))
	if err != nil {
		return nil, err
	}
	return NewMiddleware(l, cfg.Log.BodyPaths...), nil
}

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
