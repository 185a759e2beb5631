package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/core"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

// ---------- Options ----------

type Options struct {
	Service       string // overrides server.service when set
	ConfigEnv     string // env var naming the config file
	DefaultConfig string // used when ConfigEnv is unset
}

type Option func(*Options)

func WithService(s string) Option          { return func(o *Options) { o.Service = s } }
func WithConfigEnv(k string) Option        { return func(o *Options) { o.ConfigEnv = k } }
func WithDefaultConfig(path string) Option { return func(o *Options) { o.DefaultConfig = path } }

func defaultOptions() Options {
	return Options{
		ConfigEnv:     config.PathEnv,
		DefaultConfig: config.DefaultPath,
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return fx.Options(
		fx.Provide(func() Options { return o }),
		fx.Provide(provideConfig),
		// Core middleware
		bundlefx.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		fx.Provide(providePipeline),
		// Router
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

func provideConfig(o Options) (config.Config, error) {
	cfg, err := config.Load(ConfigPath(o))
	if err != nil {
		return config.Config{}, err
	}
	if o.Service != "" {
		cfg.Server.Service = o.Service
	}
	return cfg, nil
}

// ConfigPath is the config file the options point at.
func ConfigPath(o Options) string {
	if v := strings.TrimSpace(os.Getenv(o.ConfigEnv)); o.ConfigEnv != "" && v != "" {
		return v
	}
	return o.DefaultConfig
}

func providePipeline(zl *zap.Logger, obs event.Observer) *event.Pipeline {
	return event.NewPipeline(zl.Named("pipeline"), obs)
}

// ---------- Router ----------

type routerDeps struct {
	fx.In
	Config   config.Config
	Auth     *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  *metrics.Metrics
	Router   httpx.Router
	Pipeline *event.Pipeline
	Loader   manifest.Loader `optional:"true"`
	Logger   *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	h, rep := core.BuildRouter(d.Config, core.BuildDeps{
		Auth:     d.Auth,
		LogMW:    d.LogMW,
		Metrics:  d.Metrics,
		Router:   d.Router,
		Pipeline: d.Pipeline,
		Loader:   d.Loader,
		Log:      d.Logger.Named("routes"),
	})
	if rep.Err != nil {
		// Failing route files are isolated; the server still starts.
		d.Logger.Warn("some routes were not registered",
			zap.Int("failures", rep.Failures), zap.Error(rep.Err))
	}
	return h
}

// ---------- Lifecycle ----------

type serverDeps struct {
	fx.In
	Config config.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	sc := d.Config.Server
	addr := sc.Addr()
	cert, key := sc.CertFile, sc.KeyFile

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  sc.ReadTimeout(),
		WriteTimeout: sc.WriteTimeout(),
		IdleTimeout:  sc.IdleTimeout(),
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)
	log := d.Logger.With(zap.String("service", sc.Service))

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				log.Info("server starting (TLS)", zap.String("addr", addr), zap.String("cert", cert))
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Fatal("server failed", zap.Error(err))
					}
				}()
				return nil
			}
			log.Info("server starting (PLAINTEXT)", zap.String("addr", addr))
			srv.TLSConfig = nil
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("server stopping")
			ctx, cancel := context.WithTimeout(ctx, sc.ShutdownTimeout())
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
