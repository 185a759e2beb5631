package core

import (
	"errors"
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/scanner"
	httpx "github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

// GlobalTree names the tree scanned from the routes directory.
const GlobalTree = "global"

// BuildRouter installs the shared middleware, then registers the global
// route tree and every module tree. Route failures never abort the build;
// they are logged and returned in the Report.
func BuildRouter(cfg config.Config, d BuildDeps) (http.Handler, Report) {
	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}
	r.Use(chimd.RequestID)
	if cfg.Server.TrustProxyHeaders {
		r.Use(chimd.RealIP)
	}
	r.Use(chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	if d.Metrics != nil {
		// metrics collector that references auth state without copying it
		r.Use(d.Metrics.Collect(d.Auth))
	}
	r.Use(httpx.ParseJSON(cfg.Server.MaxBodyBytes))

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.Metrics != nil {
		if err := r.Handle(http.MethodGet, cfg.Metrics.Path, d.Metrics.Handler()); err != nil {
			log.Error("metrics endpoint not mounted", zap.String("path", cfg.Metrics.Path), zap.Error(err))
		}
	}

	g := NewRegistrar(cfg, d, r, log)
	rep := g.RegisterAll(Trees(cfg, g.Scanner, log))

	log.Info("route loading completed",
		zap.Int("routes", len(rep.Routes)),
		zap.Int("failures", rep.Failures),
		zap.Strings("missingTrees", rep.Missing))
	return r.Mux(), rep
}

// NewRegistrar wires a Registrar from the routes config section.
func NewRegistrar(cfg config.Config, d BuildDeps, r httpx.Router, log *zap.Logger) *Registrar {
	var loader manifest.Loader = manifest.Default
	if d.Loader != nil {
		loader = d.Loader
	}
	g := &Registrar{
		Router:      r,
		Loader:      loader,
		Pipeline:    d.Pipeline,
		Scanner:     scanner.New(cfg.Routes.Extensions, cfg.Routes.Exclude, log),
		Log:         log,
		AppRoot:     cfg.Routes.AppRoot,
		ModulesRoot: cfg.Routes.ModulesRoot(),
	}
	// a nil *metrics.Metrics must not end up in the interface
	if d.Metrics != nil {
		g.Metrics = d.Metrics
	}
	return g
}

// Trees lists the global tree followed by each module tree. A missing
// modules directory only yields the global tree.
func Trees(cfg config.Config, s *scanner.Scanner, log *zap.Logger) []scanner.Tree {
	trees := []scanner.Tree{{Name: GlobalTree, Root: cfg.Routes.RoutesRoot()}}

	mods, err := s.ModuleTrees(cfg.Routes.ModulesRoot(), cfg.Routes.ModuleMount)
	switch {
	case errors.Is(err, scanner.ErrTreeMissing):
		log.Warn("modules directory not found", zap.String("root", cfg.Routes.ModulesRoot()))
	case err != nil:
		log.Error("modules directory unreadable", zap.String("root", cfg.Routes.ModulesRoot()), zap.Error(err))
	default:
		log.Info("module trees found", zap.Int("modules", len(mods)))
	}
	return append(trees, mods...)
}
