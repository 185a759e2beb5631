package core

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/convention"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/scanner"
	httpx "github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

// RegistrationObserver is told how each tree went. *metrics.Metrics
// implements it.
type RegistrationObserver interface {
	ObserveRegistration(tree string, routes, failures int)
}

// Registrar turns scanned route files into router bindings.
type Registrar struct {
	Router   httpx.Router
	Loader   manifest.Loader
	Pipeline *event.Pipeline
	Scanner  *scanner.Scanner
	Log      *zap.Logger
	Metrics  RegistrationObserver

	// AppRoot is what registry keys are relative to.
	AppRoot string
	// ModulesRoot is where the module proxy looks up module directories.
	ModulesRoot string
}

// RegisteredRoute is one binding handed to the router.
type RegisteredRoute struct {
	Method  convention.Method
	Pattern string
	File    string
	Tree    string
	Proxy   bool
}

// RegistrationError means the router rejected a binding.
type RegistrationError struct {
	Method  convention.Method
	Pattern string
	File    string
	Err     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %s %s (%s): %v", e.Method, e.Pattern, e.File, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Report collects what a registration pass did. Err aggregates every load
// and registration failure; none of them stopped the pass.
type Report struct {
	Routes   []RegisteredRoute
	Failures int
	Missing  []string
	Err      error
}

func (rep *Report) merge(o Report) {
	rep.Routes = append(rep.Routes, o.Routes...)
	rep.Failures += o.Failures
	rep.Missing = append(rep.Missing, o.Missing...)
	rep.Err = multierr.Append(rep.Err, o.Err)
}

func (rep *Report) fail(err error) {
	rep.Failures++
	rep.Err = multierr.Append(rep.Err, err)
}

// RegisterAll registers every tree in order.
func (g *Registrar) RegisterAll(trees []scanner.Tree) Report {
	var rep Report
	for _, t := range trees {
		rep.merge(g.RegisterTree(t))
	}
	return rep
}

// RegisterTree scans one tree and binds each route file it holds. A missing
// tree is logged and reported, never an error.
func (g *Registrar) RegisterTree(t scanner.Tree) Report {
	var rep Report
	log := g.log().With(zap.String("tree", t.Name))

	cands, err := g.Scanner.Scan(t)
	if errors.Is(err, scanner.ErrTreeMissing) {
		log.Warn("route tree not found", zap.String("root", t.Root))
		rep.Missing = append(rep.Missing, t.Name)
		return rep
	}
	if err != nil {
		log.Error("route tree partially scanned", zap.Error(err))
		rep.fail(err)
	}

	log.Info("scanning route tree", zap.String("root", t.Root), zap.String("base", t.BaseURL), zap.Int("files", len(cands)))
	for _, c := range cands {
		g.registerFile(c, &rep)
	}

	if g.Metrics != nil {
		g.Metrics.ObserveRegistration(t.Name, len(rep.Routes), rep.Failures)
	}
	return rep
}

func (g *Registrar) registerFile(c scanner.Candidate, rep *Report) {
	key := g.key(c.FullPath)
	parsed := convention.ParseRoute(c.Stem(), c.BaseURL)

	mod, err := g.Loader.Load(key)
	if err != nil {
		g.log().Error("route load failed", zap.String("file", key), zap.String("tree", c.Tree), zap.Error(err))
		rep.fail(err)
		return
	}

	if parsed.Proxy {
		g.registerProxy(c, key, parsed, mod, rep)
		return
	}

	pattern := convention.CleanPath(parsed.Pattern)
	for _, b := range bindings(parsed, mod) {
		h := g.wrap(pattern, b.handler, mod.Middleware())
		g.bind(rep, RegisteredRoute{Method: b.method, Pattern: pattern, File: key, Tree: c.Tree}, h)
	}
}

type binding struct {
	method  convention.Method
	handler event.Handler
}

// bindings applies the verb rules: an explicit verb takes its own export or
// the default; otherwise each exported verb is bound, and a default-only
// module is bound for every verb.
func bindings(parsed convention.ParsedRoute, mod *manifest.Module) []binding {
	var out []binding
	if len(parsed.Methods) > 0 {
		for _, v := range parsed.Methods {
			if h := mod.For(v); h != nil {
				out = append(out, binding{v, h})
			}
		}
		return out
	}

	for _, v := range mod.Verbs() {
		out = append(out, binding{v, mod.Handlers[v]})
	}
	if len(out) == 0 && mod.Default != nil {
		out = append(out, binding{convention.MethodAll, mod.Default})
	}
	return out
}

func (g *Registrar) wrap(pattern string, h event.Handler, set event.MiddlewareSet) http.Handler {
	if set.Empty() || g.Pipeline == nil {
		return event.Bare(h, g.log())
	}
	return g.Pipeline.Wrap(pattern, h, set)
}

func (g *Registrar) bind(rep *Report, rt RegisteredRoute, h http.Handler) {
	var err error
	if rt.Method == convention.MethodAll {
		err = g.Router.HandleAll(rt.Pattern, h)
	} else {
		err = g.Router.Handle(rt.Method.String(), rt.Pattern, h)
	}
	if err != nil {
		rerr := &RegistrationError{Method: rt.Method, Pattern: rt.Pattern, File: rt.File, Err: err}
		g.log().Error("route registration failed",
			zap.String("method", rt.Method.String()),
			zap.String("pattern", rt.Pattern),
			zap.String("file", rt.File),
			zap.Error(err))
		rep.fail(rerr)
		return
	}
	g.log().Info("route loaded",
		zap.String("method", rt.Method.String()),
		zap.String("pattern", rt.Pattern),
		zap.String("file", rt.File),
		zap.String("tree", rt.Tree),
		zap.Bool("proxy", rt.Proxy))
	rep.Routes = append(rep.Routes, rt)
}

// key is the registry key of a route file: its path relative to AppRoot.
func (g *Registrar) key(full string) string {
	if g.AppRoot != "" {
		if rel, err := filepath.Rel(g.AppRoot, full); err == nil {
			return manifest.Key(filepath.ToSlash(rel))
		}
	}
	return manifest.Key(filepath.ToSlash(full))
}

func (g *Registrar) log() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}
