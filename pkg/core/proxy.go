package core

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/convention"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/scanner"
)

// Proxy dispatches <BasePath>/<module>/... to one handler, after checking
// that <ModulesRoot>/<module> exists. The directory listing is read on every
// request.
type Proxy struct {
	BasePath    string
	ModulesRoot string
	Handler     event.Handler
	Log         *zap.Logger
}

var errNoProxyHandler = errors.New("module proxy exports neither Handler nor Default")

type proxyFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type moduleNotFound struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	AvailableModules []string `json:"availableModules"`
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := event.NewContext(w, r)

	rest := strings.TrimPrefix(c.Path, p.BasePath)
	parts := splitPath(rest)
	if len(parts) == 0 {
		_ = c.JSON(http.StatusBadRequest, proxyFailure{Message: "Module name is required"})
		return
	}
	name := parts[0]

	if !scanner.ModuleExists(p.ModulesRoot, name) {
		_ = c.JSON(http.StatusNotFound, moduleNotFound{
			Message:          "Module '" + name + "' not found",
			AvailableModules: scanner.ListModules(p.ModulesRoot),
		})
		return
	}

	c.ModuleName = name
	c.RemainingPath = "/" + strings.Join(parts[1:], "/")
	c.BasePath = p.BasePath
	c.Params["module"] = name

	result, err := p.call(c)
	if c.Written() {
		return
	}
	if err != nil {
		status := event.StatusOf(err)
		if status >= http.StatusInternalServerError {
			p.log().Error("module proxy handler failed",
				zap.String("module", name), zap.String("path", c.Path), zap.Error(err))
		}
		_ = c.JSON(status, proxyFailure{Message: proxyMessage(err), Details: event.DetailsOf(err)})
		return
	}
	if result != nil {
		_ = c.JSON(http.StatusOK, result)
	}
}

// call runs the handler; a panic is reported like a returned error.
func (p *Proxy) call(c *event.Context) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &event.PanicError{Value: rec}
		}
	}()
	return p.Handler(c)
}

func (p *Proxy) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func proxyMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return http.StatusText(http.StatusInternalServerError)
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// registerProxy binds a [module] file at <base>/:module/*, per verb when
// the file name carries one and for every verb otherwise.
func (g *Registrar) registerProxy(c scanner.Candidate, key string, parsed convention.ParsedRoute, mod *manifest.Module, rep *Report) {
	h := mod.Handler
	if h == nil {
		h = mod.Default
	}
	if h == nil {
		err := &manifest.LoadError{Key: key, Err: errNoProxyHandler}
		g.log().Error("module proxy has no handler", zap.String("file", key))
		rep.fail(err)
		return
	}
	if !mod.Middleware().Empty() {
		g.log().Warn("module proxy ignores route hooks", zap.String("file", key))
	}

	base := strings.TrimSuffix(c.BaseURL, "/")
	proxy := &Proxy{BasePath: base, ModulesRoot: g.ModulesRoot, Handler: h, Log: g.log()}
	pattern := convention.CleanPath(parsed.Pattern)

	methods := parsed.Methods
	if len(methods) == 0 {
		methods = []convention.Method{convention.MethodAll}
	}
	for _, m := range methods {
		g.bind(rep, RegisteredRoute{Method: m, Pattern: pattern, File: key, Tree: c.Tree, Proxy: true}, proxy)
	}
}
