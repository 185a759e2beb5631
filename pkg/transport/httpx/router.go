// pkg/transport/httpx/router.go
package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router is the minimal HTTP router contract steeze-fsrouter depends on.
// Patterns use the route-file notation (":name" parameters, trailing "*").
// transport/httpx.NewChi implements this.
type Router interface {
	Handle(method, pattern string, h http.Handler) error
	HandleAll(pattern string, h http.Handler) error
	Use(mw ...func(http.Handler) http.Handler)
	Mux() http.Handler
}

// chiRouter is our default Router backed by github.com/go-chi/chi.
type chiRouter struct{ r *chi.Mux }

// NewChi returns a Chi-backed Router.
func NewChi() Router { return &chiRouter{r: chi.NewRouter()} }

func (c *chiRouter) Handle(method, pattern string, h http.Handler) (err error) {
	defer recoverRegistration(&err, method, pattern)
	c.r.Method(method, ToChi(pattern), h)
	return nil
}

func (c *chiRouter) HandleAll(pattern string, h http.Handler) (err error) {
	defer recoverRegistration(&err, "ALL", pattern)
	c.r.Handle(ToChi(pattern), h)
	return nil
}

func (c *chiRouter) Mux() http.Handler                         { return c.r }
func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

// chi reports bad patterns and verbs by panicking.
func recoverRegistration(err *error, method, pattern string) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("register %s %s: %v", method, pattern, rec)
	}
}

// ToChi rewrites ":name" segments into chi's "{name}" form.
func ToChi(pattern string) string {
	parts := strings.Split(pattern, "/")
	for i, p := range parts {
		if len(p) > 1 && p[0] == ':' {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// Params returns the matched route parameters; a trailing wildcard is
// reported under "*".
func Params(r *http.Request) map[string]string {
	out := map[string]string{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return out
	}
	for i, k := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			out[k] = rctx.URLParams.Values[i]
		}
	}
	return out
}

// RoutePattern is the chi pattern that matched r, or the raw path when the
// request did not go through chi.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
