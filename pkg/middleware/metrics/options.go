package metrics

import (
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

type options struct {
	skipPaths      map[string]struct{}
	pathNormalizer func(*http.Request) string
}

type Option func(*options)

// WithSkipPaths adds paths that are never counted ("/metrics" always is).
func WithSkipPaths(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			p = strings.TrimSpace(p)
			if p != "" {
				o.skipPaths[p] = struct{}{}
			}
		}
	}
}

// WithPathNormalizer replaces the uri label source. The default is the
// matched route pattern, so parameters do not explode cardinality.
func WithPathNormalizer(fn func(*http.Request) string) Option {
	return func(o *options) {
		if fn != nil {
			o.pathNormalizer = fn
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		skipPaths:      map[string]struct{}{"/metrics": {}},
		pathNormalizer: httpx.RoutePattern,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

func (o *options) isSkipPath(r *http.Request) bool {
	_, ok := o.skipPaths[r.URL.Path]
	return ok
}

func (o *options) normalizePath(r *http.Request) string {
	return o.pathNormalizer(r)
}
