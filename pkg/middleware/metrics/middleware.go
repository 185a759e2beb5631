package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/middleware"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
)

// Collect counts every request that is not a skip path. The uri label is the
// matched route pattern, so /test/1 and /test/2 share one series.
func (m *Metrics) Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				if !m.opts.isSkipPath(r) {
					m.observe(r, ww.Status(), roleOf(ca, r), time.Since(start))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func (m *Metrics) observe(r *http.Request, status int, role string, took time.Duration) {
	// nothing written means net/http sends 200
	if status == 0 {
		status = http.StatusOK
	}
	code := strconv.Itoa(status)

	m.totalHttpRequestsFromRole.WithLabelValues(role).Inc()
	m.totalHttpRequestsToUri.WithLabelValues(code, m.opts.normalizePath(r), r.Method).Inc()
	m.totalHttpRequests.WithLabelValues(code, r.Method).Inc()
	m.responseTime.Observe(took.Seconds())
}

func roleOf(ca *auth.Middleware, r *http.Request) string {
	if ca == nil {
		return ""
	}
	return ca.GetUser(r.Context()).Role.Name
}
