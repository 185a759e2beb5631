package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
)

func newTestMetrics(t *testing.T, opts ...Option) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := New(reg, opts...)
	require.NoError(t, err)
	return m, reg
}

func TestCollectUsesRoutePattern(t *testing.T) {
	m, _ := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Collect(nil))
	r.Get("/test/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	r.Get("/metrics", func(http.ResponseWriter, *http.Request) {})

	for _, p := range []string{"/test/1", "/test/2", "/metrics"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.totalHttpRequestsToUri.WithLabelValues("202", "/test/{id}", "GET")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.totalHttpRequests.WithLabelValues("202", "GET")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.totalHttpRequestsToUri), "/metrics is skipped")
}

func TestCollectSkipPathsAndNormalizer(t *testing.T) {
	m, _ := newTestMetrics(t,
		WithSkipPaths("/ping"),
		WithPathNormalizer(func(*http.Request) string { return "fixed" }),
	)
	h := m.Collect(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalHttpRequestsToUri.WithLabelValues("200", "fixed", "POST")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.totalHttpRequests))
}

func TestObservers(t *testing.T) {
	m, reg := newTestMetrics(t)

	m.ObservePipeline("GET", "/test/:id", "200", 5*time.Millisecond)
	m.ObservePipeline("GET", "/test/:id", "ERROR", time.Millisecond)
	m.ObserveRegistration("global", 3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues("GET", "/test/:id", "ERROR")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.routesRegistered.WithLabelValues("global")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.routeFailures.WithLabelValues("global")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "route_pipeline_runs_total")

	_, err := New(reg)
	assert.Error(t, err, "collectors cannot be registered twice on one registry")
}

func TestCollectCountsRoleAndSilentHandlers(t *testing.T) {
	m, _ := newTestMetrics(t)
	a := auth.New(auth.Options{Secret: "k"})
	tok, err := a.Sign(auth.User{Username: "ada", Role: auth.Role{Name: "ops"}}, time.Minute)
	require.NoError(t, err)

	h := a.Middleware()(m.Collect(a)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})))
	req := httptest.NewRequest(http.MethodGet, "/quiet", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalHttpRequestsFromRole.WithLabelValues("ops")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalHttpRequests.WithLabelValues("200", "GET")),
		"a handler that writes nothing is counted as 200")
}
