package core

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/ratelimit"
	httpx "github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

func TestBuildRouter(t *testing.T) {
	root := t.TempDir()
	reg := manifest.NewRegistry()
	add := func(rel string, m manifest.Module) {
		touch(t, root, rel)
		require.NoError(t, reg.Register(rel, m))
	}
	add("routes/health.get.go", manifest.Module{Default: reply(map[string]string{"status": "ok"})})
	add("routes/echo.post.go", manifest.Module{Default: func(c *event.Context) (any, error) {
		return c.Body, nil
	}})
	add("modules/billing/routes/invoices/[id].get.go", manifest.Module{Default: func(c *event.Context) (any, error) {
		return map[string]string{"invoice": c.Params["id"]}, nil
	}})

	cfg := config.Default()
	cfg.Routes.AppRoot = root

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	log := zap.NewNop()

	h, rep := BuildRouter(cfg, BuildDeps{
		Auth:     auth.New(auth.Options{}),
		LogMW:    logger.NewMiddleware(log),
		Metrics:  m,
		Router:   httpx.NewChi(),
		Pipeline: event.NewPipeline(log, m),
		Loader:   reg,
		Log:      log,
	})
	require.NoError(t, rep.Err)
	assert.Len(t, rep.Routes, 3)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/ping", "").Code)
	assert.JSONEq(t, `{"status":"ok"}`, do(http.MethodGet, "/health", "").Body.String())
	assert.JSONEq(t, `{"a":[1,2]}`, do(http.MethodPost, "/echo", `{"a":[1,2]}`).Body.String())
	assert.JSONEq(t, `{"invoice":"9"}`, do(http.MethodGet, "/api/billing/invoices/9", "").Body.String())

	rec := do(http.MethodPost, "/echo", `{"a":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `routes_registered{tree="billing"} 1`)
	assert.Contains(t, rec.Body.String(), `total_http_requests_to_uri`)
}

func TestBuildRouterWithoutTrees(t *testing.T) {
	cfg := config.Default()
	cfg.Routes.AppRoot = t.TempDir()

	h, rep := BuildRouter(cfg, BuildDeps{Loader: manifest.NewRegistry()})
	assert.NoError(t, rep.Err)
	assert.Empty(t, rep.Routes)
	assert.Equal(t, []string{GlobalTree}, rep.Missing)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func limitedRouter(t *testing.T, trustProxy bool) http.Handler {
	t.Helper()
	root := t.TempDir()
	reg := manifest.NewRegistry()
	touch(t, root, "routes/quota.get.go")
	require.NoError(t, reg.Register("routes/quota.get.go", manifest.Module{
		Default:   reply("ok"),
		OnRequest: []event.RequestHook{ratelimit.Hook(ratelimit.NewSlidingWindow(time.Minute, 2))},
	}))

	cfg := config.Default()
	cfg.Routes.AppRoot = root
	cfg.Server.TrustProxyHeaders = trustProxy
	log := zap.NewNop()
	h, rep := BuildRouter(cfg, BuildDeps{Pipeline: event.NewPipeline(log, nil), Loader: reg, Log: log})
	require.NoError(t, rep.Err)
	return h
}

func quotaCodes(h http.Handler) []int {
	var codes []int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/quota", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i+1))
		req.Header.Set("X-Real-IP", "198.51.100."+strconv.Itoa(i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	return codes
}

func TestRateLimitIgnoresForwardedHeadersByDefault(t *testing.T) {
	assert.Equal(t, []int{200, 200, 429, 429, 429, 429}, quotaCodes(limitedRouter(t, false)))
}

func TestRateLimitUsesForwardedHeadersWhenTrusted(t *testing.T) {
	assert.Equal(t, []int{200, 200, 200, 200, 200, 200}, quotaCodes(limitedRouter(t, true)))
}
