package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

// Handler serves the /metrics endpoint for m's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ProvideMetrics registers on the default registry.
func ProvideMetrics(cfg config.Config) (*Metrics, error) {
	return New(nil, WithSkipPaths(cfg.Metrics.SkipPaths...), WithSkipPaths(cfg.Metrics.Path))
}

func provideHandler(m *Metrics) http.Handler { return m.Handler() }

var _ event.Observer = (*Metrics)(nil)

var Module = fx.Options(
	fx.Provide(ProvideMetrics),
	fx.Provide(fx.Annotate(provideHandler, fx.ResultTags(`name:"metrics"`))),
	fx.Provide(func(m *Metrics) event.Observer { return m }),
)
