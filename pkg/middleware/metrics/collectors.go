package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics owns the collectors for one registry.
type Metrics struct {
	gatherer prometheus.Gatherer
	opts     *options

	responseTime              prometheus.Histogram
	totalHttpRequestsFromRole *prometheus.CounterVec
	totalHttpRequestsToUri    *prometheus.CounterVec
	totalHttpRequests         *prometheus.CounterVec

	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	routesRegistered *prometheus.GaugeVec
	routeFailures    *prometheus.GaugeVec
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in
// tests; nil means the default registry.
func New(reg *prometheus.Registry, opts ...Option) (*Metrics, error) {
	var (
		r prometheus.Registerer = prometheus.DefaultRegisterer
		g prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		r, g = reg, reg
	}

	m := &Metrics{
		gatherer: g,
		opts:     newOptions(opts...),

		responseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		}),
		totalHttpRequestsFromRole: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
			[]string{"role"},
		),
		totalHttpRequestsToUri: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
			[]string{"code", "uri", "method"},
		),
		totalHttpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
			[]string{"code", "method"},
		),

		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "route_pipeline_runs_total", Help: "route handler pipeline runs by outcome"},
			[]string{"method", "route", "outcome"},
		),
		pipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "route_pipeline_duration_seconds",
				Help:    "route handler pipeline duration.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		routesRegistered: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "routes_registered", Help: "routes bound per route tree"},
			[]string{"tree"},
		),
		routeFailures: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "route_registration_failures", Help: "route files that failed to load or bind, per route tree"},
			[]string{"tree"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.responseTime,
		m.totalHttpRequestsFromRole,
		m.totalHttpRequestsToUri,
		m.totalHttpRequests,
		m.pipelineRuns,
		m.pipelineDuration,
		m.routesRegistered,
		m.routeFailures,
	} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObservePipeline records one finished pipeline run.
func (m *Metrics) ObservePipeline(method, route, outcome string, elapsed time.Duration) {
	m.pipelineRuns.WithLabelValues(method, route, outcome).Inc()
	m.pipelineDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveRegistration records the result of registering one route tree.
func (m *Metrics) ObserveRegistration(tree string, routes, failures int) {
	m.routesRegistered.WithLabelValues(tree).Set(float64(routes))
	m.routeFailures.WithLabelValues(tree).Set(float64(failures))
}
