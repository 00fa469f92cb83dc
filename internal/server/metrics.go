package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/provgraph/pkg/observability"
)

// Metrics implements the observability hooks with Prometheus collectors on
// a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sessions        prometheus.Gauge

	stageDuration *prometheus.HistogramVec
	visibleNodes  prometheus.Gauge
	events        *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics creates the collectors, including Go runtime and process
// metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provgraph_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "provgraph_http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
				// Snapshot requests take microseconds; Graphviz renders take up to seconds.
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "provgraph_sessions_open",
			Help: "Number of open view sessions",
		}),
		stageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provgraph_pipeline_stage_duration_seconds",
				Help:    "Duration of view pipeline stages in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"stage"},
		),
		visibleNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "provgraph_layout_nodes",
			Help: "Number of nodes placed by the most recent layout pass",
		}),
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provgraph_view_events_total",
				Help: "Interaction events applied to views",
			},
			[]string{"kind", "result"},
		),
		cacheOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provgraph_cache_operations_total",
				Help: "Artifact cache lookups and writes",
			},
			[]string{"type", "op"},
		),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "provgraph_cache_written_bytes_total",
			Help: "Bytes written to the artifact cache",
		}),
	}
}

// Register installs m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) OnCollapse(_, _, _ int, d time.Duration) {
	m.stageDuration.WithLabelValues("collapse").Observe(d.Seconds())
}

func (m *Metrics) OnTrace(_ string, _, _ int, d time.Duration) {
	m.stageDuration.WithLabelValues("trace").Observe(d.Seconds())
}

func (m *Metrics) OnLayout(nodes, _ int, d time.Duration) {
	m.stageDuration.WithLabelValues("layout").Observe(d.Seconds())
	m.visibleNodes.Set(float64(nodes))
}

func (m *Metrics) OnEvent(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.events.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnSessions(_ context.Context, open int) {
	m.sessions.Set(float64(open))
}
