package providers

import (
	"time"

	"breakd/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncTransitions(kind string)
	IncBreaksTriggered()
	IncDispatch(command string, outcome string)
	IncStoreFailures(op string)
	SetConnectedTabs(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	transitions         *prometheus.CounterVec
	breaksTriggered     prometheus.Counter
	dispatches          *prometheus.CounterVec
	storeFailures       *prometheus.CounterVec
	connectedTabs       prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncTransitions(kind string) {
	m.transitions.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncBreaksTriggered() {
	m.breaksTriggered.Inc()
}

func (m *MetricsProvider) IncDispatch(command string, outcome string) {
	m.dispatches.WithLabelValues(command, outcome).Inc()
}

func (m *MetricsProvider) IncStoreFailures(op string) {
	m.storeFailures.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) SetConnectedTabs(count int) {
	m.connectedTabs.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breakd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "breakd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breakd_cache_hits_total",
			Help: "Total number of domain gate cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breakd_cache_misses_total",
			Help: "Total number of domain gate cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "breakd_persistence_duration_seconds",
			Help:    "Duration of store snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breakd_transitions_total",
			Help: "Scheduler transitions applied, by kind",
		}, []string{"kind"}),

		breaksTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breakd_breaks_triggered_total",
			Help: "Number of times the break interval elapsed and a break was issued",
		}),

		dispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breakd_dispatches_total",
			Help: "Commands sent to tabs, by command and outcome",
		}, []string{"command", "outcome"}),

		storeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breakd_store_failures_total",
			Help: "Settings store operations that failed, by operation",
		}, []string{"op"}),

		connectedTabs: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "breakd_connected_tabs",
			Help: "Number of tabs holding an open socket",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncTransitions(_ string)                          {}
func (n *noopMetrics) IncBreaksTriggered()                              {}
func (n *noopMetrics) IncDispatch(_ string, _ string)                   {}
func (n *noopMetrics) IncStoreFailures(_ string)                        {}
func (n *noopMetrics) SetConnectedTabs(_ int)                           {}
