package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global collector instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Protocol metrics
	Visits          *prometheus.CounterVec
	PartialMismatch prometheus.Counter
	VersionConflict prometheus.Counter

	// Render metrics
	LazyResolutions *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Singleton avoids duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	visits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_total",
			Help:      "Total number of page visits by component and kind (full or partial)",
		},
		[]string{"component", "kind"},
	)

	partialMismatch := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_component_mismatch_total",
			Help:      "Partial visits whose claimed component did not match the rendered one",
		},
	)

	versionConflict := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflicts_total",
			Help:      "Visits answered with a version conflict",
		},
	)

	lazyResolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lazy_prop_resolutions_total",
			Help:      "Total number of lazy prop evaluations by prop name",
		},
		[]string{"prop"},
	)

	renderDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Page render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		visits,
		partialMismatch,
		versionConflict,
		lazyResolutions,
		renderDuration,
	)

	globalCollector = &Collector{
		registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		Visits:          visits,
		PartialMismatch: partialMismatch,
		VersionConflict: versionConflict,
		LazyResolutions: lazyResolutions,
		RenderDuration:  renderDuration,
	}

	return globalCollector
}

// Handler returns an HTTP handler exposing the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
