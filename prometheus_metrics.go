package shelfstore

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements the Metrics interface using Prometheus
type PrometheusMetrics struct {
	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance.
// If registry is nil, a fresh registry is created; expose it via
// promhttp.HandlerFor in the serving layer.
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	pm := &PrometheusMetrics{
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		registry:   registry,
	}

	pm.registerDefaultMetrics()
	return pm
}

// Registry returns the underlying Prometheus registry
func (p *PrometheusMetrics) Registry() *prometheus.Registry {
	return p.registry
}

// registerDefaultMetrics registers the standard shelfstore metrics
func (p *PrometheusMetrics) registerDefaultMetrics() {
	docOps := []struct {
		metric string
		op     string
		kind   string
	}{
		{MetricDocGetSuccess, "get", "success"},
		{MetricDocGetError, "get", "error"},
		{MetricDocPutSuccess, "put", "success"},
		{MetricDocPutError, "put", "error"},
		{MetricDocDeleteSuccess, "delete", "success"},
		{MetricDocDeleteError, "delete", "error"},
		{MetricDocMGetError, "mget", "error"},
	}
	for _, d := range docOps {
		p.counters[d.metric] = promauto.With(p.registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shelfstore",
				Subsystem: "doc",
				Name:      d.op + "_" + d.kind + "_total",
				Help:      "Total number of document " + d.op + " " + d.kind + " outcomes",
			},
			[]string{},
		)
	}

	for _, m := range []string{MetricDocGetDuration, MetricDocPutDuration, MetricDocDeleteDuration, MetricDocMGetDuration} {
		p.histograms[m] = promauto.With(p.registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shelfstore",
				Subsystem: "doc",
				Name:      sanitizeMetricName(strings.TrimPrefix(m, "shelfstore.doc.")) + "_seconds",
				Help:      "Document operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{},
		)
	}

	p.counters[MetricSearchQueries] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfstore",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total number of full-text search queries",
		},
		[]string{},
	)

	p.counters[MetricSearchDegraded] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfstore",
			Subsystem: "search",
			Name:      "degraded_total",
			Help:      "Search or autocomplete calls that degraded to an empty result",
		},
		[]string{},
	)

	p.counters[MetricSuggestAdds] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfstore",
			Subsystem: "suggest",
			Name:      "adds_total",
			Help:      "Suggestion dictionary entries submitted during bootstrap",
		},
		[]string{},
	)

	p.histograms[MetricBootstrapDuration] = promauto.With(p.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shelfstore",
			Subsystem: "bootstrap",
			Name:      "duration_seconds",
			Help:      "Startup provisioning duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{},
	)
}

// Increment increments a Prometheus counter
func (p *PrometheusMetrics) Increment(name string, tags ...string) {
	p.mu.Lock()
	counter, ok := p.counters[name]
	if !ok {
		counter = promauto.With(p.registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shelfstore",
				Name:      sanitizeMetricName(name),
				Help:      "Dynamic counter: " + name,
			},
			extractLabels(tags),
		)
		p.counters[name] = counter
	}
	p.mu.Unlock()

	counter.With(extractLabelValues(tags)).Inc()
}

// Gauge sets a Prometheus gauge value
func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...string) {
	p.mu.Lock()
	gauge, ok := p.gauges[name]
	if !ok {
		gauge = promauto.With(p.registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "shelfstore",
				Name:      sanitizeMetricName(name),
				Help:      "Dynamic gauge: " + name,
			},
			extractLabels(tags),
		)
		p.gauges[name] = gauge
	}
	p.mu.Unlock()

	gauge.With(extractLabelValues(tags)).Set(value)
}

// Histogram records a value in a Prometheus histogram
func (p *PrometheusMetrics) Histogram(name string, value float64, tags ...string) {
	p.mu.Lock()
	histogram, ok := p.histograms[name]
	if !ok {
		histogram = promauto.With(p.registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shelfstore",
				Name:      sanitizeMetricName(name),
				Help:      "Dynamic histogram: " + name,
				Buckets:   prometheus.DefBuckets,
			},
			extractLabels(tags),
		)
		p.histograms[name] = histogram
	}
	p.mu.Unlock()

	histogram.With(extractLabelValues(tags)).Observe(value)
}

// Timing records a duration in a Prometheus histogram
func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...string) {
	p.Histogram(name, duration.Seconds(), tags...)
}

// sanitizeMetricName converts dotted metric names to Prometheus form
func sanitizeMetricName(name string) string {
	name = strings.TrimPrefix(name, "shelfstore.")
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

// extractLabels returns the label names from alternating key-value tags
func extractLabels(tags []string) []string {
	labels := make([]string, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		labels = append(labels, tags[i])
	}
	return labels
}

// extractLabelValues returns the label map from alternating key-value tags
func extractLabelValues(tags []string) prometheus.Labels {
	labels := make(prometheus.Labels, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		labels[tags[i]] = tags[i+1]
	}
	return labels
}
