package shelfstore

import "time"

// Metric names used across the package
const (
	MetricDocGetSuccess     = "shelfstore.doc.get.success"
	MetricDocGetError       = "shelfstore.doc.get.error"
	MetricDocGetDuration    = "shelfstore.doc.get.duration"
	MetricDocPutSuccess     = "shelfstore.doc.put.success"
	MetricDocPutError       = "shelfstore.doc.put.error"
	MetricDocPutDuration    = "shelfstore.doc.put.duration"
	MetricDocDeleteSuccess  = "shelfstore.doc.delete.success"
	MetricDocDeleteError    = "shelfstore.doc.delete.error"
	MetricDocDeleteDuration = "shelfstore.doc.delete.duration"
	MetricDocMGetDuration   = "shelfstore.doc.mget.duration"
	MetricDocMGetError      = "shelfstore.doc.mget.error"

	MetricCollectionAddError    = "shelfstore.collection.add.error"
	MetricCollectionRemoveError = "shelfstore.collection.remove.error"
	MetricCollectionCountError  = "shelfstore.collection.count.error"

	MetricSecondaryPutError = "shelfstore.secondary.put.error"
	MetricSecondaryGetError = "shelfstore.secondary.get.error"

	MetricSearchQueries      = "shelfstore.search.queries"
	MetricSearchErrors       = "shelfstore.search.errors"
	MetricSearchDegraded     = "shelfstore.search.degraded"
	MetricSuggestAdds        = "shelfstore.suggest.adds"
	MetricSuggestBuildErrors = "shelfstore.suggest.build.errors"
	MetricBootstrapDuration  = "shelfstore.bootstrap.duration"
)

// Metrics provides observability for shelfstore operations
type Metrics interface {
	// Increment increases a counter by 1
	Increment(name string, tags ...string)

	// Gauge sets an absolute value
	Gauge(name string, value float64, tags ...string)

	// Histogram records a value distribution (latency, size, etc)
	Histogram(name string, value float64, tags ...string)

	// Timing records a duration
	Timing(name string, duration time.Duration, tags ...string)
}

// NoOpMetrics is a metrics collector that does nothing
type NoOpMetrics struct{}

func (m *NoOpMetrics) Increment(name string, tags ...string)                      {}
func (m *NoOpMetrics) Gauge(name string, value float64, tags ...string)           {}
func (m *NoOpMetrics) Histogram(name string, value float64, tags ...string)       {}
func (m *NoOpMetrics) Timing(name string, duration time.Duration, tags ...string) {}

// InMemoryMetrics stores metrics in memory for testing
type InMemoryMetrics struct {
	Counters   map[string]int
	Gauges     map[string]float64
	Histograms map[string][]float64
	Timings    map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		Counters:   make(map[string]int),
		Gauges:     make(map[string]float64),
		Histograms: make(map[string][]float64),
		Timings:    make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Increment(name string, tags ...string) {
	m.Counters[name]++
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...string) {
	m.Gauges[name] = value
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...string) {
	m.Histograms[name] = append(m.Histograms[name], value)
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...string) {
	m.Timings[name] = append(m.Timings[name], duration)
}
