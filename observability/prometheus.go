package observability

import (
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusFactory is a MetricFactory backed by a Prometheus registry.
// Dotted metric names become underscored; counters gain a _total suffix.
type PrometheusFactory struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	histograms map[string]prometheus.Histogram
}

var _ MetricFactory = (*PrometheusFactory)(nil)

// NewPrometheusFactory creates a factory over registry. A nil registry gets a
// fresh one.
func NewPrometheusFactory(registry *prometheus.Registry) *PrometheusFactory {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &PrometheusFactory{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Counter returns the counter for name, registering it on first use.
func (f *PrometheusFactory) Counter(name string) Counter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.counters[name]; ok {
		return c
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricName(name) + "_total",
		Help: "IronVault counter " + name + ".",
	})
	f.registry.MustRegister(c)
	f.counters[name] = c
	return c
}

// Histogram returns the histogram for name, registering it on first use.
func (f *PrometheusFactory) Histogram(name string) Histogram {
	f.mu.Lock()
	defer f.mu.Unlock()

	if h, ok := f.histograms[name]; ok {
		return h
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    metricName(name),
		Help:    "IronVault histogram " + name + ".",
		Buckets: prometheus.ExponentialBuckets(100, 4, 10),
	})
	f.registry.MustRegister(h)
	f.histograms[name] = h
	return h
}

// Registry exposes the registry for custom collectors.
func (f *PrometheusFactory) Registry() *prometheus.Registry { return f.registry }

// Handler serves the registry for the /metrics endpoint.
func (f *PrometheusFactory) Handler() http.Handler {
	return promhttp.HandlerFor(f.registry, promhttp.HandlerOpts{})
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
