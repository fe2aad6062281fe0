package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelMethod = "method"
	labelPath   = "path"
	labelStatus = "status"
)

// Metrics holds the prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Requests          *prometheus.CounterVec
	Latency           *prometheus.HistogramVec
	GeneratedProducts prometheus.Counter
	GenerateDuration  prometheus.Histogram
	Searches          prometheus.Counter
	SearchResults     prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{labelMethod, labelPath, labelStatus},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP latency",
			},
			[]string{labelMethod, labelPath},
		),
		GeneratedProducts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "products_generated_total",
			Help: "Products created by the generator",
		}),
		GenerateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "products_generate_duration_seconds",
			Help:    "Time to build and store one generation batch",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "product_searches_total",
			Help: "Non-blank product searches",
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "product_search_results",
			Help:    "Products returned per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	reg.MustRegister(m.Requests, m.Latency, m.GeneratedProducts, m.GenerateDuration, m.Searches, m.SearchResults)
	return m
}

// ObserveRequest counts one HTTP request and records its latency.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(method, path).Observe(d.Seconds())
	m.Requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// ObserveGenerate records a stored batch of count products that took d.
func (m *Metrics) ObserveGenerate(count int, d time.Duration) {
	if m == nil {
		return
	}
	m.GeneratedProducts.Add(float64(count))
	m.GenerateDuration.Observe(d.Seconds())
}

// ObserveSearch records a non-blank search that returned results products.
func (m *Metrics) ObserveSearch(results int) {
	if m == nil {
		return
	}
	m.Searches.Inc()
	m.SearchResults.Observe(float64(results))
}
