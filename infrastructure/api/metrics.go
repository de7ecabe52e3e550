package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts dispatcher traffic. All methods are nil-receiver safe so
// the client works without a registry (CLI one-shots don't scrape).
type Metrics struct {
	requests    *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qualens_api_requests_total",
			Help: "Dispatcher calls by method and outcome.",
		}, []string{"method", "outcome"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "qualens_cache_hits_total",
			Help: "Response cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "qualens_cache_misses_total",
			Help: "Response cache misses.",
		}),
	}
}

func (m *Metrics) observe(method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) cacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
