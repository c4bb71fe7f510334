package collection

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the collection counters exposed on /metrics. A nil *Metrics records nothing.
type Metrics struct {
	fetches  *prometheus.CounterVec
	stale    *prometheus.CounterVec
	cache    *prometheus.CounterVec
	sessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fashionmart",
			Name:      "upstream_fetches_total",
			Help:      "Collection fetches sent to the marketplace API by resource and outcome.",
		}, []string{"resource", "outcome"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fashionmart",
			Name:      "stale_responses_discarded_total",
			Help:      "Fetch results dropped because a newer fetch was issued for the same view.",
		}, []string{"resource"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fashionmart",
			Name:      "page_cache_lookups_total",
			Help:      "Page cache lookups by resource and result.",
		}, []string{"resource", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fashionmart",
			Name:      "active_sessions",
			Help:      "List view sessions currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.stale, m.cache, m.sessions)
	}
	return m
}

func (m *Metrics) fetch(resource, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) discarded(resource string) {
	if m == nil {
		return
	}
	m.stale.WithLabelValues(resource).Inc()
}

func (m *Metrics) lookup(resource string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(resource, result).Inc()
}

func (m *Metrics) sessionDelta(d float64) {
	if m == nil {
		return
	}
	m.sessions.Add(d)
}
