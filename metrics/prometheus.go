package metrics

import "github.com/prometheus/client_golang/prometheus"

// PrometheusAdapter implements Metrics and exports Prometheus counters,
// generalized from the sibling sharded-cache repo's own Prometheus adapter.
type PrometheusAdapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	expires   prometheus.Counter
	refreshes prometheus.Counter
}

// NewPrometheusAdapter constructs a Metrics adapter and registers its
// counters. reg defaults to prometheus.DefaultRegisterer when nil.
func NewPrometheusAdapter(reg prometheus.Registerer, namespace, subsystem string) *PrometheusAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &PrometheusAdapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "hits_total", Help: "Container reads that found a live entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "misses_total", Help: "Container reads that found no live entry.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "evictions_total", Help: "Entries removed by the bounded eviction policy.",
		}),
		expires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "expirations_total", Help: "Entries removed because the expiration hook confirmed expiry.",
		}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "refreshes_total", Help: "Refresh hook invocations on read.",
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evictions, a.expires, a.refreshes)
	return a
}

func (a *PrometheusAdapter) Hit()      { a.hits.Inc() }
func (a *PrometheusAdapter) Miss()     { a.misses.Inc() }
func (a *PrometheusAdapter) Eviction() { a.evictions.Inc() }
func (a *PrometheusAdapter) Expire()   { a.expires.Inc() }
func (a *PrometheusAdapter) Refresh()  { a.refreshes.Inc() }

var _ Metrics = (*PrometheusAdapter)(nil)
