package viacep

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
)

// Metrics holds Prometheus collectors for lookups. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	cacheResults   *prometheus.CounterVec
}

// NewMetrics creates and registers lookup metrics on reg, or on the default
// registerer when reg is nil.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "viacep"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Total number of ViaCEP lookups by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lookup_duration_seconds",
				Help:      "ViaCEP lookup duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"op"},
		),
		cacheResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_results_total",
				Help:      "Response cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.lookupsTotal,
		m.lookupDuration,
		m.cacheResults,
	)

	return m
}

func (m *Metrics) observeLookup(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(op, outcome).Inc()
	m.lookupDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheResults.WithLabelValues(result).Inc()
}

// outcomeOf labels a finished lookup. found reports whether any record
// came back.
func outcomeOf(found bool, err error) string {
	switch {
	case err != nil:
		if k := KindOf(err); k != "" {
			return string(k)
		}
		return "error"
	case found:
		return OutcomeFound
	default:
		return OutcomeNotFound
	}
}
