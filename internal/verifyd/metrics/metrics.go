// Package metrics exposes the verification backend's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the backend's instrument set.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec
	LookupSeconds  *prometheus.HistogramVec
	CacheHitsTotal *prometheus.CounterVec
	ProviderErrors *prometheus.CounterVec
}

// New registers the backend metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the backend metrics on reg. Tests pass a fresh
// registry so repeated construction cannot collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formfill_verifyd_lookups_total",
			Help: "Verification lookups by identifier type and outcome.",
		}, []string{"identifier_type", "outcome"}),
		LookupSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formfill_verifyd_lookup_duration_seconds",
			Help:    "Verification lookup latency by identifier type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"identifier_type"}),
		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formfill_verifyd_cache_hits_total",
			Help: "Lookups answered from the response cache.",
		}, []string{"identifier_type"}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formfill_verifyd_provider_errors_total",
			Help: "Upstream registry failures by provider and category.",
		}, []string{"provider", "category"}),
	}
}

// RecordLookup counts one lookup and observes its latency.
func (m *Metrics) RecordLookup(identifierType, outcome string, seconds float64) {
	m.LookupsTotal.WithLabelValues(identifierType, outcome).Inc()
	m.LookupSeconds.WithLabelValues(identifierType).Observe(seconds)
}

// RecordCacheHit counts one cache-served lookup.
func (m *Metrics) RecordCacheHit(identifierType string) {
	m.CacheHitsTotal.WithLabelValues(identifierType).Inc()
}

// RecordProviderError counts one categorized upstream failure.
func (m *Metrics) RecordProviderError(provider, category string) {
	m.ProviderErrors.WithLabelValues(provider, category).Inc()
}
