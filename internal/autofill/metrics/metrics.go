// Package metrics provides Prometheus metrics for the auto-fill engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the engine-side metrics: verification calls by outcome,
// cache pass-through hits, and population counts.
type Metrics struct {
	VerificationsTotal  *prometheus.CounterVec   // by identifier type and outcome code ("OK" on success)
	VerificationSeconds *prometheus.HistogramVec // gateway call latency by identifier type
	CachedResultsTotal  *prometheus.CounterVec   // backend-cached answers by identifier type
	FieldsPopulated     *prometheus.HistogramVec // populated fields per auto-fill run by form type
	FieldsSkipped       prometheus.Counter       // fields skipped because the user edited them first
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a Metrics instance registered on the given registerer.
// Tests pass a fresh registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formfill_verifications_total",
			Help: "Total verification gateway calls by identifier type and outcome",
		}, []string{"identifier_type", "outcome"}),

		VerificationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formfill_verification_duration_seconds",
			Help:    "Verification gateway call latency by identifier type",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"identifier_type"}),

		CachedResultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formfill_cached_results_total",
			Help: "Verification answers the backend served from its cache",
		}, []string{"identifier_type"}),

		FieldsPopulated: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formfill_fields_populated",
			Help:    "Fields populated per auto-fill run by form type",
			Buckets: []float64{0, 1, 2, 4, 6, 8, 10},
		}, []string{"form_type"}),

		FieldsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "formfill_fields_skipped_total",
			Help: "Fields skipped during population because of prior user edits",
		}),
	}
}

// RecordVerification records one gateway call outcome.
func (m *Metrics) RecordVerification(identifierType, outcome string, seconds float64) {
	m.VerificationsTotal.WithLabelValues(identifierType, outcome).Inc()
	m.VerificationSeconds.WithLabelValues(identifierType).Observe(seconds)
}

// RecordCached records an answer the backend served from cache.
func (m *Metrics) RecordCached(identifierType string) {
	m.CachedResultsTotal.WithLabelValues(identifierType).Inc()
}

// RecordPopulation records the outcome of one population pass.
func (m *Metrics) RecordPopulation(formType string, populated, skipped int) {
	m.FieldsPopulated.WithLabelValues(formType).Observe(float64(populated))
	m.FieldsSkipped.Add(float64(skipped))
}
