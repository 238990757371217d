package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PassesIssued       prometheus.Counter
	Validations        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	AuditAppendErrors  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PassesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopass_passes_issued_total",
			Help: "Total number of passes issued",
		}),
		Validations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gopass_validations_total",
			Help: "Total validation attempts partitioned by outcome",
		}, []string{"outcome"}),
		ValidationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gopass_validation_duration_seconds",
			Help:    "Latency of the check-in validation path",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		AuditAppendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gopass_audit_append_errors_total",
			Help: "Audit ledger writes that failed and rolled back a validation",
		}),
	}
}

// IncrementPassesIssued records one successful issuance.
func (m *Metrics) IncrementPassesIssued() {
	if m != nil {
		m.PassesIssued.Inc()
	}
}

// ObserveValidation records one validation attempt and its latency.
func (m *Metrics) ObserveValidation(outcome string, elapsed time.Duration) {
	if m != nil {
		m.Validations.WithLabelValues(outcome).Inc()
		m.ValidationDuration.Observe(elapsed.Seconds())
	}
}

// IncrementAuditAppendErrors records a failed ledger write.
func (m *Metrics) IncrementAuditAppendErrors() {
	if m != nil {
		m.AuditAppendErrors.Inc()
	}
}
