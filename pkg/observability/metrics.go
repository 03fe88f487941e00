package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sform/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Edits          *prometheus.CounterVec
	Ignored        prometheus.Counter
	SettleDuration prometheus.Histogram
	// FieldInvalid is 1 while a field shows a message and 0 otherwise.
	FieldInvalid *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sform_edits_total",
				Help: "Total number of settled edits",
			},
			[]string{"field"},
		),
		Ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sform_edits_ignored_total",
			Help: "Edits addressed to an empty or undeclared field",
		}),
		SettleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sform_settle_duration_seconds",
			Help:    "Time spent running constraints and message rules for one edit",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		FieldInvalid: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sform_field_invalid",
				Help: "Whether a field currently shows a message",
			},
			[]string{"field"},
		),
	}

	for _, c := range []prometheus.Collector{m.Edits, m.Ignored, m.SettleDuration, m.FieldInvalid} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNewMetrics is like NewMetrics but panics if registration fails.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIgnored: func(*domain.EditEvent) {
			m.Ignored.Inc()
		},
		OnSettle: func(e *domain.SettleEvent) {
			m.Edits.WithLabelValues(e.Field).Inc()
			m.SettleDuration.Observe(e.Duration.Seconds())
			for field, msg := range e.Errors {
				v := 0.0
				if msg != "" {
					v = 1
				}
				m.FieldInvalid.WithLabelValues(field).Set(v)
			}
		},
	}
}
