package reports

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the generated counter.
const (
	OutcomeRendered = "rendered"
	OutcomeCached   = "cached"
	OutcomeFailed   = "failed"
)

// Metrics records report generation. A nil *Metrics is valid and records nothing.
type Metrics struct {
	generated *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	pages     *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acmeledger_reports_generated_total",
				Help: "Total number of report requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "acmeledger_report_render_duration_seconds",
				Help:    "Time spent building and rendering a report",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		pages: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "acmeledger_report_pages",
				Help:    "Number of pages per rendered report",
				Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.generated, m.duration, m.pages)
	}
	return m
}

func (m *Metrics) Observe(kind, outcome string, pages int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeRendered {
		m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
		m.pages.WithLabelValues(kind).Observe(float64(pages))
	}
}
