package revisions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "revdiff"
	metricsSubsystem = "revisions"
)

// Session results recorded by Metrics.Sessions.
const (
	ResultRendered = "rendered"
	ResultEmpty    = "empty"
	ResultFailed   = "failed"
)

// Metrics holds the Prometheus collectors of the revisions feature.
type Metrics struct {
	// Captures counts saved revisions.
	Captures prometheus.Counter

	// Sessions counts diff requests by result.
	// Labels: result (rendered, empty, failed)
	Sessions *prometheus.CounterVec

	// Annotations counts created annotations.
	// Labels: kind (marker, fragment), change (insert, remove, attribute)
	Annotations *prometheus.CounterVec

	// DiffDuration measures replay plus rendering.
	DiffDuration prometheus.Histogram

	// ActiveSessions is 1 while a diff is shown.
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Captures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "captures_total",
			Help:      "Number of saved revisions.",
		}),
		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "sessions_total",
			Help:      "Number of diff requests by result.",
		}, []string{"result"}),
		Annotations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "annotations_total",
			Help:      "Number of diff annotations by kind and change type.",
		}, []string{"kind", "change"}),
		DiffDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "diff_duration_seconds",
			Help:      "Time spent replaying and rendering a diff.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "active_sessions",
			Help:      "Number of diff sessions currently shown.",
		}),
	}
}

func (m *Metrics) observeSession(s *Session) {
	for _, a := range s.annotations {
		m.Annotations.WithLabelValues(a.Kind.String(), a.Change.String()).Inc()
	}
}
