package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/protomem/preach-tracker/internal/model"
)

var (
	sessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_session_transitions_total",
			Help: "Count of session lifecycle operations by resulting state",
		},
		[]string{"op", "state"},
	)
	sessionDurations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracker_session_duration_seconds",
			Help:    "Durations of sessions when they are stopped",
			Buckets: []float64{60, 300, 900, 1800, 2700, 3600, 5400, 7200},
		},
	)
)

func init() { prometheus.MustRegister(sessionTransitions, sessionDurations) }

func observeTransition(op string, s model.Session) {
	sessionTransitions.WithLabelValues(op, s.State().String()).Inc()
	if op == "stop" && s.DurationSec != nil && *s.DurationSec >= 0 {
		sessionDurations.Observe(float64(*s.DurationSec))
	}
}
