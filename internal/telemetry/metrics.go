// Package telemetry exposes Prometheus metrics for motion playback.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ticksTotal counts control cycles driven per motion.
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motion_ticks_total",
		Help: "Total number of control cycles driven by motion",
	}, []string{"motion"})

	// transitionsTotal counts phase changes.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motion_phase_transitions_total",
		Help: "Total number of phase transitions by motion, from_phase and to_phase",
	}, []string{"motion", "from_phase", "to_phase"})

	// outcomesTotal counts motions that stopped, by outcome (finished or aborted).
	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motion_outcomes_total",
		Help: "Total number of completed motions by motion and outcome",
	}, []string{"motion", "outcome"})

	// motionDuration tracks motion time from first tick to the terminal phase.
	motionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "motion_duration_seconds",
		Help:    "Motion time from first tick to finish or abort, by motion and outcome",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"motion", "outcome"})
)

// RecordTick counts one control cycle.
func RecordTick(motion string) {
	ticksTotal.WithLabelValues(sanitizeMotion(motion)).Inc()
}

// RecordTransition counts a phase change.
func RecordTransition(motion, from, to string) {
	transitionsTotal.WithLabelValues(sanitizeMotion(motion), from, to).Inc()
}

// RecordOutcome counts a motion reaching a terminal phase after elapsed motion time.
func RecordOutcome(motion, outcome string, elapsed time.Duration) {
	m := sanitizeMotion(motion)
	outcomesTotal.WithLabelValues(m, outcome).Inc()
	motionDuration.WithLabelValues(m, outcome).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func sanitizeMotion(motion string) string {
	if motion == "" {
		return "unknown"
	}
	return motion
}
