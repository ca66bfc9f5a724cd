package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	postPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "drgym",
		Subsystem: "persistence",
		Name:      "last_post_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent post persisted to Postgres.",
	})
	unauthorizedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drgym",
		Subsystem: "auth",
		Name:      "unauthorized_requests_total",
		Help:      "Requests rejected by the access guard, by endpoint group.",
	}, []string{"endpoint"})
	enrichmentMissCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "drgym",
		Subsystem: "assembly",
		Name:      "dangling_exercise_refs_total",
		Help:      "Activities assembled with no matching exercise catalog entry.",
	})
)

func init() {
	prometheus.MustRegister(postPersistGauge, unauthorizedCounter, enrichmentMissCounter)
}

// RecordPostPersisted updates the persistence watermark gauge.
func RecordPostPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	postPersistGauge.Set(float64(ts.Unix()))
}

// RecordUnauthorized counts a guard rejection for the endpoint group.
func RecordUnauthorized(endpoint string) {
	unauthorizedCounter.WithLabelValues(endpoint).Inc()
}

// RecordDanglingExerciseRef counts an assembly that degraded on a missing
// catalog entry.
func RecordDanglingExerciseRef() {
	enrichmentMissCounter.Inc()
}
