package consumer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drgym",
		Subsystem: "consumer",
		Name:      "messages_processed_total",
		Help:      "Number of Kafka messages processed by the enrichment consumer.",
	}, []string{"topic", "event_type"})

	refreshedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "drgym",
		Subsystem: "consumer",
		Name:      "activity_names_refreshed_total",
		Help:      "Number of activities whose denormalized exercise name was rewritten.",
	})
)

func init() {
	prometheus.MustRegister(processedCounter, refreshedCounter)
}

// RecordProcessed updates counters for successfully handled messages.
func RecordProcessed(msg Message) {
	processedCounter.WithLabelValues(msg.Topic, msg.Headers["event_type"]).Inc()
}

// RecordRefreshed counts activities touched by a rename refresh.
func RecordRefreshed(count int64) {
	if count > 0 {
		refreshedCounter.Add(float64(count))
	}
}
