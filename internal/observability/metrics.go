package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	workoutsRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "guerreros",
		Subsystem: "ledger",
		Name:      "workouts_registered_total",
		Help:      "Workouts committed to the ledger.",
	})
	mutationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guerreros",
		Subsystem: "ledger",
		Name:      "mutations_rejected_total",
		Help:      "Mutations rejected before persistence, by reason.",
	}, []string{"reason"})
	persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "guerreros",
		Subsystem: "persistence",
		Name:      "persist_failures_total",
		Help:      "Mutations that failed to durably apply and were rolled back.",
	})
)

func init() {
	prometheus.MustRegister(workoutsRegistered, mutationsRejected, persistFailures)
}

// RecordWorkoutRegistered bumps the committed-workout counter.
func RecordWorkoutRegistered() {
	workoutsRegistered.Inc()
}

// RecordMutationRejected counts a locally rejected mutation.
func RecordMutationRejected(reason string) {
	mutationsRejected.WithLabelValues(reason).Inc()
}

// RecordPersistFailure counts a rolled-back durable write.
func RecordPersistFailure() {
	persistFailures.Inc()
}
