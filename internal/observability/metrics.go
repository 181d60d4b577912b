// Prometheus instrumentation for repository operations.
//
// Labels are kept bounded:
//
//   - store:   the store name (channels, commands, aliases, ...)
//   - op:      the operation name (create, get, update_count, ...)
//   - outcome: ok, not_found, conflict, validation, database or internal
//
// Channel tokens and user names are never used as labels. All collectors are
// safe for concurrent use.

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeValidation = "validation"
	OutcomeDatabase   = "database"
	OutcomeInternal   = "internal"
)

var (
	// repoOps counts repository operations by store, operation and outcome.
	repoOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_operations_total",
			Help: "Total number of repository operations.",
		},
		[]string{"store", "op", "outcome"},
	)

	// repoLat records operation duration in seconds, lock wait included.
	// Outcome is omitted to keep histogram cardinality lower.
	repoLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_operation_duration_seconds",
			Help:    "Duration of repository operations in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "op"},
	)

	// lockWait records how long operations waited for the repository lock.
	lockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "repository_lock_wait_seconds",
			Help:    "Time spent waiting for the repository lock in seconds.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)
)

func init() {
	prometheus.MustRegister(repoOps, repoLat, lockWait)
}

// RecordOperation counts one finished operation and observes its duration.
func RecordOperation(store, op, outcome string, d time.Duration) {
	repoOps.WithLabelValues(store, op, outcome).Inc()
	repoLat.WithLabelValues(store, op).Observe(d.Seconds())
}

// ObserveLockWait records the time spent acquiring the repository lock.
func ObserveLockWait(d time.Duration) {
	lockWait.Observe(d.Seconds())
}
