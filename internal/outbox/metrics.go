package outbox

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Publish outcomes.
const (
	outcomeDelivered    = "delivered"
	outcomeDeadLettered = "dead_lettered"
)

// DLQ outcomes.
const (
	outcomeRequeued       = "requeued"
	outcomeQuarantined    = "quarantined"
	outcomeRetryScheduled = "retry_scheduled"
)

var (
	publishedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "outbox",
		Name:      "events_total",
		Help:      "Outbox events handled by the dispatcher, by event type and outcome.",
	}, []string{"event_type", "outcome"})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "habitkick",
		Subsystem: "outbox",
		Name:      "batch_duration_seconds",
		Help:      "Time to claim, publish and mark one outbox batch.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	schemaLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "outbox",
		Name:      "schema_lookups_total",
		Help:      "Schema registry round trips made on schema id cache misses.",
	})

	dlqOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "dlq",
		Name:      "entries_total",
		Help:      "Dead letter entries handled by the DLQ manager, by event type and outcome.",
	}, []string{"event_type", "outcome"})

	dlqPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habitkick",
		Subsystem: "dlq",
		Name:      "pending_entries",
		Help:      "Dead letter entries not yet quarantined.",
	})
)

func init() {
	prometheus.MustRegister(publishedEvents, batchDuration, schemaLookups, dlqOutcomes, dlqPending)
}

func recordPublished(messages []Message, outcome string) {
	for _, msg := range messages {
		publishedEvents.WithLabelValues(msg.EventType, outcome).Inc()
	}
}

func recordDLQ(entry dlqEntry, outcome string) {
	dlqOutcomes.WithLabelValues(entry.EventType, outcome).Inc()
}

// refreshPending is best effort; a failed count leaves the previous value.
func refreshPending(ctx context.Context, pool *pgxpool.Pool) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_dlq WHERE quarantined_at IS NULL`).Scan(&count); err == nil {
		dlqPending.Set(float64(count))
	}
}
