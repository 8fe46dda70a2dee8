// Package observability holds process-wide Prometheus collectors shared across packages.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	weightLoggedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habitkick",
		Subsystem: "persistence",
		Name:      "last_weight_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recent weight entry persisted to Postgres.",
	})
	eventsRecordedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "persistence",
		Name:      "outbox_events_recorded_total",
		Help:      "Number of domain events written to the outbox, labeled by event type.",
	}, []string{"event_type"})
	competitionsFinalizedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "scheduler",
		Name:      "competitions_finalized_total",
		Help:      "Number of competitions finalized by the scheduler.",
	})
	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "habitkick",
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled job runs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"job", "outcome"})
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Outbound HTTP requests to third-party APIs, labeled by service and outcome.",
	}, []string{"service", "outcome"})
)

func init() {
	prometheus.MustRegister(weightLoggedGauge, eventsRecordedCounter, competitionsFinalizedCounter, jobDuration, upstreamRequests)
}

// RecordWeightLogged updates the weight watermark gauge.
func RecordWeightLogged(ts time.Time) {
	if ts.IsZero() {
		return
	}
	weightLoggedGauge.Set(float64(ts.Unix()))
}

// RecordEventRecorded counts an outbox insert.
func RecordEventRecorded(eventType string) {
	eventsRecordedCounter.WithLabelValues(eventType).Inc()
}

// RecordCompetitionsFinalized adds n finalized competitions.
func RecordCompetitionsFinalized(n int) {
	if n <= 0 {
		return
	}
	competitionsFinalizedCounter.Add(float64(n))
}

// ObserveJob records the duration of a scheduled job run.
func ObserveJob(job string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	jobDuration.WithLabelValues(job, outcome).Observe(time.Since(started).Seconds())
}

// RecordUpstream counts one outbound request attempt.
func RecordUpstream(service, outcome string) {
	upstreamRequests.WithLabelValues(service, outcome).Inc()
}
