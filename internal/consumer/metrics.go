package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Message outcomes.
const (
	outcomeProcessed    = "processed"
	outcomeHandlerError = "handler_error"
	outcomeDecodeError  = "decode_error"
)

var (
	messagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "consumer",
		Name:      "messages_total",
		Help:      "Kafka messages read by the consumer, by topic, event type and outcome.",
	}, []string{"topic", "event_type", "outcome"})

	eventLag = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "habitkick",
		Subsystem: "consumer",
		Name:      "event_lag_seconds",
		Help:      "Delay between a message's Kafka timestamp and its successful handling.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"topic"})

	emailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habitkick",
		Subsystem: "consumer",
		Name:      "emails_total",
		Help:      "Notification emails by event type and outcome (sent, skipped, failed).",
	}, []string{"event_type", "outcome"})
)

func init() {
	prometheus.MustRegister(messagesTotal, eventLag, emailsTotal)
}

func recordProcessed(msg Message) {
	messagesTotal.WithLabelValues(msg.Topic, msg.EventType, outcomeProcessed).Inc()
	if !msg.Timestamp.IsZero() {
		eventLag.WithLabelValues(msg.Topic).Observe(time.Since(msg.Timestamp).Seconds())
	}
}

func recordHandlerError(msg Message) {
	messagesTotal.WithLabelValues(msg.Topic, msg.EventType, outcomeHandlerError).Inc()
}

// Undecodable messages have no trustworthy event type.
func recordDecodeError(topic string) {
	messagesTotal.WithLabelValues(topic, "unknown", outcomeDecodeError).Inc()
}

func recordEmail(eventType, outcome string) {
	emailsTotal.WithLabelValues(eventType, outcome).Inc()
}
