package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of consuming one record.
const (
	outcomeHandled      = "handled"
	outcomeHandlerError = "handler_error"
	outcomeDecodeError  = "decode_error"
)

var (
	eventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "topform",
		Subsystem: "consumer",
		Name:      "events_total",
		Help:      "Consumed records by topic, event type and outcome.",
	}, []string{"topic", "event_type", "outcome"})

	handleDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "topform",
		Subsystem: "consumer",
		Name:      "handle_duration_seconds",
		Help:      "Time spent in the event handler per topic.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"topic"})

	auditRowsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "topform",
		Subsystem: "audit",
		Name:      "rows_total",
		Help:      "Audit log writes split into stored and duplicate records.",
	}, []string{"result"})

	lastEventGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "topform",
		Subsystem: "consumer",
		Name:      "last_event_timestamp_seconds",
		Help:      "Kafka timestamp of the newest handled record per topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(eventsCounter, handleDuration, auditRowsCounter, lastEventGauge)
}

func recordOutcome(msg Message, outcome string, elapsed time.Duration) {
	eventsCounter.WithLabelValues(msg.Topic, msg.EventType, outcome).Inc()
	handleDuration.WithLabelValues(msg.Topic).Observe(elapsed.Seconds())
	if outcome == outcomeHandled && !msg.Timestamp.IsZero() {
		lastEventGauge.WithLabelValues(msg.Topic).Set(float64(msg.Timestamp.Unix()))
	}
}

func recordDecodeError(topic string) {
	eventsCounter.WithLabelValues(topic, "", outcomeDecodeError).Inc()
}

func recordAuditRow(stored bool) {
	result := "duplicate"
	if stored {
		result = "stored"
	}
	auditRowsCounter.WithLabelValues(result).Inc()
}
