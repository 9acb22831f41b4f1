package workoutlog

import "github.com/prometheus/client_golang/prometheus"

var parseFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "topform",
	Subsystem: "workoutlog",
	Name:      "parse_failures_total",
	Help:      "Number of stored workout payloads discarded because they could not be decoded.",
})

func init() {
	prometheus.MustRegister(parseFailureCounter)
}

func recordParseFailure() {
	parseFailureCounter.Inc()
}
