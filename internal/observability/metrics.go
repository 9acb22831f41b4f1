// Package observability holds the process-wide Prometheus collectors.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "topform",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests served, by route template, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "topform",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	leaderboardDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "topform",
		Subsystem: "leaderboard",
		Name:      "build_duration_seconds",
		Help:      "Time spent loading and aggregating the leaderboard.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})

	leaderboardRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "topform",
		Subsystem: "leaderboard",
		Name:      "rows",
		Help:      "Number of rows in the most recently built leaderboard.",
	})

	workoutsServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "topform",
		Subsystem: "workouts",
		Name:      "served_total",
		Help:      "Number of parsed workouts returned by date lookups.",
	})

	lastWorkoutRecorded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "topform",
		Subsystem: "workouts",
		Name:      "last_recorded_timestamp_seconds",
		Help:      "Unix timestamp of the most recently recorded workout.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, leaderboardDuration, leaderboardRows, workoutsServed, lastWorkoutRecorded)
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveLeaderboard records a completed leaderboard build.
func ObserveLeaderboard(elapsed time.Duration, rows int) {
	leaderboardDuration.Observe(elapsed.Seconds())
	leaderboardRows.Set(float64(rows))
}

// RecordWorkoutsServed counts workouts returned to callers.
func RecordWorkoutsServed(n int) {
	if n <= 0 {
		return
	}
	workoutsServed.Add(float64(n))
}

// RecordWorkoutRecorded updates the recording watermark gauge.
func RecordWorkoutRecorded(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWorkoutRecorded.Set(float64(ts.Unix()))
}
