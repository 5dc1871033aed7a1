package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costumedesk",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Calls issued to the costume API, by method and status code (0 = no response).",
		},
		[]string{"method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "costumedesk",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the costume API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costumedesk",
			Subsystem: "api_client",
			Name:      "retries_total",
			Help:      "Retry waits scheduled after transient failures.",
		},
		[]string{"method"},
	)
)

func observe(method string, status int, start time.Time) {
	requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
