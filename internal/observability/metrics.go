package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	tcpConnections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "calcwire",
			Subsystem: "tcp",
			Name:      "connections_total",
			Help:      "Total accepted TCP connections.",
		},
	)
	tcpActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "calcwire",
			Subsystem: "tcp",
			Name:      "active_connections",
			Help:      "Currently open TCP connections.",
		},
	)
	tcpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcwire",
			Subsystem: "tcp",
			Name:      "requests_total",
			Help:      "Decoded client requests by message kind.",
		},
		[]string{"kind"},
	)
	tcpResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcwire",
			Subsystem: "tcp",
			Name:      "responses_total",
			Help:      "Responses written by message kind.",
		},
		[]string{"kind"},
	)
	tcpDecodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "calcwire",
			Subsystem: "tcp",
			Name:      "decode_failures_total",
			Help:      "Client payloads that failed to decode and were dropped.",
		},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calcwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			tcpConnections,
			tcpActiveConnections,
			tcpRequests,
			tcpResponses,
			tcpDecodeFailures,
			httpDuration,
			httpRequests,
		)
	})
}

func RecordConnectionOpened() {
	RegisterMetrics()
	tcpConnections.Inc()
	tcpActiveConnections.Inc()
}

func RecordConnectionClosed() {
	RegisterMetrics()
	tcpActiveConnections.Dec()
}

func RecordRequest(kind string) {
	RegisterMetrics()
	tcpRequests.WithLabelValues(kind).Inc()
}

func RecordResponse(kind string) {
	RegisterMetrics()
	tcpResponses.WithLabelValues(kind).Inc()
}

func RecordDecodeFailure() {
	RegisterMetrics()
	tcpDecodeFailures.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
