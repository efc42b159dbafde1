package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	calcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcnet",
			Subsystem: "calc",
			Name:      "requests_total",
			Help:      "Calculator requests handled, by transport, operation and outcome.",
		},
		[]string{"transport", "operation", "outcome"},
	)
	calcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calcnet",
			Subsystem: "calc",
			Name:      "request_duration_seconds",
			Help:      "Calculator request handling duration in seconds.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"transport", "operation"},
	)
	frameErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcnet",
			Subsystem: "wire",
			Name:      "frame_errors_total",
			Help:      "Received records whose byte count did not match the layout size.",
		},
		[]string{"transport", "record"},
	)
	sessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcnet",
			Subsystem: "transport",
			Name:      "sessions_total",
			Help:      "Stream sessions accepted by the server.",
		},
		[]string{"transport"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calcnet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calcnet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(calcRequests, calcDuration, frameErrors, sessions, httpRequests, httpDuration)
	})
}

func RecordRequest(transport, operation, outcome string, duration time.Duration) {
	RegisterMetrics()
	calcRequests.WithLabelValues(transport, operation, outcome).Inc()
	calcDuration.WithLabelValues(transport, operation).Observe(duration.Seconds())
}

func RecordFrameError(transport, record string) {
	RegisterMetrics()
	frameErrors.WithLabelValues(transport, record).Inc()
}

func RecordSession(transport string) {
	RegisterMetrics()
	sessions.WithLabelValues(transport).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
