package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arplace",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"server", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arplace",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"server", "method", "path", "status"},
	)
	sessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arplace",
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session lifecycle transitions by target state.",
		},
		[]string{"state"},
	)
	frames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arplace",
			Subsystem: "tracking",
			Name:      "frames_total",
			Help:      "Frame ticks by hit-test outcome.",
		},
		[]string{"outcome"},
	)
	placements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arplace",
			Subsystem: "placement",
			Name:      "inputs_total",
			Help:      "Placement inputs by outcome.",
		},
		[]string{"outcome"},
	)
	spaceAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arplace",
			Subsystem: "tracking",
			Name:      "reference_space_attempts_total",
			Help:      "Reference space requests by kind and result.",
		},
		[]string{"kind", "success"},
	)
	setupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arplace",
			Subsystem: "tracking",
			Name:      "setup_duration_seconds",
			Help:      "Duration of session setup steps in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"step", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			sessionTransitions,
			frames,
			placements,
			spaceAttempts,
			setupDuration,
		)
	})
}

func RecordHTTPRequest(server, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(server, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(server, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordSessionTransition(state string) {
	RegisterMetrics()
	sessionTransitions.WithLabelValues(state).Inc()
}

func RecordFrame(outcome string) {
	RegisterMetrics()
	frames.WithLabelValues(outcome).Inc()
}

func RecordPlacement(outcome string) {
	RegisterMetrics()
	placements.WithLabelValues(outcome).Inc()
}

func RecordSpaceAttempt(kind string, success bool) {
	RegisterMetrics()
	spaceAttempts.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

func RecordSetup(step string, duration time.Duration, success bool) {
	RegisterMetrics()
	setupDuration.WithLabelValues(step, strconv.FormatBool(success)).Observe(duration.Seconds())
}
