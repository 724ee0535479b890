package dockerexec

import "github.com/prometheus/client_golang/prometheus"

// Metric label values for execution status.
const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusTimeout   = "timeout"
)

var (
	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dockerexec_executions_total",
			Help: "Total number of container executions by final status.",
		},
		[]string{"status"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dockerexec_run_seconds",
			Help:    "Duration of the run phase (start to log collection), in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	cleanupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dockerexec_cleanup_seconds",
			Help:    "Duration of container stop and forced removal, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	activeContainers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dockerexec_active_containers",
			Help: "Number of containers currently owned by in-flight executions.",
		},
	)
)

func init() {
	prometheus.MustRegister(executionsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(cleanupDuration)
	prometheus.MustRegister(activeContainers)

	// Pre-initialize counter label combinations so they appear in /metrics
	// with value 0 from startup, rather than only after first observation.
	executionsTotal.WithLabelValues(statusCompleted)
	executionsTotal.WithLabelValues(statusFailed)
	executionsTotal.WithLabelValues(statusTimeout)
}
