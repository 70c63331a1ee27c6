// Package metrics holds the Prometheus collectors for snippet and process
// executions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skillet"

var (
	restSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rest_steps_total",
		Help:      "REST snippet executions by operation and result.",
	}, []string{"operation", "result"})

	restStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rest_step_duration_seconds",
		Help:      "Duration of REST snippet calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	processRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "process_runs_total",
		Help:      "Local command invocations by execution mode.",
	}, []string{"mode"})

	processExitCodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "process_exit_codes_total",
		Help:      "Exit codes of finished local commands.",
	}, []string{"mode", "code"})

	processOutputLines = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "process_output_lines_total",
		Help:      "Output lines streamed from local commands.",
	})
)

// ObserveRESTStep records one REST call.
func ObserveRESTStep(operation, result string, d time.Duration) {
	restSteps.WithLabelValues(operation, result).Inc()
	restStepDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveProcessStart records a command launch.
func ObserveProcessStart(mode string) {
	processRuns.WithLabelValues(mode).Inc()
}

// ObserveProcessExit records a command's exit code.
func ObserveProcessExit(mode string, code int) {
	processExitCodes.WithLabelValues(mode, strconv.Itoa(code)).Inc()
}

// ObserveOutputLine records one streamed output line.
func ObserveOutputLine() {
	processOutputLines.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
