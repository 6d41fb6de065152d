// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes.
const (
	OutcomeSuccess            = "success"
	OutcomeNoResult           = "no_result"
	OutcomeConfigurationError = "configuration_error"
	OutcomeInternalError      = "internal_error"
)

var (
	WolframQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wolfram_alpha_queries_total",
			Help: "Total number of Wolfram Alpha queries by outcome",
		},
		[]string{"outcome"},
	)

	WolframQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wolfram_alpha_query_duration_seconds",
			Help:    "Duration of Wolfram Alpha round trips in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_tool_calls_total",
			Help: "Total number of MCP tool calls by tool and status",
		},
		[]string{"tool", "status"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
