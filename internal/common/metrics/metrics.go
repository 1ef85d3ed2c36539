// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

// Match domain series.
var (
	MatchesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_generated_total",
			Help: "Matches upserted by generation runs",
		},
		[]string{"entity_type"},
	)

	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of pair scores, qualifying or not",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	MatchGenerationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_generation_runs_total",
			Help: "Generation runs by outcome",
		},
		[]string{"entity_type", "outcome"},
	)

	MatchOverlayMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_overlay_mutations_total",
			Help: "Save and dismiss calls against viewer overlays",
		},
		[]string{"action", "changed"},
	)

	MatchInterest = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_interest_total",
			Help: "Interest and decline calls by side and resulting status",
		},
		[]string{"side", "result"},
	)

	ConnectionsDeduplicated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connections_deduplicated_total",
			Help: "Connection rows seen before (raw) and after (canonical) deduplication",
		},
		[]string{"stage"},
	)
)
