package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CandidatesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_candidates_ingested_total",
		Help: "The total number of ingested candidates",
	}, []string{"subreddit"})

	CollectorFetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_collector_fetch_requests_total",
		Help: "Total number of listing fetch requests to Reddit",
	}, []string{"subreddit", "status"})

	CandidateAgeSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radar_candidate_age_seconds",
		Help:    "Age of submissions at time of collection",
		Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800, 43200, 86400, 172800, 604800},
	}, []string{"subreddit"})

	ActivitySampled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "radar_subreddit_posts_per_day",
		Help: "Most recent posts-per-day measurement per subreddit",
	}, []string{"subreddit"})

	PipelineProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_pipeline_processed_total",
		Help: "The total number of candidates processed by the pipeline",
	}, []string{"status"})

	PipelineBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radar_pipeline_backlog_size",
		Help: "Number of unprocessed candidates in the database",
	})

	PipelineBatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radar_pipeline_batch_duration_seconds",
		Help:    "Duration in seconds to process a pipeline batch",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})

	DedupProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_dedup_processed_total",
		Help: "Total number of dedup decisions by result",
	}, []string{"result"})

	DedupLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radar_dedup_latency_seconds",
		Help:    "Latency of dedup candidate processing",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	TrustValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_trust_validations_total",
		Help: "Total number of trust validations by resulting level",
	}, []string{"level"})

	TrustDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radar_trust_degraded_total",
		Help: "Total number of validations degraded by collaborator failures",
	})

	TrustScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radar_trust_score",
		Help:    "Distribution of aggregate trust scores",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radar_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_llm_requests_total",
		Help: "Total number of LLM requests",
	}, []string{"model", "status"})
)
