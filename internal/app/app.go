// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run the
// operational modes:
//
//   - Collector mode: polls subreddits and stores new candidates
//   - Worker mode: analyzes, deduplicates and scores claimed candidates
//   - Serve mode: health and metrics endpoints only
//
// Each mode can be run independently or combined based on deployment needs.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/dedup"
	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
	"github.com/oppradar/opportunity-radar/internal/core/llm"
	"github.com/oppradar/opportunity-radar/internal/core/trust"
	"github.com/oppradar/opportunity-radar/internal/ingest/reddit"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
	"github.com/oppradar/opportunity-radar/internal/platform/observability"
	"github.com/oppradar/opportunity-radar/internal/process/pipeline"
	db "github.com/oppradar/opportunity-radar/internal/storage"
)

const trustHistoryCapacity = 256

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server. It blocks
// until the context is canceled.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database.Pool, a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunCollector runs the Reddit collection loop.
func (a *App) RunCollector(ctx context.Context) error {
	client := reddit.NewClient(a.cfg, a.logger)
	collector := reddit.NewCollector(a.cfg, client, a.database, a.logger)

	return collector.Run(ctx)
}

// RunWorker runs the processing pipeline.
func (a *App) RunWorker(ctx context.Context) error {
	llmClient := llm.New(a.cfg, a.logger)
	dedupEngine := dedup.NewEngine(a.database, a.logger)

	activity := &storedActivitySource{
		store:  a.database,
		ttl:    a.cfg.ActivitySampleTTL,
		logger: a.logger,
	}

	validator, err := trust.NewValidator(a.weights(), activity, a.logger,
		trust.WithActivityThreshold(a.cfg.ActivityThreshold),
		trust.WithHistory(trust.NewHistory(trustHistoryCapacity)),
	)
	if err != nil {
		return fmt.Errorf("trust validator init: %w", err)
	}

	return pipeline.New(a.cfg, a.database, llmClient, dedupEngine, validator, a.logger).Run(ctx)
}

func (a *App) weights() trust.Weights {
	return trust.Weights{
		CommunityActivity: a.cfg.WeightCommunityActivity,
		PostEngagement:    a.cfg.WeightPostEngagement,
		TrendVelocity:     a.cfg.WeightTrendVelocity,
		ProblemValidity:   a.cfg.WeightProblemValidity,
		DiscussionQuality: a.cfg.WeightDiscussionQuality,
		AIConfidence:      a.cfg.WeightAIConfidence,
	}
}

type activityStore interface {
	GetSubredditActivity(ctx context.Context, subreddit string) (db.ActivitySample, error)
}

// storedActivitySource serves trust scoring from the persisted subreddit
// activity samples. A subreddit with no sample yet scores zero activity;
// stale samples are served with a warning rather than failing the candidate,
// since the collector refreshes them on its own schedule.
type storedActivitySource struct {
	store  activityStore
	ttl    time.Duration
	logger *zerolog.Logger
}

func (s *storedActivitySource) PostsPerDay(ctx context.Context, subreddit string) (float64, error) {
	sample, err := s.store.GetSubredditActivity(ctx, subreddit)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrActivitySampleNotFound) {
			return 0, nil
		}

		return 0, err
	}

	if s.ttl > 0 && time.Since(sample.SampledAt) > s.ttl {
		s.logger.Warn().
			Str("subreddit", subreddit).
			Time("sampled_at", sample.SampledAt).
			Msg("serving stale activity sample")
	}

	return sample.PostsPerDay, nil
}

var _ trust.ActivitySource = (*storedActivitySource)(nil)
