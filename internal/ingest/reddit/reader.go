package reddit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
	"github.com/oppradar/opportunity-radar/internal/platform/observability"
	"github.com/oppradar/opportunity-radar/internal/platform/worker"
)

// Fetcher is the listing surface the collector needs from the API client.
type Fetcher interface {
	FetchNew(ctx context.Context, subreddit, before string, limit int) ([]Submission, error)
}

// Repository is the persistence surface the collector needs.
type Repository interface {
	SaveCandidate(ctx context.Context, candidate *domain.Candidate) (bool, error)
	GetSubredditCursor(ctx context.Context, subreddit string) (string, error)
	SetSubredditCursor(ctx context.Context, subreddit, fullname string) error
	UpsertSubredditActivity(ctx context.Context, subreddit string, postsPerDay float64) error
}

const (
	hoursPerDay = 24.0

	// Activity is estimated over at most this window of recent posts.
	minActivitySpan = time.Hour
)

// Collector polls subreddits for new submissions and keeps per-subreddit
// activity measurements fresh.
type Collector struct {
	cfg    *config.Config
	client Fetcher
	repo   Repository
	logger *zerolog.Logger
}

func NewCollector(cfg *config.Config, client Fetcher, repo Repository, logger *zerolog.Logger) *Collector {
	return &Collector{cfg: cfg, client: client, repo: repo, logger: logger}
}

// Run blocks collecting until the context is canceled.
func (c *Collector) Run(ctx context.Context) error {
	return worker.Loop(ctx, worker.Config{
		Name:         "reddit-collector",
		PollInterval: c.cfg.CollectorPollInterval,
		Process:      c.collectAll,
		PeriodicTasks: []worker.PeriodicTask{
			{
				Name:     "sample-activity",
				Interval: c.cfg.ActivitySampleTTL,
				Run:      c.sampleActivity,
			},
		},
		Logger: c.logger,
	})
}

// collectAll runs one collection pass over every configured subreddit.
// A failing subreddit does not block the others.
func (c *Collector) collectAll(ctx context.Context) error {
	for _, subreddit := range c.cfg.Subreddits {
		if err := c.collectSubreddit(ctx, subreddit); err != nil {
			if ctx.Err() != nil {
				return err
			}

			c.logger.Error().Err(err).Str("subreddit", subreddit).Msg("collection pass failed")
		}
	}

	return nil
}

func (c *Collector) collectSubreddit(ctx context.Context, subreddit string) error {
	cursor, err := c.repo.GetSubredditCursor(ctx, subreddit)
	if err != nil {
		return err
	}

	submissions, err := c.client.FetchNew(ctx, subreddit, cursor, c.cfg.RedditFetchLimit)
	if err != nil {
		observability.CollectorFetchRequests.WithLabelValues(subreddit, "error").Inc()

		return err
	}

	observability.CollectorFetchRequests.WithLabelValues(subreddit, "ok").Inc()

	if len(submissions) == 0 {
		return nil
	}

	saved := 0

	for _, submission := range submissions {
		inserted, err := c.repo.SaveCandidate(ctx, toCandidate(subreddit, submission))
		if err != nil {
			return fmt.Errorf("save candidate %s: %w", submission.Name, err)
		}

		if inserted {
			saved++

			observability.CandidatesIngested.WithLabelValues(subreddit).Inc()
			observability.CandidateAgeSeconds.WithLabelValues(subreddit).
				Observe(time.Since(postedAt(submission)).Seconds())
		}
	}

	// Listings come newest-first; the head is the next cursor.
	if err := c.repo.SetSubredditCursor(ctx, subreddit, submissions[0].Name); err != nil {
		return err
	}

	c.logger.Info().
		Str("subreddit", subreddit).
		Int("fetched", len(submissions)).
		Int("saved", saved).
		Msg("collection pass complete")

	return nil
}

// sampleActivity measures posts-per-day from a full page of newest posts,
// ignoring the cursor so the estimate covers a stable window.
func (c *Collector) sampleActivity(ctx context.Context) {
	for _, subreddit := range c.cfg.Subreddits {
		submissions, err := c.client.FetchNew(ctx, subreddit, "", c.cfg.RedditFetchLimit)
		if err != nil {
			c.logger.Error().Err(err).Str("subreddit", subreddit).Msg("activity sample fetch failed")

			continue
		}

		postsPerDay := estimatePostsPerDay(submissions, time.Now())

		if err := c.repo.UpsertSubredditActivity(ctx, subreddit, postsPerDay); err != nil {
			c.logger.Error().Err(err).Str("subreddit", subreddit).Msg("activity sample save failed")

			continue
		}

		observability.ActivitySampled.WithLabelValues(subreddit).Set(postsPerDay)
	}
}

// estimatePostsPerDay extrapolates a daily rate from the span between the
// newest and oldest post in the sample. Spans under an hour are clamped so a
// single burst does not report an absurd rate.
func estimatePostsPerDay(submissions []Submission, now time.Time) float64 {
	if len(submissions) == 0 {
		return 0
	}

	oldest := postedAt(submissions[len(submissions)-1])

	span := now.Sub(oldest)
	if span < minActivitySpan {
		span = minActivitySpan
	}

	return float64(len(submissions)) / (span.Hours() / hoursPerDay)
}

func toCandidate(subreddit string, submission Submission) *domain.Candidate {
	return &domain.Candidate{
		ExternalID:  submission.Name,
		Subreddit:   subreddit,
		Title:       submission.Title,
		Body:        submission.SelfText,
		Upvotes:     submission.Ups,
		NumComments: submission.NumComments,
		PostedAt:    postedAt(submission),
		Status:      domain.StatusNew,
	}
}

func postedAt(submission Submission) time.Time {
	return time.Unix(int64(submission.CreatedUTC), 0).UTC()
}
