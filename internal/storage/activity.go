package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
)

// ActivitySample is one posts-per-day measurement for a subreddit.
type ActivitySample struct {
	Subreddit   string
	PostsPerDay float64
	SampledAt   time.Time
}

// UpsertSubredditActivity records the latest posts-per-day measurement.
func (db *DB) UpsertSubredditActivity(ctx context.Context, subreddit string, postsPerDay float64) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO subreddit_activity (subreddit, posts_per_day, sampled_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (subreddit) DO UPDATE SET
			posts_per_day = EXCLUDED.posts_per_day,
			sampled_at = EXCLUDED.sampled_at
	`, subreddit, toFloat4(postsPerDay)); err != nil {
		return fmt.Errorf("upsert subreddit activity: %w", err)
	}

	return nil
}

// GetSubredditActivity returns the most recent measurement for a subreddit.
func (db *DB) GetSubredditActivity(ctx context.Context, subreddit string) (ActivitySample, error) {
	var (
		sample  ActivitySample
		posts   pgtype.Float4
		sampled pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT subreddit, posts_per_day, sampled_at
		FROM subreddit_activity
		WHERE subreddit = $1
	`, subreddit).Scan(&sample.Subreddit, &posts, &sampled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ActivitySample{}, fmt.Errorf("subreddit %s: %w", subreddit, apperrors.ErrActivitySampleNotFound)
		}

		return ActivitySample{}, fmt.Errorf("get subreddit activity: %w", err)
	}

	sample.PostsPerDay = fromFloat4(posts)
	sample.SampledAt = fromTimestamptz(sampled)

	return sample, nil
}
