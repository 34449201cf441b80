package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
	db "github.com/oppradar/opportunity-radar/internal/storage"
)

type fakeActivityStore struct {
	sample db.ActivitySample
	err    error
}

func (f *fakeActivityStore) GetSubredditActivity(_ context.Context, _ string) (db.ActivitySample, error) {
	return f.sample, f.err
}

func TestStoredActivitySource_PostsPerDay(t *testing.T) {
	nop := zerolog.Nop()

	t.Run("fresh_sample", func(t *testing.T) {
		source := &storedActivitySource{
			store: &fakeActivityStore{sample: db.ActivitySample{
				Subreddit:   "SideProject",
				PostsPerDay: 42,
				SampledAt:   time.Now(),
			}},
			ttl:    6 * time.Hour,
			logger: &nop,
		}

		got, err := source.PostsPerDay(context.Background(), "SideProject")
		require.NoError(t, err)
		assert.InDelta(t, 42, got, 1e-9)
	})

	t.Run("missing_sample_scores_zero", func(t *testing.T) {
		source := &storedActivitySource{
			store:  &fakeActivityStore{err: apperrors.ErrActivitySampleNotFound},
			logger: &nop,
		}

		got, err := source.PostsPerDay(context.Background(), "unknown")
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("stale_sample_still_served", func(t *testing.T) {
		source := &storedActivitySource{
			store: &fakeActivityStore{sample: db.ActivitySample{
				Subreddit:   "SideProject",
				PostsPerDay: 7,
				SampledAt:   time.Now().Add(-48 * time.Hour),
			}},
			ttl:    6 * time.Hour,
			logger: &nop,
		}

		got, err := source.PostsPerDay(context.Background(), "SideProject")
		require.NoError(t, err)
		assert.InDelta(t, 7, got, 1e-9)
	})

	t.Run("store_error_propagates", func(t *testing.T) {
		wantErr := errors.New("connection reset")
		source := &storedActivitySource{
			store:  &fakeActivityStore{err: wantErr},
			logger: &nop,
		}

		_, err := source.PostsPerDay(context.Background(), "SideProject")
		require.ErrorIs(t, err, wantErr)
	})
}
