package reddit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
)

var errFetch = errors.New("fetch failed")

type fakeFetcher struct {
	bySubreddit map[string][]Submission
	failFor     string
	gotBefore   map[string]string
}

func (f *fakeFetcher) FetchNew(_ context.Context, subreddit, before string, _ int) ([]Submission, error) {
	if f.gotBefore == nil {
		f.gotBefore = make(map[string]string)
	}

	f.gotBefore[subreddit] = before

	if subreddit == f.failFor {
		return nil, errFetch
	}

	return f.bySubreddit[subreddit], nil
}

type fakeRepo struct {
	saved    []*domain.Candidate
	seen     map[string]bool
	cursors  map[string]string
	activity map[string]float64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		seen:     make(map[string]bool),
		cursors:  make(map[string]string),
		activity: make(map[string]float64),
	}
}

func (r *fakeRepo) SaveCandidate(_ context.Context, candidate *domain.Candidate) (bool, error) {
	if r.seen[candidate.ExternalID] {
		return false, nil
	}

	r.seen[candidate.ExternalID] = true
	r.saved = append(r.saved, candidate)

	return true, nil
}

func (r *fakeRepo) GetSubredditCursor(_ context.Context, subreddit string) (string, error) {
	return r.cursors[subreddit], nil
}

func (r *fakeRepo) SetSubredditCursor(_ context.Context, subreddit, fullname string) error {
	r.cursors[subreddit] = fullname

	return nil
}

func (r *fakeRepo) UpsertSubredditActivity(_ context.Context, subreddit string, postsPerDay float64) error {
	r.activity[subreddit] = postsPerDay

	return nil
}

func newTestCollector(fetcher Fetcher, repo Repository, subreddits ...string) *Collector {
	nop := zerolog.Nop()

	return NewCollector(&config.Config{
		Subreddits:       subreddits,
		RedditFetchLimit: 100,
	}, fetcher, repo, &nop)
}

func TestCollectAll_SavesAndAdvancesCursor(t *testing.T) {
	fetcher := &fakeFetcher{bySubreddit: map[string][]Submission{
		"SideProject": {
			{Name: "t3_c", Title: "newest", CreatedUTC: 1700000200},
			{Name: "t3_b", Title: "middle", CreatedUTC: 1700000100},
			{Name: "t3_a", Title: "oldest", CreatedUTC: 1700000000},
		},
	}}
	repo := newFakeRepo()
	repo.cursors["SideProject"] = "t3_0"

	c := newTestCollector(fetcher, repo, "SideProject")

	if err := c.collectAll(context.Background()); err != nil {
		t.Fatalf("collectAll() error = %v", err)
	}

	if fetcher.gotBefore["SideProject"] != "t3_0" {
		t.Errorf("fetch before = %q, want stored cursor t3_0", fetcher.gotBefore["SideProject"])
	}

	if len(repo.saved) != 3 {
		t.Fatalf("saved = %d candidates, want 3", len(repo.saved))
	}

	if repo.saved[0].ExternalID != "t3_c" || repo.saved[0].Subreddit != "SideProject" {
		t.Errorf("first saved = %+v", repo.saved[0])
	}

	if repo.cursors["SideProject"] != "t3_c" {
		t.Errorf("cursor = %q, want advanced to t3_c", repo.cursors["SideProject"])
	}
}

func TestCollectAll_DuplicatesAreNoOps(t *testing.T) {
	fetcher := &fakeFetcher{bySubreddit: map[string][]Submission{
		"SideProject": {{Name: "t3_a", CreatedUTC: 1700000000}},
	}}
	repo := newFakeRepo()

	c := newTestCollector(fetcher, repo, "SideProject")

	for i := 0; i < 2; i++ {
		if err := c.collectAll(context.Background()); err != nil {
			t.Fatalf("collectAll() error = %v", err)
		}
	}

	if len(repo.saved) != 1 {
		t.Errorf("saved = %d candidates, want 1 across repeat passes", len(repo.saved))
	}
}

func TestCollectAll_FailingSubredditDoesNotBlockOthers(t *testing.T) {
	fetcher := &fakeFetcher{
		bySubreddit: map[string][]Submission{
			"healthy": {{Name: "t3_a", CreatedUTC: 1700000000}},
		},
		failFor: "broken",
	}
	repo := newFakeRepo()

	c := newTestCollector(fetcher, repo, "broken", "healthy")

	if err := c.collectAll(context.Background()); err != nil {
		t.Fatalf("collectAll() error = %v", err)
	}

	if len(repo.saved) != 1 {
		t.Errorf("saved = %d candidates, want 1 from the healthy subreddit", len(repo.saved))
	}
}

func TestEstimatePostsPerDay(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		if got := estimatePostsPerDay(nil, now); got != 0 {
			t.Errorf("estimate = %v, want 0", got)
		}
	})

	t.Run("twelve_posts_in_a_day", func(t *testing.T) {
		oldest := now.Add(-24 * time.Hour)
		submissions := make([]Submission, 12)

		for i := range submissions {
			submissions[i] = Submission{CreatedUTC: float64(oldest.Unix())}
		}

		if got := estimatePostsPerDay(submissions, now); got != 12 {
			t.Errorf("estimate = %v, want 12", got)
		}
	})

	t.Run("burst_clamped_to_one_hour", func(t *testing.T) {
		submissions := []Submission{
			{CreatedUTC: float64(now.Add(-time.Minute).Unix())},
			{CreatedUTC: float64(now.Add(-2 * time.Minute).Unix())},
		}

		// 2 posts over a clamped 1h span extrapolates to 48/day.
		if got := estimatePostsPerDay(submissions, now); got != 48 {
			t.Errorf("estimate = %v, want 48", got)
		}
	})
}

func TestSampleActivity(t *testing.T) {
	now := time.Now()
	fetcher := &fakeFetcher{bySubreddit: map[string][]Submission{
		"SideProject": {
			{Name: "t3_b", CreatedUTC: float64(now.Add(-time.Hour).Unix())},
			{Name: "t3_a", CreatedUTC: float64(now.Add(-24 * time.Hour).Unix())},
		},
	}}
	repo := newFakeRepo()

	c := newTestCollector(fetcher, repo, "SideProject")
	c.sampleActivity(context.Background())

	if got := repo.activity["SideProject"]; got < 1.9 || got > 2.1 {
		t.Errorf("posts per day = %v, want about 2", got)
	}

	if fetcher.gotBefore["SideProject"] != "" {
		t.Errorf("activity sample used cursor %q, want full page", fetcher.gotBefore["SideProject"])
	}
}
