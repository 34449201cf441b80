// Package reddit collects new submissions from configured subreddits through
// the public OAuth API and turns them into opportunity candidates.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIURL   = "https://oauth.reddit.com"

	requestTimeout  = 30 * time.Second
	maxResponseSize = 5 * 1024 * 1024

	// Refresh the token slightly before Reddit expires it.
	tokenExpirySlack = 1 * time.Minute

	maxFetchRetries    = 3
	retryInitialDelay  = 1 * time.Second
	minutesPerInterval = 60.0
)

// Client talks to the Reddit OAuth listing API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger

	clientID     string
	clientSecret string
	userAgent    string

	// Overridable in tests.
	tokenURL   string
	apiURL     string
	retryDelay time.Duration

	mu           sync.Mutex
	accessToken  string
	tokenExpires time.Time
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	rps := float64(cfg.RedditRequestsPerMin) / minutesPerInterval

	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		rateLimiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:       logger,
		clientID:     cfg.RedditClientID,
		clientSecret: cfg.RedditClientSecret,
		userAgent:    cfg.RedditUserAgent,
		tokenURL:     defaultTokenURL,
		apiURL:       defaultAPIURL,
		retryDelay:   retryInitialDelay,
	}
}

// FetchNew returns up to limit newest submissions in a subreddit, newest
// first, stopping at the before fullname when set.
func (c *Client) FetchNew(ctx context.Context, subreddit, before string, limit int) ([]Submission, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")

	if before != "" {
		query.Set("before", before)
	}

	endpoint := fmt.Sprintf("%s/r/%s/new?%s", c.apiURL, url.PathEscape(subreddit), query.Encode())

	var listing Listing

	operation := func() error {
		return c.fetchListing(ctx, endpoint, &listing)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.retryDelay),
	), maxFetchRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	submissions := make([]Submission, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		submissions = append(submissions, child.Data)
	}

	return submissions, nil
}

func (c *Client) fetchListing(ctx context.Context, endpoint string, listing *Listing) error {
	token, err := c.token(ctx)
	if err != nil {
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build listing request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn().Str("endpoint", endpoint).Msg("reddit rate limit hit")

		return fmt.Errorf("%w: http 429", apperrors.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized:
		// Token may have been revoked early; drop it and retry.
		c.invalidateToken()

		return fmt.Errorf("%w: http 401", apperrors.ErrUnexpectedStatus)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d", apperrors.ErrUnexpectedStatus, resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("%w: http %d", apperrors.ErrUnexpectedStatus, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read listing body: %w", err)
	}

	if err := json.Unmarshal(body, listing); err != nil {
		return backoff.Permanent(fmt.Errorf("decode listing: %w", err))
	}

	return nil
}

// token returns a valid app-only access token, requesting a fresh one when
// the cached token is missing or close to expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpires.Add(-tokenExpirySlack)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint: %w: http %d", apperrors.ErrUnexpectedStatus, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	if token.AccessToken == "" {
		return "", apperrors.ErrEmptyResponse
	}

	c.accessToken = token.AccessToken
	c.tokenExpires = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	return c.accessToken, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
}
