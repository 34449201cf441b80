package trust

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	"github.com/oppradar/opportunity-radar/internal/platform/observability"
)

// ActivitySource is the activity-measurement collaborator: recent posting
// velocity for a community. A missing measurement should be reported as
// (0, nil); an error degrades the whole validation.
type ActivitySource interface {
	PostsPerDay(ctx context.Context, subreddit string) (float64, error)
}

// Degraded-result constants: when the activity collaborator fails, validation
// still produces a minimal-trust result instead of propagating the error.
const (
	degradedTrustScore       = 10.0
	defaultActivityThreshold = 25.0
)

// Result is the outcome of validating one candidate.
type Result struct {
	CandidateID string
	Indicators  domain.TrustIndicators
	Degraded    bool
}

// Validator converts raw candidate signals into TrustIndicators.
type Validator struct {
	weights           Weights
	activityThreshold float64
	activity          ActivitySource
	history           *History
	now               func() time.Time
	logger            *zerolog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithActivityThreshold overrides the activity gate threshold.
func WithActivityThreshold(threshold float64) Option {
	return func(v *Validator) { v.activityThreshold = threshold }
}

// WithHistory attaches a bounded validation history ring.
func WithHistory(h *History) Option {
	return func(v *Validator) { v.history = h }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// NewValidator validates the weight vector and returns a Validator.
// A malformed weight vector is a construction-time error.
func NewValidator(weights Weights, activity ActivitySource, logger *zerolog.Logger, opts ...Option) (*Validator, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("validate weights: %w", err)
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	v := &Validator{
		weights:           weights,
		activityThreshold: defaultActivityThreshold,
		activity:          activity,
		now:               time.Now,
		logger:            logger,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Validate computes TrustIndicators for one candidate. An activity-source
// failure degrades to a minimal-trust result rather than returning an error;
// the only error path is a construction-time invariant violation, which
// indicates a bug in the score formulas.
func (v *Validator) Validate(ctx context.Context, candidate *domain.Candidate) (Result, error) {
	postsPerDay, err := v.activity.PostsPerDay(ctx, candidate.Subreddit)
	if err != nil {
		v.logger.Warn().Err(err).
			Str("candidate_id", candidate.ID).
			Str("subreddit", candidate.Subreddit).
			Msg("activity lookup failed, degrading validation")
		observability.TrustDegraded.Inc()

		return v.degradedResult(candidate)
	}

	components := Components{
		CommunityActivity: CommunityActivityScore(postsPerDay),
		PostEngagement:    PostEngagementScore(candidate.Upvotes, candidate.NumComments),
		TrendVelocity:     TrendVelocityScore(candidate.Upvotes, candidate.NumComments, candidate.PostedAt, v.now()),
		ProblemValidity:   ProblemValidityScore(candidate),
		DiscussionQuality: DiscussionQualityScore(candidate.NumComments),
		AIConfidence:      AIConfidenceScore(candidate.AIAnalysis),
	}

	aggregate := v.weights.Aggregate(components)

	indicators, err := domain.NewTrustIndicators(domain.TrustIndicators{
		CommunityActivityScore: components.CommunityActivity,
		PostEngagementScore:    components.PostEngagement,
		TrendVelocityScore:     components.TrendVelocity,
		ProblemValidityScore:   components.ProblemValidity,
		DiscussionQualityScore: components.DiscussionQuality,
		AIConfidenceScore:      components.AIConfidence,
		TrustScore:             aggregate,
		Badges:                 AssembleBadges(aggregate, components),
		ActivityConstraintMet:  components.CommunityActivity >= v.activityThreshold,
		QualityConstraintMet:   QualityConstraintsMet(candidate.AIAnalysis),
		ComputedAt:             v.now(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("construct trust indicators: %w", err)
	}

	result := Result{CandidateID: candidate.ID, Indicators: indicators}
	v.record(result)

	return result, nil
}

// ValidateBatch validates candidates sequentially. Each item's failure is
// isolated: degraded results are included, and an item that fails indicator
// construction is logged and skipped, so the returned slice can be shorter
// than the input.
func (v *Validator) ValidateBatch(ctx context.Context, candidates []*domain.Candidate) []Result {
	results := make([]Result, 0, len(candidates))

	for _, candidate := range candidates {
		result, err := v.Validate(ctx, candidate)
		if err != nil {
			v.logger.Error().Err(err).Str("candidate_id", candidate.ID).Msg("validation failed")
			continue
		}

		results = append(results, result)
	}

	return results
}

func (v *Validator) degradedResult(candidate *domain.Candidate) (Result, error) {
	indicators, err := domain.NewTrustIndicators(domain.TrustIndicators{
		TrustScore: degradedTrustScore,
		Badges:     []string{BadgeBasicValidation},
		ComputedAt: v.now(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("construct degraded indicators: %w", err)
	}

	result := Result{CandidateID: candidate.ID, Indicators: indicators, Degraded: true}
	v.record(result)

	return result, nil
}

func (v *Validator) record(result Result) {
	observability.TrustValidations.WithLabelValues(string(result.Indicators.TrustLevel)).Inc()
	observability.TrustScore.Observe(result.Indicators.TrustScore)

	if v.history != nil {
		v.history.Add(result)
	}
}
