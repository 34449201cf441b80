package trust

import (
	"fmt"
	"math"

	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
)

// Weight vector invariants: components sum to 1.0 within tolerance and each
// weight stays inside [minWeight, maxWeight]. Violations are construction-time
// errors, never runtime clamps.
const (
	weightSumTolerance = 1e-6
	minWeight          = 0.05
	maxWeight          = 0.50
)

// Weights is the aggregate weight vector over the six component scores.
type Weights struct {
	CommunityActivity float64
	PostEngagement    float64
	TrendVelocity     float64
	ProblemValidity   float64
	DiscussionQuality float64
	AIConfidence      float64
}

// DefaultWeights returns the production weight vector.
func DefaultWeights() Weights {
	return Weights{
		CommunityActivity: 0.25,
		PostEngagement:    0.20,
		TrendVelocity:     0.15,
		ProblemValidity:   0.15,
		DiscussionQuality: 0.15,
		AIConfidence:      0.10,
	}
}

// Validate checks the sum and per-weight bound invariants.
func (w Weights) Validate() error {
	components := []struct {
		name  string
		value float64
	}{
		{"community_activity", w.CommunityActivity},
		{"post_engagement", w.PostEngagement},
		{"trend_velocity", w.TrendVelocity},
		{"problem_validity", w.ProblemValidity},
		{"discussion_quality", w.DiscussionQuality},
		{"ai_confidence", w.AIConfidence},
	}

	sum := 0.0

	for _, c := range components {
		if c.value < minWeight || c.value > maxWeight {
			return fmt.Errorf("%w: %s = %v outside [%v, %v]",
				apperrors.ErrInvalidWeights, c.name, c.value, minWeight, maxWeight)
		}

		sum += c.value
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", apperrors.ErrInvalidWeights, sum)
	}

	return nil
}

// Aggregate computes the weighted sum of the six component scores.
func (w Weights) Aggregate(c Components) float64 {
	return c.CommunityActivity*w.CommunityActivity +
		c.PostEngagement*w.PostEngagement +
		c.TrendVelocity*w.TrendVelocity +
		c.ProblemValidity*w.ProblemValidity +
		c.DiscussionQuality*w.DiscussionQuality +
		c.AIConfidence*w.AIConfidence
}
