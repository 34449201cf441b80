package domain

import (
	"fmt"
	"time"
)

// Candidate represents one Reddit submission under evaluation.
type Candidate struct {
	ID          string
	ExternalID  string
	Subreddit   string
	Title       string
	Body        string
	Upvotes     int
	NumComments int
	PostedAt    time.Time
	Status      string
	AIAnalysis  *AIAnalysis
	CreatedAt   time.Time
}

// AIAnalysis is the LLM-produced payload attached to a candidate.
type AIAnalysis struct {
	ProblemDescription string   `json:"problem_description"`
	SolutionConcept    string   `json:"solution_concept"`
	CoreFunctions      []string `json:"core_functions"`
	QualityScore       float64  `json:"quality_score"`
}

// BusinessConcept is a deduplication bucket keyed by fingerprint.
type BusinessConcept struct {
	ID                 string
	Fingerprint        string
	NormalizedConcept  string
	CandidateCount     int
	PrimaryCandidateID string
	CreatedAt          time.Time
}

// Candidate status constants.
const (
	StatusNew       = "new"
	StatusClaimed   = "claimed"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// TrustLevel classifies an aggregate trust score.
type TrustLevel string

// Trust level constants.
const (
	TrustLevelVeryHigh TrustLevel = "very_high"
	TrustLevelHigh     TrustLevel = "high"
	TrustLevelMedium   TrustLevel = "medium"
	TrustLevelLow      TrustLevel = "low"
)

// Trust level thresholds on the aggregate score.
const (
	veryHighThreshold = 85
	highThreshold     = 70
	mediumThreshold   = 50
)

// LevelForScore maps an aggregate trust score to its level.
func LevelForScore(score float64) TrustLevel {
	switch {
	case score >= veryHighThreshold:
		return TrustLevelVeryHigh
	case score >= highThreshold:
		return TrustLevelHigh
	case score >= mediumThreshold:
		return TrustLevelMedium
	default:
		return TrustLevelLow
	}
}

// TrustIndicators holds the six component scores, the weighted aggregate and
// the derived classification for one candidate. Construct through
// NewTrustIndicators so that range invariants hold; an out-of-range score is a
// programming bug, not an environmental condition.
type TrustIndicators struct {
	CommunityActivityScore float64
	PostEngagementScore    float64
	TrendVelocityScore     float64
	ProblemValidityScore   float64
	DiscussionQualityScore float64
	AIConfidenceScore      float64
	TrustScore             float64
	TrustLevel             TrustLevel
	Badges                 []string
	ActivityConstraintMet  bool
	QualityConstraintMet   bool
	ComputedAt             time.Time
}

// RangeError reports a trust score component outside [0, 100].
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("trust score %s = %v out of range [0, 100]", e.Field, e.Value)
}

const (
	scoreMin = 0
	scoreMax = 100
)

// NewTrustIndicators validates all score fields and returns the record.
// The level is derived from the aggregate; badges and gate flags are taken as
// computed by the caller.
func NewTrustIndicators(ti TrustIndicators) (TrustIndicators, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"community_activity_score", ti.CommunityActivityScore},
		{"post_engagement_score", ti.PostEngagementScore},
		{"trend_velocity_score", ti.TrendVelocityScore},
		{"problem_validity_score", ti.ProblemValidityScore},
		{"discussion_quality_score", ti.DiscussionQualityScore},
		{"ai_confidence_score", ti.AIConfidenceScore},
		{"trust_score", ti.TrustScore},
	}

	for _, f := range fields {
		if f.value < scoreMin || f.value > scoreMax {
			return TrustIndicators{}, &RangeError{Field: f.name, Value: f.value}
		}
	}

	ti.TrustLevel = LevelForScore(ti.TrustScore)

	if ti.ComputedAt.IsZero() {
		ti.ComputedAt = time.Now()
	}

	return ti, nil
}
