package trust

import (
	"math"
	"strings"
	"time"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
)

// Components holds the six independently computed component scores, each
// capped to [0, 100] by construction of its formula.
type Components struct {
	CommunityActivity float64
	PostEngagement    float64
	TrendVelocity     float64
	ProblemValidity   float64
	DiscussionQuality float64
	AIConfidence      float64
}

const maxScore = 100.0

// Community activity: posts/day rescaled linearly, 50 posts/day saturates.
const activityScale = 2.0

// CommunityActivityScore rescales a subreddit posts-per-day measurement.
// A missing measurement (zero) scores zero.
func CommunityActivityScore(postsPerDay float64) float64 {
	if postsPerDay <= 0 {
		return 0
	}

	return math.Min(postsPerDay*activityScale, maxScore)
}

// Upvote curve tiers: 3 points/upvote to 10, 0.5 to 100, 0.25 beyond.
const (
	upvoteTier1Limit = 10
	upvoteTier2Limit = 100
	upvoteTier1Slope = 3.0
	upvoteTier2Slope = 0.5
	upvoteTier3Slope = 0.25

	commentSlope  = 2.0
	upvoteWeight  = 0.7
	commentWeight = 0.3
)

// PostEngagementScore combines a three-tier piecewise-linear upvote curve
// (70%) with a linear capped comment-count curve (30%).
func PostEngagementScore(upvotes, comments int) float64 {
	return upvoteWeight*upvoteCurve(upvotes) + commentWeight*commentCurve(comments)
}

func upvoteCurve(upvotes int) float64 {
	u := float64(upvotes)

	switch {
	case upvotes <= 0:
		return 0
	case upvotes <= upvoteTier1Limit:
		return u * upvoteTier1Slope
	case upvotes <= upvoteTier2Limit:
		return upvoteTier1Limit*upvoteTier1Slope + (u-upvoteTier1Limit)*upvoteTier2Slope
	default:
		base := upvoteTier1Limit*upvoteTier1Slope + (upvoteTier2Limit-upvoteTier1Limit)*upvoteTier2Slope

		return math.Min(base+(u-upvoteTier2Limit)*upvoteTier3Slope, maxScore)
	}
}

func commentCurve(comments int) float64 {
	if comments <= 0 {
		return 0
	}

	return math.Min(float64(comments)*commentSlope, maxScore)
}

// Trend velocity age buckets and decay parameters.
const (
	velocityHourMultiplier = 10.0
	velocityDayMultiplier  = 5.0
	velocityWeekMultiplier = 2.0
	velocityBaseMultiplier = 1.0

	decayStartDays = 7.0
	decayEndDays   = 30.0
	decayFloor     = 0.1
)

// TrendVelocityScore scores engagement-per-unit-time: total engagement scaled
// by an age-bucket multiplier and capped, then linearly decayed for posts
// older than one week (floor 0.1, fully decayed by day 30).
func TrendVelocityScore(upvotes, comments int, postedAt, now time.Time) float64 {
	age := now.Sub(postedAt)
	if age < 0 {
		age = 0
	}

	engagement := float64(upvotes + comments)
	if engagement <= 0 {
		return 0
	}

	score := math.Min(engagement*velocityMultiplier(age), maxScore)

	return score * ageDecay(age)
}

func velocityMultiplier(age time.Duration) float64 {
	switch {
	case age <= time.Hour:
		return velocityHourMultiplier
	case age <= 24*time.Hour:
		return velocityDayMultiplier
	case age <= 7*24*time.Hour:
		return velocityWeekMultiplier
	default:
		return velocityBaseMultiplier
	}
}

func ageDecay(age time.Duration) float64 {
	ageDays := age.Hours() / 24
	if ageDays <= decayStartDays {
		return 1.0
	}

	decay := 1.0 - (ageDays-decayStartDays)/(decayEndDays-decayStartDays)*(1.0-decayFloor)

	return math.Max(decay, decayFloor)
}

// problemKeywords is the fixed vocabulary of problem-indicator words counted
// against the raw candidate text.
var problemKeywords = []string{
	"problem", "issue", "struggle", "frustrating", "frustrated", "annoying",
	"difficult", "pain", "wish", "need", "hate", "broken", "tedious",
	"manual", "waste", "impossible", "workaround",
}

// Problem validity formula parameters.
const (
	minAnalysisChars     = 20
	keywordHitValue      = 20.0
	keywordWeight        = 0.6
	problemLengthDivisor = 2.0
	lengthWeight         = 0.4
)

// ProblemValidityScore requires a well-formed AI payload; without one, or with
// a too-short problem description or solution concept, it scores zero.
// Otherwise it combines keyword hits in the raw post text (60%) with the
// problem description length (40%).
func ProblemValidityScore(candidate *domain.Candidate) float64 {
	a := candidate.AIAnalysis
	if a == nil {
		return 0
	}

	if len(a.ProblemDescription) < minAnalysisChars || len(a.SolutionConcept) < minAnalysisChars {
		return 0
	}

	text := strings.ToLower(candidate.Title + " " + candidate.Body)

	hits := 0

	for _, kw := range problemKeywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}

	keywordScore := math.Min(float64(hits)*keywordHitValue, maxScore)
	lengthScore := math.Min(float64(len(a.ProblemDescription))/problemLengthDivisor, maxScore)

	return keywordWeight*keywordScore + lengthWeight*lengthScore
}

// Discussion quality step function parameters.
const (
	discussionLinearLimit = 5
	discussionUpperLimit  = 50
	discussionSlope       = 20.0
	discussionBonusSlope  = 0.5
)

// DiscussionQualityScore is a step function of comment count.
func DiscussionQualityScore(comments int) float64 {
	switch {
	case comments <= 0:
		return 0
	case comments <= discussionLinearLimit:
		return float64(comments) * discussionSlope
	case comments <= discussionUpperLimit:
		return math.Min(maxScore+float64(comments-discussionLinearLimit)*discussionBonusSlope, maxScore)
	default:
		return maxScore
	}
}

// AI confidence step buckets over the external quality score.
const (
	aiBucketHigh = 70
	aiBucketMid  = 50
	aiBucketLow  = 30
	aiScoreHigh  = 90.0
	aiScoreMid   = 70.0
	aiScoreLow   = 50.0
	aiScoreFloor = 30.0
)

// AIConfidenceScore maps the external AI quality score into four buckets;
// zero when no analysis is present.
func AIConfidenceScore(analysis *domain.AIAnalysis) float64 {
	if analysis == nil {
		return 0
	}

	switch {
	case analysis.QualityScore >= aiBucketHigh:
		return aiScoreHigh
	case analysis.QualityScore >= aiBucketMid:
		return aiScoreMid
	case analysis.QualityScore >= aiBucketLow:
		return aiScoreLow
	default:
		return aiScoreFloor
	}
}

// Quality gate limits.
const maxCoreFunctions = 3

// QualityConstraintsMet reports whether the AI payload passes the quality
// gate: present, non-trivial problem description and solution concept, and at
// most three core functions.
func QualityConstraintsMet(analysis *domain.AIAnalysis) bool {
	if analysis == nil {
		return false
	}

	return len(analysis.ProblemDescription) >= minAnalysisChars &&
		len(analysis.SolutionConcept) >= minAnalysisChars &&
		len(analysis.CoreFunctions) <= maxCoreFunctions
}
