package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
)

// SaveTrustIndicators upserts the scoring record for a candidate. Re-scoring
// replaces the previous record wholesale.
func (db *DB) SaveTrustIndicators(ctx context.Context, candidateID string, ti domain.TrustIndicators) error {
	badges, err := json.Marshal(ti.Badges)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}

	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO trust_indicators (
			candidate_id, community_activity_score, post_engagement_score, trend_velocity_score,
			problem_validity_score, discussion_quality_score, ai_confidence_score,
			trust_score, trust_level, badges, activity_met, quality_met, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (candidate_id) DO UPDATE SET
			community_activity_score = EXCLUDED.community_activity_score,
			post_engagement_score = EXCLUDED.post_engagement_score,
			trend_velocity_score = EXCLUDED.trend_velocity_score,
			problem_validity_score = EXCLUDED.problem_validity_score,
			discussion_quality_score = EXCLUDED.discussion_quality_score,
			ai_confidence_score = EXCLUDED.ai_confidence_score,
			trust_score = EXCLUDED.trust_score,
			trust_level = EXCLUDED.trust_level,
			badges = EXCLUDED.badges,
			activity_met = EXCLUDED.activity_met,
			quality_met = EXCLUDED.quality_met,
			computed_at = EXCLUDED.computed_at
	`, toUUID(candidateID), toFloat4(ti.CommunityActivityScore), toFloat4(ti.PostEngagementScore),
		toFloat4(ti.TrendVelocityScore), toFloat4(ti.ProblemValidityScore), toFloat4(ti.DiscussionQualityScore),
		toFloat4(ti.AIConfidenceScore), toFloat4(ti.TrustScore), string(ti.TrustLevel), badges,
		ti.ActivityConstraintMet, ti.QualityConstraintMet, toTimestamptz(ti.ComputedAt)); err != nil {
		return fmt.Errorf("save trust indicators: %w", err)
	}

	return nil
}
