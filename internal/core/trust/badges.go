package trust

// Badge labels. The tier badge always leads; the rest follow in insertion
// order with a final set-based uniqueness pass.
const (
	BadgeGold   = "gold_opportunity"
	BadgeSilver = "silver_opportunity"
	BadgeBronze = "bronze_opportunity"
	BadgeBasic  = "basic"

	BadgeVeryActiveCommunity = "very_active_community"
	BadgeActiveCommunity     = "active_community"
	BadgeHighEngagement      = "high_engagement"
	BadgeGoodEngagement      = "good_engagement"
	BadgeTrendingHot         = "trending_hot"
	BadgeTrending            = "trending"
	BadgeAIValidated         = "ai_validated"
	BadgeAIReviewed          = "ai_reviewed"

	BadgeCommunityFavorite = "community_favorite"
	BadgeRisingStar        = "rising_star"

	// BadgeBasicValidation is the sole badge of a degraded validation.
	BadgeBasicValidation = "basic_validation"
)

// Per-component badge thresholds.
const (
	tierGoldThreshold   = 85
	tierSilverThreshold = 70
	tierBronzeThreshold = 50

	activityUpperBadge   = 80
	activityLowerBadge   = 60
	engagementUpperBadge = 70
	engagementLowerBadge = 40
	trendUpperBadge      = 80
	trendLowerBadge      = 50
	aiUpperBadge         = 70
	aiLowerBadge         = 50

	comboActivityThreshold   = 70
	comboEngagementThreshold = 70
	comboTrendThreshold      = 70
	comboEngagementSecondary = 60
)

// AssembleBadges builds the ordered badge list for an aggregate score and its
// components: tier badge first, then two-tier component badges, then
// combination badges, deduplicated preserving first occurrence.
func AssembleBadges(aggregate float64, c Components) []string {
	badges := []string{tierBadge(aggregate)}

	badges = appendTwoTier(badges, c.CommunityActivity, activityUpperBadge, activityLowerBadge,
		BadgeVeryActiveCommunity, BadgeActiveCommunity)
	badges = appendTwoTier(badges, c.PostEngagement, engagementUpperBadge, engagementLowerBadge,
		BadgeHighEngagement, BadgeGoodEngagement)
	badges = appendTwoTier(badges, c.TrendVelocity, trendUpperBadge, trendLowerBadge,
		BadgeTrendingHot, BadgeTrending)
	badges = appendTwoTier(badges, c.AIConfidence, aiUpperBadge, aiLowerBadge,
		BadgeAIValidated, BadgeAIReviewed)

	if c.CommunityActivity >= comboActivityThreshold && c.PostEngagement >= comboEngagementThreshold {
		badges = append(badges, BadgeCommunityFavorite)
	}

	if c.TrendVelocity >= comboTrendThreshold && c.PostEngagement >= comboEngagementSecondary {
		badges = append(badges, BadgeRisingStar)
	}

	return uniqueBadges(badges)
}

func tierBadge(aggregate float64) string {
	switch {
	case aggregate >= tierGoldThreshold:
		return BadgeGold
	case aggregate >= tierSilverThreshold:
		return BadgeSilver
	case aggregate >= tierBronzeThreshold:
		return BadgeBronze
	default:
		return BadgeBasic
	}
}

func appendTwoTier(badges []string, score float64, upper, lower float64, upperBadge, lowerBadge string) []string {
	switch {
	case score >= upper:
		return append(badges, upperBadge)
	case score >= lower:
		return append(badges, lowerBadge)
	default:
		return badges
	}
}

func uniqueBadges(badges []string) []string {
	seen := make(map[string]struct{}, len(badges))
	out := badges[:0]

	for _, b := range badges {
		if _, ok := seen[b]; ok {
			continue
		}

		seen[b] = struct{}{}
		out = append(out, b)
	}

	return out
}
