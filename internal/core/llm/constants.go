package llm

import "time"

const (
	apiKeyMock = "mock"

	rateLimiterBurst = 5

	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute

	maxBodyChars = 4000

	minQualityScore = 0
	maxQualityScore = 100
)
