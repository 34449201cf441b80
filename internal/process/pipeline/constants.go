package pipeline

import "time"

const (
	// StuckClaimThreshold is how long a claimed candidate may sit before a
	// crashed worker is assumed and the claim released.
	StuckClaimThreshold = 30 * time.Minute

	// RecoveryInterval is how often the stuck-claim sweep runs.
	RecoveryInterval = 5 * time.Minute

	LogFieldCorrelationID = "correlation_id"
	LogFieldCandidateID   = "candidate_id"
)
