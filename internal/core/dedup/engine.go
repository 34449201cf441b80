package dedup

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	"github.com/oppradar/opportunity-radar/internal/platform/observability"
)

// ConceptRepository is the persistence surface the engine needs: an exact
// fingerprint lookup and a create-or-increment write.
type ConceptRepository interface {
	FindConceptByFingerprint(ctx context.Context, fingerprint string) (*domain.BusinessConcept, error)
	CreateConcept(ctx context.Context, concept *domain.BusinessConcept) error
	IncrementConceptCount(ctx context.Context, id string) error
}

// Result reports the outcome of processing one candidate. Fingerprint and
// NormalizedConcept are populated whenever the concept text normalized to
// something non-empty, regardless of the outcome branch.
type Result struct {
	Success           bool
	IsDuplicate       bool
	ConceptID         string
	Fingerprint       string
	NormalizedConcept string
	Error             string
}

// Rejection messages for input validation failures.
const (
	reasonMissingCandidate = "candidate is missing"
	reasonMissingID        = "candidate has no identifier"
	reasonMissingConcept   = "candidate has no concept text"
	reasonEmptyNormalized  = "concept text is empty after normalization"
)

// Engine decides whether a candidate belongs to an existing business concept
// or starts a new one. A candidate is a duplicate if and only if its
// fingerprint matches an existing concept; there is no fuzzy matching.
type Engine struct {
	repo   ConceptRepository
	logger *zerolog.Logger
}

func NewEngine(repo ConceptRepository, logger *zerolog.Logger) *Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Engine{repo: repo, logger: logger}
}

// ProcessCandidate normalizes and fingerprints the candidate's solution
// concept, then looks up or creates the matching bucket. Repository errors
// are logged and surfaced as Success=false rather than returned; the
// operation is idempotent given the same input, so the caller may retry.
func (e *Engine) ProcessCandidate(ctx context.Context, candidate *domain.Candidate) Result {
	start := time.Now()
	defer func() {
		observability.DedupLatencySeconds.Observe(time.Since(start).Seconds())
	}()

	if reason, ok := rejectInput(candidate); !ok {
		observability.DedupProcessed.WithLabelValues("rejected").Inc()

		return Result{Error: reason}
	}

	normalized := Normalize(candidate.AIAnalysis.SolutionConcept)
	if normalized == "" {
		observability.DedupProcessed.WithLabelValues("rejected").Inc()

		return Result{Error: reasonEmptyNormalized}
	}

	fingerprint := Fingerprint(normalized)

	result := e.resolveConcept(ctx, candidate, fingerprint, normalized)
	result.Fingerprint = fingerprint
	result.NormalizedConcept = normalized

	return result
}

func rejectInput(candidate *domain.Candidate) (string, bool) {
	switch {
	case candidate == nil:
		return reasonMissingCandidate, false
	case candidate.ID == "":
		return reasonMissingID, false
	case candidate.AIAnalysis == nil || candidate.AIAnalysis.SolutionConcept == "":
		return reasonMissingConcept, false
	default:
		return "", true
	}
}

func (e *Engine) resolveConcept(ctx context.Context, candidate *domain.Candidate, fingerprint, normalized string) Result {
	existing, err := e.repo.FindConceptByFingerprint(ctx, fingerprint)
	if err != nil {
		e.logger.Error().Err(err).Str("candidate_id", candidate.ID).Msg("concept lookup failed")
		observability.DedupProcessed.WithLabelValues("error").Inc()

		return Result{Error: err.Error()}
	}

	if existing != nil {
		if err := e.repo.IncrementConceptCount(ctx, existing.ID); err != nil {
			e.logger.Error().Err(err).Str("concept_id", existing.ID).Msg("concept increment failed")
			observability.DedupProcessed.WithLabelValues("error").Inc()

			return Result{Error: err.Error()}
		}

		observability.DedupProcessed.WithLabelValues("duplicate").Inc()

		return Result{Success: true, IsDuplicate: true, ConceptID: existing.ID}
	}

	concept := &domain.BusinessConcept{
		Fingerprint:        fingerprint,
		NormalizedConcept:  normalized,
		CandidateCount:     1,
		PrimaryCandidateID: candidate.ID,
	}

	if err := e.repo.CreateConcept(ctx, concept); err != nil {
		e.logger.Error().Err(err).Str("candidate_id", candidate.ID).Msg("concept create failed")
		observability.DedupProcessed.WithLabelValues("error").Inc()

		return Result{Error: err.Error()}
	}

	observability.DedupProcessed.WithLabelValues("unique").Inc()

	return Result{Success: true, IsDuplicate: false, ConceptID: concept.ID}
}
