// Package pipeline drives claimed candidates through analysis, dedup and
// trust scoring, one batch per poll.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/dedup"
	"github.com/oppradar/opportunity-radar/internal/core/domain"
	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
	"github.com/oppradar/opportunity-radar/internal/core/llm"
	"github.com/oppradar/opportunity-radar/internal/core/trust"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
	"github.com/oppradar/opportunity-radar/internal/platform/observability"
	"github.com/oppradar/opportunity-radar/internal/platform/worker"
	db "github.com/oppradar/opportunity-radar/internal/storage"
)

type Repository interface {
	ClaimCandidates(ctx context.Context, limit int) ([]*domain.Candidate, error)
	GetBacklogCount(ctx context.Context) (int, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string) error
	RecoverStuckCandidates(ctx context.Context, maxAge time.Duration) (int, error)
	SaveAIAnalysis(ctx context.Context, candidateID string, analysis *domain.AIAnalysis, model string) error
	GetAIAnalysis(ctx context.Context, candidateID string) (*domain.AIAnalysis, error)
	FindConceptByFingerprint(ctx context.Context, fingerprint string) (*domain.BusinessConcept, error)
	CreateConcept(ctx context.Context, concept *domain.BusinessConcept) error
	IncrementConceptCount(ctx context.Context, id string) error
	SaveConceptEmbedding(ctx context.Context, conceptID string, embedding []float32) error
	SaveTrustIndicators(ctx context.Context, candidateID string, ti domain.TrustIndicators) error
}

// Compile-time assertion that *db.DB implements Repository.
var _ Repository = (*db.DB)(nil)

var errDedupFailed = errors.New("dedup failed")

type Pipeline struct {
	cfg         *config.Config
	database    Repository
	llmClient   llm.Client
	dedupEngine *dedup.Engine
	validator   *trust.Validator
	logger      *zerolog.Logger
}

func New(cfg *config.Config, database Repository, llmClient llm.Client, dedupEngine *dedup.Engine,
	validator *trust.Validator, logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		database:    database,
		llmClient:   llmClient,
		dedupEngine: dedupEngine,
		validator:   validator,
		logger:      logger,
	}
}

// Run blocks processing batches until the context is canceled.
func (p *Pipeline) Run(ctx context.Context) error {
	return worker.Loop(ctx, worker.Config{
		Name:         "pipeline",
		PollInterval: p.cfg.WorkerPollInterval,
		Process:      p.processNextBatch,
		PeriodicTasks: []worker.PeriodicTask{
			{
				Name:     "recover-stuck-claims",
				Interval: RecoveryInterval,
				Run:      p.recoverStuckClaims,
			},
		},
		Logger: p.logger,
	})
}

// recoverStuckClaims releases candidates claimed by workers that never
// finished, so they get picked up again.
func (p *Pipeline) recoverStuckClaims(ctx context.Context) {
	recovered, err := p.database.RecoverStuckCandidates(ctx, StuckClaimThreshold)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to recover stuck candidates")

		return
	}

	if recovered > 0 {
		p.logger.Info().Int("recovered", recovered).Msg("recovered stuck candidates")
	}
}

func (p *Pipeline) processNextBatch(ctx context.Context) error {
	correlationID := uuid.New().String()
	logger := p.logger.With().Str(LogFieldCorrelationID, correlationID).Logger()

	candidates, err := p.database.ClaimCandidates(ctx, p.cfg.WorkerBatchSize)
	if err != nil {
		return fmt.Errorf("claim candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil
	}

	if backlog, err := p.database.GetBacklogCount(ctx); err == nil {
		observability.PipelineBacklog.Set(float64(backlog))
	}

	logger.Info().Int("batch", len(candidates)).Msg("starting pipeline batch")

	start := time.Now()
	defer func() {
		observability.PipelineBatchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return fmt.Errorf("batch interrupted: %w", ctx.Err())
		}

		if err := p.processCandidate(ctx, &logger, candidate); err != nil {
			logger.Error().Err(err).Str(LogFieldCandidateID, candidate.ID).Msg("candidate processing failed")
			observability.PipelineProcessed.WithLabelValues("failed").Inc()

			if err := p.database.MarkFailed(ctx, candidate.ID, err.Error()); err != nil {
				logger.Error().Err(err).Str(LogFieldCandidateID, candidate.ID).Msg("failed to mark candidate failed")
			}

			continue
		}

		observability.PipelineProcessed.WithLabelValues("processed").Inc()
	}

	return nil
}

// processCandidate runs the full analyze, dedup, score sequence for one
// candidate. Any returned error fails just this candidate.
func (p *Pipeline) processCandidate(ctx context.Context, logger *zerolog.Logger, candidate *domain.Candidate) error {
	analysis, err := p.loadOrAnalyze(ctx, candidate)
	if err != nil {
		return err
	}

	candidate.AIAnalysis = analysis

	dedupResult := p.dedupEngine.ProcessCandidate(ctx, candidate)
	if !dedupResult.Success {
		return fmt.Errorf("%w: %s", errDedupFailed, dedupResult.Error)
	}

	if !dedupResult.IsDuplicate {
		p.storeEmbedding(ctx, logger, dedupResult)
	}

	trustResult, err := p.validator.Validate(ctx, candidate)
	if err != nil {
		return fmt.Errorf("validate candidate: %w", err)
	}

	if err := p.database.SaveTrustIndicators(ctx, candidate.ID, trustResult.Indicators); err != nil {
		return err
	}

	logger.Info().
		Str(LogFieldCandidateID, candidate.ID).
		Bool("duplicate", dedupResult.IsDuplicate).
		Str("concept_id", dedupResult.ConceptID).
		Float64("trust_score", trustResult.Indicators.TrustScore).
		Str("trust_level", string(trustResult.Indicators.TrustLevel)).
		Msg("candidate processed")

	return p.database.MarkProcessed(ctx, candidate.ID)
}

// loadOrAnalyze reuses a stored analysis when one exists, so candidates
// re-queued by stuck-claim recovery do not repeat the LLM call.
func (p *Pipeline) loadOrAnalyze(ctx context.Context, candidate *domain.Candidate) (*domain.AIAnalysis, error) {
	stored, err := p.database.GetAIAnalysis(ctx, candidate.ID)
	if err == nil {
		return stored, nil
	}

	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("load stored analysis: %w", err)
	}

	analysis, err := p.llmClient.AnalyzeCandidate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("analyze candidate: %w", err)
	}

	if err := p.database.SaveAIAnalysis(ctx, candidate.ID, analysis, p.cfg.LLMModel); err != nil {
		return nil, err
	}

	return analysis, nil
}

// storeEmbedding is best-effort: an embedding failure never fails the
// candidate, since embeddings feed analytics only.
func (p *Pipeline) storeEmbedding(ctx context.Context, logger *zerolog.Logger, result dedup.Result) {
	if !p.cfg.ConceptEmbeddingsEnabled {
		return
	}

	embedding, err := p.llmClient.EmbedConcept(ctx, result.NormalizedConcept)
	if err != nil {
		logger.Warn().Err(err).Str("concept_id", result.ConceptID).Msg("concept embedding failed")

		return
	}

	if err := p.database.SaveConceptEmbedding(ctx, result.ConceptID, embedding); err != nil {
		logger.Warn().Err(err).Str("concept_id", result.ConceptID).Msg("concept embedding save failed")
	}
}
