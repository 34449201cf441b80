package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
)

// Client analyzes collected posts and turns them into structured
// business-opportunity descriptions.
type Client interface {
	AnalyzeCandidate(ctx context.Context, candidate *domain.Candidate) (*domain.AIAnalysis, error)
	EmbedConcept(ctx context.Context, text string) ([]float32, error)
}

// New selects the analysis backend from config. An empty or "mock" API key
// yields the deterministic mock client so the pipeline can run without
// external calls.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if cfg.LLMAPIKey == "" || cfg.LLMAPIKey == apiKeyMock {
		logger.Warn().Msg("LLM API key not set, using mock analysis client")

		return NewMock()
	}

	return NewOpenAI(cfg, logger)
}
