package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
	"github.com/oppradar/opportunity-radar/internal/platform/config"
	"github.com/oppradar/opportunity-radar/internal/platform/observability"
)

// ErrCircuitOpen indicates the client is backing off after repeated failures.
var ErrCircuitOpen = errors.New("llm circuit breaker is open")

type openaiClient struct {
	cfg         *config.Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

func NewOpenAI(cfg *config.Config, logger *zerolog.Logger) Client {
	return &openaiClient{
		cfg:         cfg,
		client:      openai.NewClient(cfg.LLMAPIKey),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.LLMRateLimitRPS)), rateLimiterBurst),
	}
}

func (c *openaiClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", ErrCircuitOpen, c.circuitOpenUntil)
	}

	return nil
}

func (c *openaiClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures = 0
}

func (c *openaiClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("LLM circuit breaker opened")
	}
}

func (c *openaiClient) AnalyzeCandidate(ctx context.Context, candidate *domain.Candidate) (*domain.AIAnalysis, error) {
	if err := c.checkCircuit(); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.LLMModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analyzeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildAnalyzePrompt(candidate)},
		},
		Temperature: 0,
	})

	observability.LLMRequestDuration.WithLabelValues(c.cfg.LLMModel).Observe(time.Since(start).Seconds())

	if err != nil {
		c.recordFailure()
		observability.LLMRequests.WithLabelValues(c.cfg.LLMModel, "error").Inc()

		return nil, fmt.Errorf("chat completion: %w", err)
	}

	c.recordSuccess()
	observability.LLMRequests.WithLabelValues(c.cfg.LLMModel, "ok").Inc()

	if len(resp.Choices) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	analysis, err := parseAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("candidate_id", candidate.ID).
		Float64("quality_score", analysis.QualityScore).
		Msg("candidate analyzed")

	return analysis, nil
}

func (c *openaiClient) EmbedConcept(ctx context.Context, text string) ([]float32, error) {
	if err := c.checkCircuit(); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
	})
	if err != nil {
		c.recordFailure()

		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	c.recordSuccess()

	if len(resp.Data) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	return resp.Data[0].Embedding, nil
}

// parseAnalysis decodes the model output, tolerating prose around the JSON
// object, and clamps the quality score into its valid range.
func parseAnalysis(content string) (*domain.AIAnalysis, error) {
	var analysis domain.AIAnalysis

	if err := json.Unmarshal([]byte(extractJSON(content)), &analysis); err != nil {
		return nil, fmt.Errorf("decoding analysis response: %w", err)
	}

	if analysis.QualityScore < minQualityScore {
		analysis.QualityScore = minQualityScore
	}

	if analysis.QualityScore > maxQualityScore {
		analysis.QualityScore = maxQualityScore
	}

	return &analysis, nil
}

var _ Client = (*openaiClient)(nil)
