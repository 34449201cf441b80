package llm

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
)

// mockClient produces deterministic analyses derived from the candidate text.
// It lets the full pipeline run in local and test environments without an API
// key.
type mockClient struct{}

func NewMock() Client {
	return &mockClient{}
}

func (m *mockClient) AnalyzeCandidate(_ context.Context, candidate *domain.Candidate) (*domain.AIAnalysis, error) {
	return &domain.AIAnalysis{
		ProblemDescription: fmt.Sprintf("Users in r/%s report: %s", candidate.Subreddit, candidate.Title),
		SolutionConcept:    fmt.Sprintf("App: a tool addressing %q", candidate.Title),
		CoreFunctions:      []string{"capture", "organize", "notify"},
		QualityScore:       mockQualityScore(candidate.Title),
	}, nil
}

func (m *mockClient) EmbedConcept(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	embedding := make([]float32, mockEmbeddingDim)

	for i := range embedding {
		embedding[i] = float32(sum[i%len(sum)]) / 255.0
	}

	return embedding, nil
}

// mockQualityScore maps a title to a stable score in [30, 90] so tests can
// rely on identical inputs producing identical analyses.
func mockQualityScore(title string) float64 {
	sum := sha256.Sum256([]byte(title))

	return 30 + float64(sum[0]%61)
}

const mockEmbeddingDim = 1536

var _ Client = (*mockClient)(nil)
