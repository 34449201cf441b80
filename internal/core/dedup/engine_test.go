package dedup

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
)

var errDatabase = errors.New("database error")

// memRepository is an in-memory ConceptRepository fake.
type memRepository struct {
	concepts  map[string]*domain.BusinessConcept
	nextID    int
	findErr   error
	createErr error
	incErr    error
}

func newMemRepository() *memRepository {
	return &memRepository{concepts: make(map[string]*domain.BusinessConcept)}
}

func (m *memRepository) FindConceptByFingerprint(_ context.Context, fingerprint string) (*domain.BusinessConcept, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	c, ok := m.concepts[fingerprint]
	if !ok {
		return nil, nil
	}

	return c, nil
}

func (m *memRepository) CreateConcept(_ context.Context, concept *domain.BusinessConcept) error {
	if m.createErr != nil {
		return m.createErr
	}

	m.nextID++
	concept.ID = "concept-" + strconv.Itoa(m.nextID)
	m.concepts[concept.Fingerprint] = concept

	return nil
}

func (m *memRepository) IncrementConceptCount(_ context.Context, id string) error {
	if m.incErr != nil {
		return m.incErr
	}

	for _, c := range m.concepts {
		if c.ID == id {
			c.CandidateCount++
			return nil
		}
	}

	return errDatabase
}

func candidateWithConcept(id, concept string) *domain.Candidate {
	return &domain.Candidate{
		ID: id,
		AIAnalysis: &domain.AIAnalysis{
			ProblemDescription: "finding dinner options nearby is tedious",
			SolutionConcept:    concept,
		},
	}
}

func TestProcessCandidate_InputRejection(t *testing.T) {
	engine := NewEngine(newMemRepository(), nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		candidate *domain.Candidate
	}{
		{name: "nil_candidate", candidate: nil},
		{name: "missing_id", candidate: candidateWithConcept("", "some concept")},
		{name: "missing_analysis", candidate: &domain.Candidate{ID: "c1"}},
		{name: "empty_concept", candidate: candidateWithConcept("c1", "")},
		{name: "whitespace_only_concept", candidate: candidateWithConcept("c1", "   \t ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.ProcessCandidate(ctx, tt.candidate)
			if res.Success {
				t.Error("expected Success=false")
			}

			if res.Error == "" {
				t.Error("expected a rejection message")
			}

			if res.IsDuplicate {
				t.Error("rejected candidate must not be marked duplicate")
			}
		})
	}
}

func TestProcessCandidate_FirstThenDuplicate(t *testing.T) {
	repo := newMemRepository()
	engine := NewEngine(repo, nil)
	ctx := context.Background()

	first := engine.ProcessCandidate(ctx, candidateWithConcept("c1", "Food delivery for local restaurants"))
	if !first.Success || first.IsDuplicate {
		t.Fatalf("first pass: got %+v, want unique success", first)
	}

	second := engine.ProcessCandidate(ctx, candidateWithConcept("c1", "Food delivery for local restaurants"))
	if !second.Success || !second.IsDuplicate {
		t.Fatalf("second pass: got %+v, want duplicate", second)
	}

	if first.ConceptID != second.ConceptID {
		t.Errorf("concept ids differ: %q vs %q", first.ConceptID, second.ConceptID)
	}

	if got := repo.concepts[first.Fingerprint].CandidateCount; got != 2 {
		t.Errorf("CandidateCount = %d, want 2", got)
	}
}

func TestProcessCandidate_CaseOnlyDifferenceIsDuplicate(t *testing.T) {
	repo := newMemRepository()
	engine := NewEngine(repo, nil)
	ctx := context.Background()

	a := engine.ProcessCandidate(ctx, candidateWithConcept("c1", "App idea: Food delivery for local restaurants"))
	b := engine.ProcessCandidate(ctx, candidateWithConcept("c2", "app idea: food delivery for local restaurants"))

	if !b.IsDuplicate {
		t.Error("case-only variant should be a duplicate")
	}

	if a.ConceptID != b.ConceptID {
		t.Errorf("duplicate mapped to different bucket: %q vs %q", a.ConceptID, b.ConceptID)
	}

	if a.Fingerprint != b.Fingerprint {
		t.Errorf("fingerprints differ: %q vs %q", a.Fingerprint, b.Fingerprint)
	}

	c := engine.ProcessCandidate(ctx, candidateWithConcept("c3", "Meditation app with guided breathing"))
	if c.IsDuplicate {
		t.Error("unrelated concept should start a new bucket")
	}

	if c.ConceptID == a.ConceptID {
		t.Error("unrelated concept reused an existing bucket id")
	}
}

func TestProcessCandidate_ResultFieldsPopulatedOnRepoError(t *testing.T) {
	repo := newMemRepository()
	repo.findErr = errDatabase
	engine := NewEngine(repo, nil)

	res := engine.ProcessCandidate(context.Background(), candidateWithConcept("c1", "App: budget tracker"))
	if res.Success {
		t.Error("expected Success=false on repository error")
	}

	if res.Error == "" {
		t.Error("expected error message")
	}

	if res.NormalizedConcept != "budget tracker" {
		t.Errorf("NormalizedConcept = %q, want %q", res.NormalizedConcept, "budget tracker")
	}

	if len(res.Fingerprint) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(res.Fingerprint))
	}
}

func TestProcessCandidate_CreateAndIncrementErrors(t *testing.T) {
	repo := newMemRepository()
	repo.createErr = errDatabase
	engine := NewEngine(repo, nil)
	ctx := context.Background()

	res := engine.ProcessCandidate(ctx, candidateWithConcept("c1", "note taking for chefs"))
	if res.Success {
		t.Error("expected failure when create errors")
	}

	// Same input is retryable once the repository recovers.
	repo.createErr = nil

	res = engine.ProcessCandidate(ctx, candidateWithConcept("c1", "note taking for chefs"))
	if !res.Success || res.IsDuplicate {
		t.Fatalf("retry after create error: got %+v, want unique success", res)
	}

	repo.incErr = errDatabase

	res = engine.ProcessCandidate(ctx, candidateWithConcept("c2", "note taking for chefs"))
	if res.Success {
		t.Error("expected failure when increment errors")
	}
}
