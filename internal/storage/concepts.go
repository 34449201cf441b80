package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
)

// FindConceptByFingerprint looks up the concept bucket for an exact
// fingerprint. A missing bucket is not an error: it returns nil, nil.
func (db *DB) FindConceptByFingerprint(ctx context.Context, fingerprint string) (*domain.BusinessConcept, error) {
	var (
		concept   domain.BusinessConcept
		id        pgtype.UUID
		primary   pgtype.UUID
		count     pgtype.Int4
		createdAt pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT id, fingerprint, normalized_concept, candidate_count, primary_candidate_id, created_at
		FROM business_concepts
		WHERE fingerprint = $1
	`, fingerprint).Scan(&id, &concept.Fingerprint, &concept.NormalizedConcept, &count, &primary, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // nil,nil indicates no concept for this fingerprint
		}

		return nil, fmt.Errorf("find concept by fingerprint: %w", err)
	}

	concept.ID = fromUUID(id)
	concept.CandidateCount = int(count.Int32)
	concept.PrimaryCandidateID = fromUUID(primary)
	concept.CreatedAt = fromTimestamptz(createdAt)

	return &concept, nil
}

// CreateConcept inserts a new concept bucket and fills in the generated id.
// Two workers racing on the same fingerprint both succeed: the loser of the
// insert race folds into the winner's bucket with an incremented count.
func (db *DB) CreateConcept(ctx context.Context, concept *domain.BusinessConcept) error {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO business_concepts (fingerprint, normalized_concept, candidate_count, primary_candidate_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fingerprint) DO UPDATE SET
			candidate_count = business_concepts.candidate_count + 1
		RETURNING id
	`, concept.Fingerprint, concept.NormalizedConcept, toInt4(concept.CandidateCount),
		toUUID(concept.PrimaryCandidateID)).Scan(&id)
	if err != nil {
		return fmt.Errorf("create concept: %w", err)
	}

	concept.ID = fromUUID(id)

	return nil
}

// IncrementConceptCount bumps the dedup counter for an existing bucket.
func (db *DB) IncrementConceptCount(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE business_concepts SET candidate_count = candidate_count + 1 WHERE id = $1
	`, toUUID(id))
	if err != nil {
		return fmt.Errorf("increment concept count: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("concept %s: %w", id, apperrors.ErrConceptNotFound)
	}

	return nil
}

// SaveConceptEmbedding stores the embedding vector for a concept. Embeddings
// are analytics-only; the dedup decision never reads them.
func (db *DB) SaveConceptEmbedding(ctx context.Context, conceptID string, embedding []float32) error {
	if _, err := db.Pool.Exec(ctx, `
		UPDATE business_concepts SET embedding = $2 WHERE id = $1
	`, toUUID(conceptID), pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("save concept embedding: %w", err)
	}

	return nil
}

// FindSimilarConcepts returns up to limit concepts nearest to the query
// vector by cosine distance, for reporting on near-duplicate clusters.
func (db *DB) FindSimilarConcepts(ctx context.Context, embedding []float32, limit int) ([]*domain.BusinessConcept, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, fingerprint, normalized_concept, candidate_count, primary_candidate_id, created_at
		FROM business_concepts
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), toInt4(limit))
	if err != nil {
		return nil, fmt.Errorf("find similar concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*domain.BusinessConcept

	for rows.Next() {
		var (
			concept   domain.BusinessConcept
			cid       pgtype.UUID
			primary   pgtype.UUID
			count     pgtype.Int4
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&cid, &concept.Fingerprint, &concept.NormalizedConcept, &count, &primary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}

		concept.ID = fromUUID(cid)
		concept.CandidateCount = int(count.Int32)
		concept.PrimaryCandidateID = fromUUID(primary)
		concept.CreatedAt = fromTimestamptz(createdAt)

		concepts = append(concepts, &concept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate concepts: %w", err)
	}

	return concepts, nil
}
