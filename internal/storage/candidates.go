package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
	apperrors "github.com/oppradar/opportunity-radar/internal/core/errors"
)

// SaveCandidate inserts a collected submission. Re-collecting the same
// external id is a no-op; the bool reports whether a row was inserted.
func (db *DB) SaveCandidate(ctx context.Context, candidate *domain.Candidate) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO candidates (external_id, subreddit, title, body, upvotes, num_comments, posted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING
	`, candidate.ExternalID, candidate.Subreddit, SanitizeUTF8(candidate.Title), SanitizeUTF8(candidate.Body),
		toInt4(candidate.Upvotes), toInt4(candidate.NumComments), toTimestamptz(candidate.PostedAt), domain.StatusNew)
	if err != nil {
		return false, fmt.Errorf("save candidate: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ClaimCandidates atomically moves up to limit new candidates to claimed and
// returns them oldest-first. Concurrent workers skip each other's rows.
func (db *DB) ClaimCandidates(ctx context.Context, limit int) ([]*domain.Candidate, error) {
	rows, err := db.Pool.Query(ctx, `
		WITH picked AS (
			SELECT id
			FROM candidates
			WHERE status = $1
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT $2
		)
		UPDATE candidates c
		SET status = $3,
			claimed_at = NOW()
		FROM picked
		WHERE c.id = picked.id
		RETURNING c.id, c.external_id, c.subreddit, c.title, c.body, c.upvotes, c.num_comments,
			c.posted_at, c.status, c.created_at
	`, domain.StatusNew, toInt4(limit), domain.StatusClaimed)
	if err != nil {
		return nil, fmt.Errorf("claim candidates: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

func scanCandidates(rows pgx.Rows) ([]*domain.Candidate, error) {
	var candidates []*domain.Candidate

	for rows.Next() {
		var (
			c        domain.Candidate
			id       pgtype.UUID
			posted   pgtype.Timestamptz
			created  pgtype.Timestamptz
			upvotes  pgtype.Int4
			comments pgtype.Int4
		)

		if err := rows.Scan(&id, &c.ExternalID, &c.Subreddit, &c.Title, &c.Body, &upvotes, &comments,
			&posted, &c.Status, &created); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		c.ID = fromUUID(id)
		c.Upvotes = int(upvotes.Int32)
		c.NumComments = int(comments.Int32)
		c.PostedAt = fromTimestamptz(posted)
		c.CreatedAt = fromTimestamptz(created)

		candidates = append(candidates, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

// MarkProcessed finalizes a claimed candidate.
func (db *DB) MarkProcessed(ctx context.Context, id string) error {
	if _, err := db.Pool.Exec(ctx, `
		UPDATE candidates SET status = $2, error = NULL WHERE id = $1
	`, toUUID(id), domain.StatusProcessed); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	return nil
}

// MarkFailed records the failure reason so the row is inspectable later.
func (db *DB) MarkFailed(ctx context.Context, id, reason string) error {
	if _, err := db.Pool.Exec(ctx, `
		UPDATE candidates SET status = $2, error = $3 WHERE id = $1
	`, toUUID(id), domain.StatusFailed, SanitizeUTF8(reason)); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}

	return nil
}

// RecoverStuckCandidates returns claimed candidates older than maxAge to the
// new state. Crashed workers would otherwise strand their batch forever.
func (db *DB) RecoverStuckCandidates(ctx context.Context, maxAge time.Duration) (int, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE candidates
		SET status = $1, claimed_at = NULL
		WHERE status = $2 AND claimed_at < NOW() - make_interval(secs => $3)
	`, domain.StatusNew, domain.StatusClaimed, maxAge.Seconds())
	if err != nil {
		return 0, fmt.Errorf("recover stuck candidates: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// GetBacklogCount reports how many candidates await processing.
func (db *DB) GetBacklogCount(ctx context.Context) (int, error) {
	var count int

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM candidates WHERE status = $1
	`, domain.StatusNew).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("get backlog count: %w", err)
	}

	return count, nil
}

// SaveAIAnalysis upserts the analysis payload for a candidate.
func (db *DB) SaveAIAnalysis(ctx context.Context, candidateID string, analysis *domain.AIAnalysis, model string) error {
	functions, err := json.Marshal(analysis.CoreFunctions)
	if err != nil {
		return fmt.Errorf("marshal core functions: %w", err)
	}

	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO ai_analyses (candidate_id, problem_description, solution_concept, core_functions, quality_score, model)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (candidate_id) DO UPDATE SET
			problem_description = EXCLUDED.problem_description,
			solution_concept = EXCLUDED.solution_concept,
			core_functions = EXCLUDED.core_functions,
			quality_score = EXCLUDED.quality_score,
			model = EXCLUDED.model,
			created_at = NOW()
	`, toUUID(candidateID), SanitizeUTF8(analysis.ProblemDescription), SanitizeUTF8(analysis.SolutionConcept),
		functions, toFloat4(analysis.QualityScore), model); err != nil {
		return fmt.Errorf("save ai analysis: %w", err)
	}

	return nil
}

// GetAIAnalysis loads the analysis payload for a candidate.
func (db *DB) GetAIAnalysis(ctx context.Context, candidateID string) (*domain.AIAnalysis, error) {
	var (
		analysis  domain.AIAnalysis
		functions []byte
		quality   pgtype.Float4
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT problem_description, solution_concept, core_functions, quality_score
		FROM ai_analyses
		WHERE candidate_id = $1
	`, toUUID(candidateID)).Scan(&analysis.ProblemDescription, &analysis.SolutionConcept, &functions, &quality)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ai analysis for candidate %s: %w", candidateID, apperrors.ErrNotFound)
		}

		return nil, fmt.Errorf("get ai analysis: %w", err)
	}

	if err := json.Unmarshal(functions, &analysis.CoreFunctions); err != nil {
		return nil, fmt.Errorf("unmarshal core functions: %w", err)
	}

	analysis.QualityScore = fromFloat4(quality)

	return &analysis, nil
}

// GetSubredditCursor returns the last seen listing fullname for a subreddit,
// or empty when the subreddit has never been collected.
func (db *DB) GetSubredditCursor(ctx context.Context, subreddit string) (string, error) {
	var fullname string

	err := db.Pool.QueryRow(ctx, `
		SELECT last_seen_fullname FROM subreddit_cursors WHERE subreddit = $1
	`, subreddit).Scan(&fullname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("get subreddit cursor: %w", err)
	}

	return fullname, nil
}

// SetSubredditCursor records the newest seen listing fullname.
func (db *DB) SetSubredditCursor(ctx context.Context, subreddit, fullname string) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO subreddit_cursors (subreddit, last_seen_fullname)
		VALUES ($1, $2)
		ON CONFLICT (subreddit) DO UPDATE SET
			last_seen_fullname = EXCLUDED.last_seen_fullname,
			updated_at = NOW()
	`, subreddit, fullname); err != nil {
		return fmt.Errorf("set subreddit cursor: %w", err)
	}

	return nil
}
