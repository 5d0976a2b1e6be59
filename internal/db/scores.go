package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-match/internal/types"
)

// GetCachedScore retrieves the cached score for a candidate and criteria key.
// Returns nil, nil when nothing is cached.
func (db *DB) GetCachedScore(ctx context.Context, candidateID, criteriaKey string) (*types.CachedScore, error) {
	score := types.CachedScore{CandidateID: candidateID, CriteriaKey: criteriaKey}
	var result []byte
	err := db.pool.QueryRow(ctx,
		`SELECT result, computed_at FROM candidate_scores
		 WHERE candidate_id = $1 AND criteria_key = $2`,
		candidateID, criteriaKey,
	).Scan(&result, &score.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached score: %w", err)
	}
	if err := json.Unmarshal(result, &score.Result); err != nil {
		return nil, fmt.Errorf("failed to decode cached score: %w", err)
	}
	return &score, nil
}

// PutCachedScore stores a cached score (last write wins) and copies it onto the candidate record
// for display.
func (db *DB) PutCachedScore(ctx context.Context, score *types.CachedScore) error {
	result, err := json.Marshal(score.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal cached score: %w", err)
	}
	display, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal cached score: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO candidate_scores (candidate_id, criteria_key, result, computed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (candidate_id, criteria_key) DO UPDATE SET result = $3, computed_at = $4`,
		score.CandidateID, score.CriteriaKey, result, score.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save cached score: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE candidates SET cached_score = $2 WHERE id = $1`,
		score.CandidateID, display,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate cached score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cached score: %w", err)
	}
	return nil
}

// DeleteCachedScores removes every cached score for a candidate
func (db *DB) DeleteCachedScores(ctx context.Context, candidateID string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_scores WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to delete cached scores: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE candidates SET cached_score = NULL WHERE id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear candidate cached score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cached score deletion: %w", err)
	}
	return nil
}
