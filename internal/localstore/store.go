package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/talent-match/internal/types"
)

// Store keeps cached match results in SQLite. It implements scorecache.Store.
type Store struct {
	DB *sql.DB
}

// New wraps an open database.
func New(db *sql.DB) *Store { return &Store{DB: db} }

// Open opens the database at path and creates the tables.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS candidate_scores (
	candidate_id TEXT NOT NULL,
	criteria_key TEXT NOT NULL,
	result TEXT NOT NULL,
	computed_at TEXT NOT NULL,
	PRIMARY KEY (candidate_id, criteria_key)
);
`)
	return err
}

// GetCachedScore returns the cached score, or nil, nil when nothing is stored.
func (s *Store) GetCachedScore(ctx context.Context, candidateID, criteriaKey string) (*types.CachedScore, error) {
	var result, computedAt string
	err := s.DB.QueryRowContext(ctx,
		`SELECT result, computed_at FROM candidate_scores WHERE candidate_id = ? AND criteria_key = ?`,
		candidateID, criteriaKey,
	).Scan(&result, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached score: %w", err)
	}

	score := &types.CachedScore{CandidateID: candidateID, CriteriaKey: criteriaKey}
	if err := json.Unmarshal([]byte(result), &score.Result); err != nil {
		return nil, fmt.Errorf("decode cached score: %w", err)
	}
	score.ComputedAt, err = time.Parse(time.RFC3339Nano, computedAt)
	if err != nil {
		return nil, fmt.Errorf("decode computed_at: %w", err)
	}
	return score, nil
}

// PutCachedScore stores a score. The last write wins.
func (s *Store) PutCachedScore(ctx context.Context, score *types.CachedScore) error {
	result, err := json.Marshal(score.Result)
	if err != nil {
		return fmt.Errorf("encode cached score: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
INSERT INTO candidate_scores (candidate_id, criteria_key, result, computed_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(candidate_id, criteria_key) DO UPDATE SET
	result = excluded.result,
	computed_at = excluded.computed_at
`, score.CandidateID, score.CriteriaKey, string(result), score.ComputedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put cached score: %w", err)
	}
	return nil
}

// DeleteCachedScores removes every cached score for a candidate.
func (s *Store) DeleteCachedScores(ctx context.Context, candidateID string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM candidate_scores WHERE candidate_id = ?`, candidateID); err != nil {
		return fmt.Errorf("delete cached scores: %w", err)
	}
	return nil
}

// Count returns the number of cached scores.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidate_scores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached scores: %w", err)
	}
	return n, nil
}
