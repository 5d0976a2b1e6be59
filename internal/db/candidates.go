package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/types"
)

const candidateColumns = `id, name, skills, languages, experience_years, track, ready, summary, cached_score`

// GetCandidate retrieves a candidate by ID. Returns nil, nil when it does not exist.
func (db *DB) GetCandidate(ctx context.Context, id string) (*types.CandidateProfile, error) {
	var row candidateRow
	err := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`,
		id,
	).Scan(&row.ID, &row.Name, &row.Skills, &row.Languages, &row.ExperienceYears, &row.Track, &row.Ready, &row.Summary, &row.CachedScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	return row.toProfile()
}

// ListCandidates retrieves candidates with optional filters, ordered by ID.
func (db *DB) ListCandidates(ctx context.Context, filter CandidateFilter) ([]types.CandidateProfile, error) {
	query, args := buildCandidateListQuery(filter)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]types.CandidateProfile, 0)
	for rows.Next() {
		var row candidateRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Skills, &row.Languages, &row.ExperienceYears, &row.Track, &row.Ready, &row.Summary, &row.CachedScore); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c, err := row.toProfile()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// buildCandidateListQuery builds the list query and its positional arguments
func buildCandidateListQuery(filter CandidateFilter) (string, []any) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE 1=1`
	args := []any{}
	argNum := 1

	if track := parsing.NormalizeTrack(filter.Track); track != "" && !parsing.IsAll(filter.Track) {
		query += fmt.Sprintf(" AND track = $%d", argNum)
		args = append(args, track)
		argNum++
	}
	if filter.ReadyOnly {
		query += " AND ready"
	}

	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d", argNum)
	args = append(args, limit)
	argNum++

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	return query, args
}

// UpsertCandidate creates or replaces a candidate record. c is normalized in place first.
func (db *DB) UpsertCandidate(ctx context.Context, c *types.CandidateProfile) error {
	if err := parsing.NormalizeCandidate(c); err != nil {
		return err
	}

	skills, err := json.Marshal(c.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	languages, err := json.Marshal(c.Languages)
	if err != nil {
		return fmt.Errorf("failed to marshal languages: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidates (id, name, skills, languages, experience_years, track, ready, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, skills = $3, languages = $4, experience_years = $5,
		   track = $6, ready = $7, summary = $8, updated_at = NOW()`,
		c.ID, c.Name, skills, languages, c.ExperienceYears, c.Track, c.Ready, c.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCandidate deletes a candidate and its cached scores (via cascade)
func (db *DB) DeleteCandidate(ctx context.Context, id string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}

// toProfile decodes the JSONB columns and applies boundary normalization
func (r *candidateRow) toProfile() (*types.CandidateProfile, error) {
	c := &types.CandidateProfile{
		ID:              r.ID,
		Name:            r.Name,
		ExperienceYears: r.ExperienceYears,
		Track:           r.Track,
		Ready:           r.Ready,
		Summary:         r.Summary,
	}

	if len(r.Skills) > 0 {
		if err := json.Unmarshal(r.Skills, &c.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills for candidate %s: %w", r.ID, err)
		}
	}
	if len(r.Languages) > 0 {
		if err := json.Unmarshal(r.Languages, &c.Languages); err != nil {
			return nil, fmt.Errorf("failed to decode languages for candidate %s: %w", r.ID, err)
		}
	}
	if len(r.CachedScore) > 0 {
		var cached types.CachedScore
		if err := json.Unmarshal(r.CachedScore, &cached); err == nil {
			c.CachedScore = &cached
		}
	}

	if err := parsing.NormalizeCandidate(c); err != nil {
		return nil, fmt.Errorf("candidate %s: %w", r.ID, err)
	}
	return c, nil
}
