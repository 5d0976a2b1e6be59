// Package scorecache provides a read-through cache of match results.
// The cache is a display optimization only: a stored score is never treated as authoritative
// and is recomputed once it is older than the staleness window.
package scorecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/logger"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

// DefaultTTL is the staleness window for cached scores.
const DefaultTTL = 24 * time.Hour

// Cache computes match results through ranking.Score and keeps a best-effort copy in a Store.
type Cache struct {
	store     Store
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
	skipCache bool
}

// Config holds configuration for the cache.
type Config struct {
	TTL       time.Duration
	SkipCache bool // Always recompute, still writing results back
	Now       func() time.Time
	Logger    *zap.Logger
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() *Config {
	return &Config{
		TTL: DefaultTTL,
		Now: time.Now,
	}
}

// New creates a cache over store. A nil store disables caching entirely.
func New(store Store, config *Config) *Cache {
	if config == nil {
		config = DefaultConfig()
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		store:     store,
		ttl:       ttl,
		now:       now,
		logger:    logger.OrNop(config.Logger),
		skipCache: config.SkipCache,
	}
}

// Lookup is a match result with cache metadata.
type Lookup struct {
	Result     types.MatchResult
	FromCache  bool
	ComputedAt time.Time
}

// Get returns the match result for a candidate, from cache when a fresh copy exists.
// Store failures are logged and never change the returned result.
// Validation errors from the scorer are returned as-is.
func (c *Cache) Get(ctx context.Context, candidate *types.CandidateProfile, criteria types.MatchCriteria) (*Lookup, error) {
	key, err := CriteriaKey(criteria)
	if err != nil {
		return nil, err
	}

	if candidate != nil && strings.TrimSpace(candidate.ID) != "" && !c.skipCache {
		if cached := c.lookup(ctx, candidate, key); cached != nil {
			return &Lookup{Result: cached.Result, FromCache: true, ComputedAt: cached.ComputedAt}, nil
		}
	}

	result, err := ranking.Score(candidate, criteria)
	if err != nil {
		return nil, err
	}

	computedAt := c.now()
	if c.store != nil {
		score := &types.CachedScore{
			CandidateID: candidate.ID,
			CriteriaKey: key,
			Result:      result,
			ComputedAt:  computedAt,
		}
		if err := c.store.PutCachedScore(ctx, score); err != nil {
			c.logger.Warn("failed to write cached score", append(logger.CandidateFields(candidate.ID, key), zap.Error(err))...)
		}
	}

	return &Lookup{Result: result, ComputedAt: computedAt}, nil
}

// lookup checks the candidate's embedded copy first, then the store
func (c *Cache) lookup(ctx context.Context, candidate *types.CandidateProfile, key string) *types.CachedScore {
	now := c.now()

	if embedded := candidate.CachedScore; embedded != nil && embedded.CriteriaKey == key && embedded.IsFresh(now, c.ttl) {
		return embedded
	}
	if c.store == nil {
		return nil
	}

	cached, err := c.store.GetCachedScore(ctx, candidate.ID, key)
	if err != nil {
		c.logger.Warn("failed to read cached score", append(logger.CandidateFields(candidate.ID, key), zap.Error(err))...)
		return nil
	}
	if !cached.IsFresh(now, c.ttl) {
		if cached != nil {
			c.logger.Debug("cached score is stale", logger.CandidateFields(candidate.ID, key)...)
		}
		return nil
	}
	return cached
}

// Put stores a result for the candidate and criteria. The last write wins.
func (c *Cache) Put(ctx context.Context, candidateID string, criteria types.MatchCriteria, result types.MatchResult) error {
	if c.store == nil {
		return nil
	}
	key, err := CriteriaKey(criteria)
	if err != nil {
		return err
	}
	return c.store.PutCachedScore(ctx, &types.CachedScore{
		CandidateID: candidateID,
		CriteriaKey: key,
		Result:      result,
		ComputedAt:  c.now(),
	})
}

// Invalidate drops every cached score for a candidate.
func (c *Cache) Invalidate(ctx context.Context, candidateID string) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.DeleteCachedScores(ctx, candidateID); err != nil {
		return fmt.Errorf("failed to invalidate cached scores for %s: %w", candidateID, err)
	}
	return nil
}

// CriteriaKey returns a stable hex digest of the criteria. Equivalent spellings of the
// default filter (no mode, nil filter) share one key.
func CriteriaKey(criteria types.MatchCriteria) (string, error) {
	canonical := criteria
	if canonical.Mode == "" {
		canonical.Mode = types.ModeFilter
		if canonical.Job != nil {
			canonical.Mode = types.ModeJob
		}
	}
	switch canonical.Mode {
	case types.ModeFilter:
		canonical.Job = nil
		if canonical.Filter == nil {
			canonical.Filter = &types.FilterSpec{}
		}
	case types.ModeJob:
		canonical.Filter = nil
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to encode criteria: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
