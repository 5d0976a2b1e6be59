package scorecache

import (
	"context"
	"sync"

	"github.com/jonathan/talent-match/internal/types"
)

// Store persists cached scores keyed by candidate ID and criteria key.
// GetCachedScore returns nil, nil when nothing is stored.
type Store interface {
	GetCachedScore(ctx context.Context, candidateID, criteriaKey string) (*types.CachedScore, error)
	PutCachedScore(ctx context.Context, score *types.CachedScore) error
	DeleteCachedScores(ctx context.Context, candidateID string) error
}

// MemoryStore is an in-process Store. Writes are last-write-wins.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]map[string]types.CachedScore
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]map[string]types.CachedScore)}
}

// GetCachedScore implements Store.
func (m *MemoryStore) GetCachedScore(_ context.Context, candidateID, criteriaKey string) (*types.CachedScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	score, ok := m.scores[candidateID][criteriaKey]
	if !ok {
		return nil, nil
	}
	return copyScore(score), nil
}

// PutCachedScore implements Store.
func (m *MemoryStore) PutCachedScore(_ context.Context, score *types.CachedScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byKey, ok := m.scores[score.CandidateID]
	if !ok {
		byKey = make(map[string]types.CachedScore)
		m.scores[score.CandidateID] = byKey
	}
	byKey[score.CriteriaKey] = *copyScore(*score)
	return nil
}

// DeleteCachedScores implements Store.
func (m *MemoryStore) DeleteCachedScores(_ context.Context, candidateID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scores, candidateID)
	return nil
}

// Len returns the number of cached entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, byKey := range m.scores {
		n += len(byKey)
	}
	return n
}

// copyScore detaches the skill slices so callers cannot mutate stored entries
func copyScore(s types.CachedScore) *types.CachedScore {
	out := s
	if s.Result.MatchedSkills != nil {
		out.Result.MatchedSkills = append([]string(nil), s.Result.MatchedSkills...)
	}
	if s.Result.MissingSkills != nil {
		out.Result.MissingSkills = append([]string(nil), s.Result.MissingSkills...)
	}
	return &out
}
