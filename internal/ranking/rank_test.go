package ranking

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenCandidates() []types.CandidateProfile {
	levels := []string{"C1", "B1", "A2", "B1", "C1", "", "B2", "B1", "A1", "C2"}
	out := make([]types.CandidateProfile, 0, len(levels))
	for i, level := range levels {
		c := types.CandidateProfile{
			ID:              fmt.Sprintf("cand_%02d", 10-i),
			Skills:          []types.SkillEntry{{Name: "SAP MM"}},
			Languages:       []types.LanguageEntry{},
			ExperienceYears: i,
			Track:           "MM",
		}
		if level != "" {
			c.Languages = append(c.Languages, types.LanguageEntry{Name: "German", Level: level})
		}
		out = append(out, c)
	}
	return out
}

func TestRankCandidates_SortedByScore(t *testing.T) {
	criteria := types.FilterCriteria(types.FilterSpec{Track: "MM", MinLanguageLevel: "B2"})

	ranked, err := RankCandidates(context.Background(), tenCandidates(), criteria, 4)
	require.NoError(t, err)
	require.Len(t, ranked.Ranked, 10)
	assert.Empty(t, ranked.Skipped)

	for i, rc := range ranked.Ranked {
		assert.Equal(t, i+1, rc.Rank)
		if i > 0 {
			prev := ranked.Ranked[i-1]
			assert.GreaterOrEqual(t, prev.Result.Score, rc.Result.Score)
			if prev.Result.Score == rc.Result.Score {
				assert.Less(t, prev.CandidateID, rc.CandidateID, "ties break on candidate ID")
			}
		}
	}
}

func TestRankCandidates_StableAcrossRuns(t *testing.T) {
	criteria := types.FilterCriteria(types.FilterSpec{Track: "MM", MinLanguageLevel: "B1", ExperienceBucket: "mid"})

	first, err := RankCandidates(context.Background(), tenCandidates(), criteria, 3)
	require.NoError(t, err)
	second, err := RankCandidates(context.Background(), tenCandidates(), criteria, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRankCandidates_SkipsInvalid(t *testing.T) {
	candidates := []types.CandidateProfile{
		{ID: "b"},
		{ID: ""},
		{ID: "a"},
	}

	ranked, err := RankCandidates(context.Background(), candidates, types.MatchCriteria{}, 0)
	require.NoError(t, err)

	require.Len(t, ranked.Ranked, 2)
	assert.Equal(t, "a", ranked.Ranked[0].CandidateID)
	assert.Equal(t, "b", ranked.Ranked[1].CandidateID)
	require.Len(t, ranked.Skipped, 1)
	assert.Equal(t, 1, ranked.Skipped[0].Index)
	assert.Contains(t, ranked.Skipped[0].Reason, "identifier")
}

func TestRankCandidates_Empty(t *testing.T) {
	ranked, err := RankCandidates(context.Background(), nil, types.MatchCriteria{}, 2)
	require.NoError(t, err)
	assert.NotNil(t, ranked.Ranked)
	assert.Empty(t, ranked.Ranked)
}

func TestFilterByMinScore(t *testing.T) {
	r := &types.RankedCandidates{Ranked: []types.RankedCandidate{
		{Rank: 1, CandidateID: "a", Result: types.MatchResult{Score: 90}},
		{Rank: 2, CandidateID: "b", Result: types.MatchResult{Score: 70}},
		{Rank: 3, CandidateID: "c", Result: types.MatchResult{Score: 40}},
	}}

	filtered := FilterByMinScore(r, 70)
	require.Len(t, filtered.Ranked, 2)
	assert.Equal(t, "b", filtered.Ranked[1].CandidateID)
	assert.Equal(t, 2, filtered.Ranked[1].Rank)

	// Input is left untouched
	assert.Len(t, r.Ranked, 3)

	assert.Empty(t, FilterByMinScore(nil, 10).Ranked)
}

func TestScoreBatch_PreservesOrder(t *testing.T) {
	candidates := tenCandidates()

	scored, err := ScoreBatch(context.Background(), candidates, types.MatchCriteria{}, 2)
	require.NoError(t, err)
	require.Len(t, scored, len(candidates))

	for i, s := range scored {
		require.NoError(t, s.Err)
		assert.Equal(t, candidates[i].ID, s.Candidate.ID)
		assert.Equal(t, 100, s.Result.Score)
	}
}

func TestScoreBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScoreBatch(ctx, tenCandidates(), types.MatchCriteria{}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
