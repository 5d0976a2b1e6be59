package ranking

import (
	"context"
	"sort"

	"github.com/jonathan/talent-match/internal/types"
)

// RankCandidates scores candidates against the criteria and returns them sorted by score (descending).
// Ties are broken by candidate ID so the order is identical across runs.
// Candidates that fail validation are listed in Skipped and never ranked.
func RankCandidates(ctx context.Context, candidates []types.CandidateProfile, criteria types.MatchCriteria, workers int) (*types.RankedCandidates, error) {
	scored, err := ScoreBatch(ctx, candidates, criteria, workers)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.RankedCandidate, 0, len(scored))
	var skipped []types.SkippedCandidate
	for i, s := range scored {
		if s.Err != nil {
			skipped = append(skipped, types.SkippedCandidate{
				Index:       i,
				CandidateID: s.Candidate.ID,
				Reason:      s.Err.Error(),
			})
			continue
		}
		ranked = append(ranked, types.RankedCandidate{
			CandidateID: s.Candidate.ID,
			Name:        s.Candidate.Name,
			Track:       s.Candidate.Track,
			Result:      s.Result,
		})
	}

	SortRanked(ranked)
	return &types.RankedCandidates{Ranked: ranked, Skipped: skipped}, nil
}

// SortRanked orders by score descending then candidate ID ascending, and renumbers ranks from 1.
func SortRanked(ranked []types.RankedCandidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Result.Score != ranked[j].Result.Score {
			return ranked[i].Result.Score > ranked[j].Result.Score
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
}

// FilterByMinScore keeps entries scoring at least minScore and renumbers ranks.
func FilterByMinScore(r *types.RankedCandidates, minScore int) *types.RankedCandidates {
	if r == nil {
		return &types.RankedCandidates{Ranked: []types.RankedCandidate{}}
	}
	kept := make([]types.RankedCandidate, 0, len(r.Ranked))
	for _, rc := range r.Ranked {
		if rc.Result.Score >= minScore {
			kept = append(kept, rc)
		}
	}
	for i := range kept {
		kept[i].Rank = i + 1
	}
	return &types.RankedCandidates{Ranked: kept, Skipped: r.Skipped}
}
