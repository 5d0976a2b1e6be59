package ranking

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-match/internal/types"
)

// Scored pairs a candidate with its result. Err is set when the candidate could not be scored.
type Scored struct {
	Candidate *types.CandidateProfile
	Result    types.MatchResult
	Err       error
}

// ScoreBatch scores every candidate against the same criteria using up to workers goroutines.
// Results keep the input order. Per-candidate failures are reported in Scored.Err;
// the returned error is only set when ctx is cancelled.
func ScoreBatch(ctx context.Context, candidates []types.CandidateProfile, criteria types.MatchCriteria, workers int) ([]Scored, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Scored, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := &candidates[i]
			result, err := Score(c, criteria)
			results[i] = Scored{Candidate: c, Result: result, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
