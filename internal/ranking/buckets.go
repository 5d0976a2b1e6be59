package ranking

import "github.com/jonathan/talent-match/internal/types"

// Experience bucket thresholds in years: junior < 2, mid 2 to <5, senior >= 5.
const (
	midThresholdYears    = 2
	seniorThresholdYears = 5
)

// BucketForYears returns the experience bucket for a number of years.
func BucketForYears(years int) types.ExperienceBucket {
	switch {
	case years >= seniorThresholdYears:
		return types.BucketSenior
	case years >= midThresholdYears:
		return types.BucketMid
	default:
		return types.BucketJunior
	}
}

// experienceScore returns 100 when have meets need, minus 50 per bucket short.
func experienceScore(have, need types.ExperienceBucket) float64 {
	if need == types.BucketAny || have >= need {
		return 100
	}
	score := 100 - 50*float64(need-have)
	if score < 0 {
		return 0
	}
	return score
}
