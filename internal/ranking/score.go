package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/types"
)

// Dimension weights. They sum to 1.0 and are shared by filter and job modes.
const (
	SkillsWeight    = 0.4
	LanguageWeight  = 0.3
	ReadinessWeight = 0.3
)

// Score computes the match result for one candidate against one set of criteria.
// It is a pure function: inputs are never modified and identical inputs yield identical results.
// A candidate without an identifier is rejected with a ValidationError; every other missing
// field contributes zero or a neutral value.
func Score(c *types.CandidateProfile, criteria types.MatchCriteria) (types.MatchResult, error) {
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return types.MatchResult{}, &ValidationError{Field: "id", Message: "candidate identifier is required"}
	}

	mode := criteria.Mode
	if mode == "" {
		mode = types.ModeFilter
		if criteria.Job != nil {
			mode = types.ModeJob
		}
	}

	switch mode {
	case types.ModeFilter:
		filter := types.FilterSpec{}
		if criteria.Filter != nil {
			filter = *criteria.Filter
		}
		return scoreFilter(c, filter), nil
	case types.ModeJob:
		if criteria.Job == nil {
			return types.MatchResult{}, &ValidationError{Field: "criteria", Message: "job mode requires a job spec"}
		}
		return scoreJob(c, *criteria.Job), nil
	default:
		return types.MatchResult{}, &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown match mode %q", mode)}
	}
}

// CalculateMatchScore scores a candidate for the employer filter view.
func CalculateMatchScore(c *types.CandidateProfile, filter types.FilterSpec) (types.MatchResult, error) {
	return Score(c, types.FilterCriteria(filter))
}

// ScoreTalentJob scores a candidate against a job's requirements.
func ScoreTalentJob(c *types.CandidateProfile, job types.JobSpec) (types.MatchResult, error) {
	return Score(c, types.JobCriteria(job))
}

func scoreFilter(c *types.CandidateProfile, f types.FilterSpec) types.MatchResult {
	skills, matched := computeTrackSkillsScore(c, f.Track)
	language := computeLanguageScore(c, f.Language, f.MinLanguageLevel)

	bucket := types.BucketAny
	if b, ok := parsing.ParseBucket(f.ExperienceBucket); ok {
		bucket = b
	}
	readiness := computeReadinessScore(c, bucket, !parsing.IsAll(f.Availability))

	return buildResult(skills, language, readiness, matched, nil)
}

func scoreJob(c *types.CandidateProfile, j types.JobSpec) types.MatchResult {
	skills, matched, missing := computeRequiredSkillsScore(c, j.RequiredSkills)
	language := computeRequiredLanguagesScore(c, j.RequiredLanguages)

	bucket := types.BucketAny
	if j.MinExperienceYears > 0 {
		bucket = BucketForYears(j.MinExperienceYears)
	}
	readiness := computeReadinessScore(c, bucket, false)

	return buildResult(skills, language, readiness, matched, missing)
}

func buildResult(skills, language, readiness float64, matched, missing []string) types.MatchResult {
	breakdown := types.Breakdown{
		SkillsOverlap: toPercent(skills),
		LanguageMatch: toPercent(language),
		Readiness:     toPercent(readiness),
	}
	return types.MatchResult{
		Score:         aggregate(breakdown),
		Breakdown:     breakdown,
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

// aggregate combines the rounded breakdown components, so the score is reproducible from the breakdown alone.
func aggregate(b types.Breakdown) int {
	total := SkillsWeight*float64(b.SkillsOverlap) +
		LanguageWeight*float64(b.LanguageMatch) +
		ReadinessWeight*float64(b.Readiness)
	return toPercent(math.Round(total*1e6) / 1e6)
}
