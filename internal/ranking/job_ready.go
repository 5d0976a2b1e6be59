package ranking

import (
	"strings"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/types"
)

// Readiness levels for the candidate self-view
const (
	LevelReady      = "ready"
	LevelDeveloping = "developing"
	LevelNotReady   = "not_ready"
)

const (
	readyThreshold      = 75
	developingThreshold = 50

	referenceCoreSkills    = 3
	referenceLanguageLevel = "B1"
	referenceMinYears      = 2
)

// ReferenceJob is the entry-level job a candidate is measured against in the self-view:
// the core skills of their track, German at B1, and two years of experience.
func ReferenceJob(track string) types.JobSpec {
	core := parsing.CoreTrackSkills(track, referenceCoreSkills)
	skills := make([]types.SkillRequirement, 0, len(core))
	for _, s := range core {
		skills = append(skills, types.SkillRequirement{Name: s})
	}
	title := "Entry-level consultant"
	if id := parsing.NormalizeTrack(track); id != "" {
		title = "Entry-level " + id + " consultant"
	}
	return types.JobSpec{
		Title:          title,
		RequiredSkills: skills,
		RequiredLanguages: []types.LanguageRequirement{
			{Name: parsing.DefaultLanguage, MinLevel: referenceLanguageLevel},
		},
		MinExperienceYears: referenceMinYears,
	}
}

// CalculateJobReadyScore reports how placement-ready a candidate is for their own track.
func CalculateJobReadyScore(c *types.CandidateProfile) (types.JobReadiness, error) {
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return types.JobReadiness{}, &ValidationError{Field: "id", Message: "candidate identifier is required"}
	}

	result, err := ScoreTalentJob(c, ReferenceJob(c.Track))
	if err != nil {
		return types.JobReadiness{}, err
	}

	return types.JobReadiness{
		CandidateID:  c.ID,
		Score:        result.Score,
		Breakdown:    result.Breakdown,
		Completeness: toPercent(profileCompleteness(c)),
		Level:        readinessLevel(result.Score),
	}, nil
}

func readinessLevel(score int) string {
	switch {
	case score >= readyThreshold:
		return LevelReady
	case score >= developingThreshold:
		return LevelDeveloping
	default:
		return LevelNotReady
	}
}
