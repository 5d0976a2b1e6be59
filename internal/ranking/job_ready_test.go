package ranking

import (
	"testing"

	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceJob(t *testing.T) {
	job := ReferenceJob("finance")

	assert.Equal(t, "Entry-level FI consultant", job.Title)
	assert.Equal(t, []types.SkillRequirement{
		{Name: "SAP FI"},
		{Name: "SAP FICO"},
		{Name: "S/4HANA"},
	}, job.RequiredSkills)
	assert.Equal(t, []types.LanguageRequirement{{Name: "German", MinLevel: "B1"}}, job.RequiredLanguages)
	assert.Equal(t, 2, job.MinExperienceYears)

	assert.Empty(t, ReferenceJob("").RequiredSkills)
}

func TestCalculateJobReadyScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate *types.CandidateProfile
		score     int
		level     string
	}{
		{
			name: "ready",
			candidate: &types.CandidateProfile{
				ID:              "ready",
				Skills:          []types.SkillEntry{{Name: "SAP FI"}, {Name: "fico"}, {Name: "S/4HANA"}},
				Languages:       []types.LanguageEntry{{Name: "German", Level: "B2"}},
				ExperienceYears: 4,
				Track:           "FI",
			},
			score: 100,
			level: LevelReady,
		},
		{
			name:      "developing",
			candidate: fiCandidate(),
			score:     73,
			level:     LevelDeveloping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CalculateJobReadyScore(tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.score, r.Score)
			assert.Equal(t, tt.level, r.Level)
			assert.Equal(t, 100, r.Completeness)
		})
	}
}

func TestCalculateJobReadyScore_NotReady(t *testing.T) {
	r, err := CalculateJobReadyScore(&types.CandidateProfile{ID: "new", Track: "SD"})
	require.NoError(t, err)

	assert.Equal(t, LevelNotReady, r.Level)
	assert.Less(t, r.Score, 50)
	assert.Equal(t, 25, r.Completeness)
	assert.Equal(t, 0, r.Breakdown.SkillsOverlap)
	assert.Equal(t, 0, r.Breakdown.LanguageMatch)
}

func TestCalculateJobReadyScore_MissingID(t *testing.T) {
	_, err := CalculateJobReadyScore(&types.CandidateProfile{})
	assert.Error(t, err)
}
