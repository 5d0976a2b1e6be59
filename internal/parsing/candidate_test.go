package parsing

import (
	"errors"
	"testing"

	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidate_AppliesDefaults(t *testing.T) {
	data := []byte(`{
		"id": "  cand_001 ",
		"skills": ["fi", {"name": "abap", "level": "expert"}, ""],
		"languages": [{"german": "b1"}, {"name": "English", "level": "fluent"}],
		"experience_years": -2,
		"track": "finance"
	}`)

	c, err := DecodeCandidate(data)
	require.NoError(t, err)

	assert.Equal(t, "cand_001", c.ID)
	assert.Equal(t, []types.SkillEntry{
		{Name: "SAP FI"},
		{Name: "ABAP", Level: "Advanced"},
	}, c.Skills)
	assert.Equal(t, []types.LanguageEntry{
		{Name: "German", Level: "B1"},
		{Name: "English", Level: ""},
	}, c.Languages)
	assert.Equal(t, 0, c.ExperienceYears)
	assert.Equal(t, TrackFI, c.Track)
}

func TestDecodeCandidate_MissingListsBecomeEmpty(t *testing.T) {
	c, err := DecodeCandidate([]byte(`{"id": "cand_002"}`))
	require.NoError(t, err)

	assert.NotNil(t, c.Skills)
	assert.Empty(t, c.Skills)
	assert.NotNil(t, c.Languages)
	assert.Empty(t, c.Languages)
}

func TestDecodeCandidate_MissingID(t *testing.T) {
	_, err := DecodeCandidate([]byte(`{"skills": ["ABAP"]}`))
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "error should be ValidationError type")
	assert.Equal(t, "id", ve.Field)
}

func TestDecodeCandidate_BlankID(t *testing.T) {
	_, err := DecodeCandidate([]byte(`{"id": "   "}`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "id", ve.Field)
}

func TestDecodeCandidate_WrongTypedFieldsFallBack(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, c *types.CandidateProfile)
	}{
		{"experience as word", `{"id": "c1", "experience_years": "three"}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Equal(t, 0, c.ExperienceYears)
		}},
		{"experience as numeric string", `{"id": "c1", "experience_years": "3"}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Equal(t, 0, c.ExperienceYears)
		}},
		{"fractional experience", `{"id": "c1", "experience_years": 2.5}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Equal(t, 0, c.ExperienceYears)
		}},
		{"skills as string", `{"id": "c1", "skills": "ABAP"}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.NotNil(t, c.Skills)
			assert.Empty(t, c.Skills)
		}},
		{"bad skill entry dropped", `{"id": "c1", "skills": [42, "ABAP", {"level": "Advanced"}]}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Equal(t, []types.SkillEntry{{Name: "ABAP"}}, c.Skills)
		}},
		{"numeric language level", `{"id": "c1", "languages": [{"German": 1}]}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.NotNil(t, c.Languages)
			assert.Empty(t, c.Languages)
		}},
		{"bad language entry dropped", `{"id": "c1", "languages": [{"German": 1}, {"English": "c1"}]}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Equal(t, []types.LanguageEntry{{Name: "English", Level: "C1"}}, c.Languages)
		}},
		{"ready as string", `{"id": "c1", "ready": "yes"}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.False(t, c.Ready)
		}},
		{"track as number", `{"id": "c1", "track": 7, "name": ["x"]}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Empty(t, c.Track)
			assert.Empty(t, c.Name)
		}},
		{"cached score as string", `{"id": "c1", "cached_score": "stale"}`, func(t *testing.T, c *types.CandidateProfile) {
			assert.Nil(t, c.CachedScore)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeCandidate([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, "c1", c.ID)
			tt.check(t, c)
		})
	}
}

func TestDecodeCandidate_WrongTypedFieldKeepsOthers(t *testing.T) {
	c, err := DecodeCandidate([]byte(`{"id": "c1", "experience_years": "3", "skills": ["fi"], "ready": true}`))
	require.NoError(t, err)

	assert.Equal(t, 0, c.ExperienceYears)
	assert.Equal(t, []types.SkillEntry{{Name: "SAP FI"}}, c.Skills)
	assert.True(t, c.Ready)
}

func TestDecodeCandidate_NonStringID(t *testing.T) {
	_, err := DecodeCandidate([]byte(`{"id": 7}`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "id", ve.Field)
}

func TestDecodeCandidate_InvalidJSON(t *testing.T) {
	_, err := DecodeCandidate([]byte(`{ invalid json }`))
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestDecodeCandidates(t *testing.T) {
	data := []byte(`[{"id": "a"}, {"id": "b", "skills": ["mm"]}]`)

	list, err := DecodeCandidates(data)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "SAP MM", list[1].Skills[0].Name)
}

func TestDecodeCandidates_ReportsIndex(t *testing.T) {
	_, err := DecodeCandidates([]byte(`[{"id": "a"}, {"name": "no id"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate 1")

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestDecodeCandidatePool_KeepsValidRecords(t *testing.T) {
	data := []byte(`[
		{"id": "a", "skills": ["fi"]},
		{"name": "no id"},
		{"id": "c", "experience_years": "three"},
		{"id": "d"}
	]`)

	list, skipped, err := DecodeCandidatePool(data)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	assert.Equal(t, 0, list[1].ExperienceYears)
	assert.Equal(t, "d", list[2].ID)

	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Empty(t, skipped[0].CandidateID)
	assert.Contains(t, skipped[0].Reason, "id")
}

func TestMergeSkipped_MapsPoolIndicesToRawPositions(t *testing.T) {
	// raw: [0 ok, 1 bad, 2 ok, 3 bad, 4 ok]; decoded pool: [raw 0, raw 2, raw 4]
	decoded := []types.SkippedCandidate{
		{Index: 3, Reason: "missing id"},
		{Index: 1, Reason: "missing id"},
	}
	scored := []types.SkippedCandidate{
		{Index: 2, CandidateID: "e", Reason: "scoring failed"},
		{Index: 0, CandidateID: "a", Reason: "scoring failed"},
		{Index: 1, CandidateID: "c", Reason: "scoring failed"},
	}

	merged := MergeSkipped(decoded, scored)
	require.Len(t, merged, 5)
	for i, s := range merged {
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, "a", merged[0].CandidateID)
	assert.Equal(t, "c", merged[2].CandidateID)
	assert.Equal(t, "e", merged[4].CandidateID)
}

func TestMergeSkipped_Empty(t *testing.T) {
	assert.Nil(t, MergeSkipped(nil, nil))

	only := MergeSkipped(nil, []types.SkippedCandidate{{Index: 2}})
	require.Len(t, only, 1)
	assert.Equal(t, 2, only[0].Index)

	leading := MergeSkipped([]types.SkippedCandidate{{Index: 0}}, []types.SkippedCandidate{{Index: 0, CandidateID: "b"}})
	require.Len(t, leading, 2)
	assert.Equal(t, 1, leading[1].Index)
	assert.Equal(t, "b", leading[1].CandidateID)
}

func TestDecodeCandidatePool_NotAnArray(t *testing.T) {
	_, _, err := DecodeCandidatePool([]byte(`{"id": "a"}`))
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestDecodeCriteria_Filter(t *testing.T) {
	c, err := DecodeCriteria([]byte(`{"filter": {"track": "finance", "min_language_level": "b1", "experience_bucket": "2-5"}}`))
	require.NoError(t, err)

	assert.Equal(t, types.ModeFilter, c.Mode)
	assert.Equal(t, TrackFI, c.Filter.Track)
	assert.Equal(t, "B1", c.Filter.MinLanguageLevel)
	assert.Equal(t, DefaultLanguage, c.Filter.Language)
	assert.Equal(t, "mid", c.Filter.ExperienceBucket)
	assert.Equal(t, types.AllValue, c.Filter.Availability)
}

func TestDecodeCriteria_EmptyIsAllSentinel(t *testing.T) {
	for _, payload := range []string{"", "{}"} {
		c, err := DecodeCriteria([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, types.ModeFilter, c.Mode)
		require.NotNil(t, c.Filter)
		assert.True(t, IsAll(c.Filter.Track))
		assert.True(t, IsAll(c.Filter.MinLanguageLevel))
		assert.True(t, IsAll(c.Filter.ExperienceBucket))
	}
}

func TestDecodeCriteria_Job(t *testing.T) {
	c, err := DecodeCriteria([]byte(`{
		"job": {
			"required_skills": [{"name": "fico", "min_level": "advanced"}],
			"required_languages": [{"name": "german", "min_level": "c1"}],
			"min_experience_years": 3
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, types.ModeJob, c.Mode)
	assert.Equal(t, "SAP FICO", c.Job.RequiredSkills[0].Name)
	assert.Equal(t, "Advanced", c.Job.RequiredSkills[0].MinLevel)
	assert.Equal(t, "German", c.Job.RequiredLanguages[0].Name)
	assert.Equal(t, "C1", c.Job.RequiredLanguages[0].MinLevel)
}

func TestDecodeCriteria_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"unknown CEFR", `{"filter": {"min_language_level": "Z9"}}`, "min_language_level"},
		{"unknown bucket", `{"filter": {"experience_bucket": "lead"}}`, "experience_bucket"},
		{"job mode without job", `{"mode": "job"}`, "job"},
		{"blank required skill", `{"job": {"required_skills": [{"name": ""}]}}`, "required_skills[0].name"},
		{"unknown job language level", `{"job": {"required_languages": [{"name": "German", "min_level": "fluent"}]}}`, "required_languages[0].min_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCriteria([]byte(tt.payload))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %T: %v", err, err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
