package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTrack(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FI", TrackFI},
		{" fi ", TrackFI},
		{"Financial  Accounting", TrackFI},
		{"fico", TrackFI},
		{"Finance", TrackFI},
		{"technical", TrackABAP},
		{"sales and distribution", TrackSD},
		{"basis", TrackBasis},
		{"hr", TrackHCM},
		{"ewm", "EWM"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTrack(tt.input))
		})
	}
}

func TestTrackSkills_ReturnsCopy(t *testing.T) {
	skills := TrackSkills("fi")
	assert.Equal(t, "SAP FI", skills[0])

	skills[0] = "changed"
	assert.Equal(t, "SAP FI", TrackSkills(TrackFI)[0])

	assert.Nil(t, TrackSkills("unknown"))
}

func TestCoreTrackSkills(t *testing.T) {
	assert.Equal(t, []string{"SAP FI", "SAP FICO", "S/4HANA"}, CoreTrackSkills(TrackFI, 3))
	assert.Len(t, CoreTrackSkills(TrackPP, 10), 5)
	assert.Empty(t, CoreTrackSkills("unknown", 3))

	core := CoreTrackSkills("MM", 3)
	assert.Equal(t, []string{"SAP MM", "S/4HANA", "Procurement"}, core)
	core[0] = "changed"
	assert.Equal(t, "SAP MM", TrackSkills("MM")[0])
}

func TestIsTrackSkill(t *testing.T) {
	assert.True(t, IsTrackSkill(TrackFI, "SAP FI"))
	assert.True(t, IsTrackSkill(TrackFI, "fico"))
	assert.True(t, IsTrackSkill("finance", "s/4 hana"))
	assert.True(t, IsTrackSkill(TrackABAP, "abap"))
	assert.True(t, IsTrackSkill(TrackABAP, "odata"))
	assert.True(t, IsTrackSkill("EWM", "SAP EWM"))
	assert.False(t, IsTrackSkill(TrackFI, "ABAP"))
	assert.False(t, IsTrackSkill(TrackSD, "SAP MM"))
	assert.False(t, IsTrackSkill("", "SAP FI"))
	assert.False(t, IsTrackSkill(TrackFI, ""))
}
