package rendering

import (
	"testing"

	"github.com/jonathan/blyn/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRenderResume_Sections(t *testing.T) {
	profile := &types.Profile{
		Name:   " Jane Doe ",
		Role:   "Engineer",
		Skills: []string{"Go", "GO", "Rust"},
		WorkExperience: []types.WorkExperience{
			{Company: "Acme", Position: "Dev", StartDate: "2020", EndDate: "present"},
		},
	}

	view := RenderResume(profile, "tech")

	assert.Equal(t, StyleTech, view.Style)
	assert.Equal(t, "Jane Doe", view.Personal.Name)
	assert.Equal(t, []string{"Go", "Rust"}, view.Skills)
	assert.True(t, view.HasSection(SectionPersonal))
	assert.True(t, view.HasSection(SectionExperience))
	assert.True(t, view.HasSection(SectionSkills))
	assert.False(t, view.HasSection(SectionEducation))
	assert.False(t, view.HasSection(SectionAchievements))
	assert.Equal(t, SectionPersonal, view.Sections[0].Key)

	assert.Equal(t, "2020 – Present", view.Experience[0].Period)
	assert.True(t, view.Experience[0].Current)
}

func TestRenderResume_NilProfile(t *testing.T) {
	view := RenderResume(nil, "")

	assert.Equal(t, StyleModern, view.Style)
	assert.Len(t, view.Sections, 1)
	assert.NotNil(t, view.Skills)
	assert.NotNil(t, view.Experience)
}

func TestRenderResume_DropsBlankAchievements(t *testing.T) {
	profile := types.NewProfile()
	profile.Achievements = []string{"  ", "Shipped v1"}

	view := RenderResume(profile, "executive")
	assert.Equal(t, []string{"Shipped v1"}, view.Achievements)
	assert.True(t, view.HasSection(SectionAchievements))
}

func TestParseResumeStyle(t *testing.T) {
	for _, style := range ResumeStyles {
		assert.Equal(t, style, ParseResumeStyle(string(style)))
	}
	assert.Equal(t, StyleMinimalist, ParseResumeStyle("MINIMALIST"))
	assert.Equal(t, StyleModern, ParseResumeStyle("baroque"))
}

func TestFormatPeriod(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"2019", "2021", "2019 – 2021"},
		{"2019", "present", "2019 – Present"},
		{"2019", "", "2019 – Present"},
		{"", "2021", "2021"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPeriod(tt.start, tt.end))
	}
}
