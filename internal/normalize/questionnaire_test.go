package normalize

import (
	"testing"

	"github.com/jonathan/blyn/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestSplitEducation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.Education
	}{
		{
			name:  "three fields",
			input: "Berkeley, BS CS, 2020",
			want:  []types.Education{{Institution: "Berkeley", Degree: "BS CS", GraduationDate: "2020"}},
		},
		{
			name:  "no commas",
			input: "Berkeley",
			want:  []types.Education{{Institution: "Berkeley", Degree: "", GraduationDate: ""}},
		},
		{
			name:  "extra fields ignored",
			input: "MIT, BS, Physics, 2010",
			want:  []types.Education{{Institution: "MIT", Degree: "BS", GraduationDate: "Physics"}},
		},
		{
			name:  "one entry per line",
			input: "MIT, PhD, 2015\n\nHarvard, BA, 2010\r\n",
			want: []types.Education{
				{Institution: "MIT", Degree: "PhD", GraduationDate: "2015"},
				{Institution: "Harvard", Degree: "BA", GraduationDate: "2010"},
			},
		},
		{
			name:  "blank",
			input: "   ",
			want:  []types.Education{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitEducation(tt.input))
		})
	}
}

func TestSplitWorkExperience(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.WorkExperience
	}{
		{
			name:  "guided form block",
			input: "Acme Inc\nSoftware Engineer\nBuilt the thing.\nShipped it too.",
			want: []types.WorkExperience{{
				Company: "Acme Inc", Position: "Software Engineer",
				EndDate: types.PresentEndDate, Description: "Built the thing.\nShipped it too.",
			}},
		},
		{
			name:  "company only",
			input: "Acme Inc",
			want:  []types.WorkExperience{{Company: "Acme Inc", EndDate: types.PresentEndDate}},
		},
		{
			name:  "blank lines stay in the description",
			input: "Acme Inc\nSoftware Engineer\nBuilt the thing.\n\nShipped it too.",
			want: []types.WorkExperience{{
				Company: "Acme Inc", Position: "Software Engineer",
				EndDate: types.PresentEndDate, Description: "Built the thing.\n\nShipped it too.",
			}},
		},
		{
			name:  "windows line endings and surrounding newlines",
			input: "\r\nAcme\r\nEngineer\r\nDid things.\r\n\r\n",
			want: []types.WorkExperience{{
				Company: "Acme", Position: "Engineer", EndDate: types.PresentEndDate, Description: "Did things.",
			}},
		},
		{
			name:  "blank",
			input: "\n\n",
			want:  []types.WorkExperience{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitWorkExperience(tt.input))
		})
	}
}

func TestSplitSkillsAndAchievements(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, SplitSkills(" Go ,, SQL ,"))
	assert.Equal(t, []string{}, SplitSkills(""))
	assert.Equal(t, []string{"One", "Two"}, SplitAchievements("One\n   \nTwo\n"))
}

func TestSplitDateRange(t *testing.T) {
	tests := []struct {
		input      string
		start, end string
	}{
		{input: "Jan 2020 – Present", start: "Jan 2020", end: "Present"},
		{input: "Jan 2020 – Mar 2023 · 3 yrs 3 mos", start: "Jan 2020", end: "Mar 2023"},
		{input: "2016 - 2018", start: "2016", end: "2018"},
		{input: "2012", start: "2012", end: ""},
		{input: "", start: "", end: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end := SplitDateRange(tt.input)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
