package rendering

import (
	"strings"
	"testing"

	"github.com/jonathan/blyn/internal/types"
	"github.com/stretchr/testify/assert"
)

func coverLetterProfile() *types.Profile {
	return &types.Profile{
		Name:   "Grace Hopper",
		Role:   "Compiler Engineer",
		Skills: []string{"COBOL", "Compilers", "Leadership", "Debugging"},
		WorkExperience: []types.WorkExperience{
			{Company: "US Navy", Position: "Rear Admiral", Description: "Led the team that built the first compiler. Popularized the term debugging."},
		},
		Achievements: []string{"Invented the first linker"},
	}
}

func TestRenderCoverLetter_Structure(t *testing.T) {
	letter := RenderCoverLetter(coverLetterProfile(), "professional", "Acme", WithJobTitle("Staff Engineer"))

	assert.True(t, strings.HasPrefix(letter, "Dear Hiring Manager,\n\n"))
	assert.Contains(t, letter, "the Staff Engineer position at Acme")
	assert.Contains(t, letter, "As a Compiler Engineer")
	assert.Contains(t, letter, "COBOL, Compilers and Leadership")
	assert.NotContains(t, letter, "Debugging,")
	assert.Contains(t, letter, "Invented the first linker.")
	assert.Contains(t, letter, "US Navy")
	assert.Contains(t, letter, "Led the team that built the first compiler.")
	assert.NotContains(t, letter, "Popularized")
	assert.True(t, strings.HasSuffix(letter, "Sincerely,\nGrace Hopper\n"))
}

func TestRenderCoverLetter_OmitsEmptyClauses(t *testing.T) {
	letter := RenderCoverLetter(types.NewProfile(), "professional", "")

	assert.Contains(t, letter, "this opportunity")
	assert.NotContains(t, letter, "As a")
	assert.NotContains(t, letter, "My expertise includes")
	assert.NotContains(t, letter, "Among my accomplishments")
	assert.NotContains(t, letter, "  ")
	assert.True(t, strings.HasSuffix(letter, "Sincerely,\n"))
}

func TestRenderCoverLetter_Tones(t *testing.T) {
	tests := []struct {
		tone    string
		signOff string
	}{
		{tone: "professional", signOff: "Sincerely,"},
		{tone: "enthusiastic", signOff: "With enthusiasm,"},
		{tone: "confident", signOff: "Sincerely,"},
		{tone: "creative", signOff: "Best regards,"},
		{tone: "conversational", signOff: "Best,"},
		{tone: "unknown", signOff: "Sincerely,"},
	}

	for _, tt := range tests {
		t.Run(tt.tone, func(t *testing.T) {
			letter := RenderCoverLetter(coverLetterProfile(), tt.tone, "Acme")
			assert.Contains(t, letter, tt.signOff+"\nGrace Hopper")
		})
	}
}

func TestRenderCoverLetter_Deterministic(t *testing.T) {
	a := RenderCoverLetter(coverLetterProfile(), "creative", "Acme")
	b := RenderCoverLetter(coverLetterProfile(), "creative", "Acme")
	assert.Equal(t, a, b)
}

func TestParseTone(t *testing.T) {
	assert.Equal(t, ToneEnthusiastic, ParseTone(" Enthusiastic "))
	assert.Equal(t, ToneProfessional, ParseTone(""))
	assert.Equal(t, ToneProfessional, ParseTone("sarcastic"))
}

func TestOpportunity(t *testing.T) {
	assert.Equal(t, "the Engineer position at Acme", opportunity("Engineer", "Acme"))
	assert.Equal(t, "the Engineer position", opportunity("Engineer", ""))
	assert.Equal(t, "the opportunity at Acme", opportunity("", "Acme"))
	assert.Equal(t, "this opportunity", opportunity("", ""))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", JoinList(nil))
	assert.Equal(t, "a", JoinList([]string{"a"}))
	assert.Equal(t, "a and b", JoinList([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", JoinList([]string{"a", "b", "c"}))
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "One. Two.", want: "One."},
		{in: "Wow! Then more", want: "Wow!"},
		{in: "Line one\nLine two", want: "Line one."},
		{in: "Version 1.2 shipped", want: "Version 1.2 shipped."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstSentence(tt.in), tt.in)
	}
}
