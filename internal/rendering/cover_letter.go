package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/blyn/internal/types"
)

// Tone selects the wording of a cover letter.
type Tone string

// Cover letter tones
const (
	ToneProfessional   Tone = "professional"
	ToneEnthusiastic   Tone = "enthusiastic"
	ToneConfident      Tone = "confident"
	ToneCreative       Tone = "creative"
	ToneConversational Tone = "conversational"
)

// Tones lists every supported tone.
var Tones = []Tone{ToneProfessional, ToneEnthusiastic, ToneConfident, ToneCreative, ToneConversational}

// ParseTone resolves a tone name case-insensitively. Unknown names select ToneProfessional.
func ParseTone(name string) Tone {
	candidate := Tone(strings.ToLower(strings.TrimSpace(name)))
	for _, tone := range Tones {
		if tone == candidate {
			return tone
		}
	}
	return ToneProfessional
}

type toneWording struct {
	interest    string // %s is the opportunity
	role        string // %s is the role
	skills      string // %s is the skill list
	experience  string // %s is the company
	achievement string
	closing     string
	signOff     string
}

var toneWordings = map[Tone]toneWording{
	ToneProfessional: {
		interest:    "I am writing to express my interest in %s.",
		role:        "As a %s, I am confident that my background makes me a strong fit.",
		skills:      "My expertise includes %s.",
		experience:  "My experience at %s has prepared me to contribute from day one.",
		achievement: "Among my accomplishments:",
		closing:     "Thank you for considering my application. I look forward to discussing how my experience can contribute to your team.",
		signOff:     "Sincerely,",
	},
	ToneEnthusiastic: {
		interest:    "I am thrilled to apply for %s!",
		role:        "As a %s, I love building work that makes a real difference.",
		skills:      "I am especially excited to bring my skills in %s.",
		experience:  "At %s, I found out how much I enjoy solving hard problems with a great team.",
		achievement: "One highlight I am particularly proud of:",
		closing:     "I would love the chance to talk about how I can help your team succeed. Thank you so much for your time!",
		signOff:     "With enthusiasm,",
	},
	ToneConfident: {
		interest:    "I am applying for %s, and I am ready to deliver results.",
		role:        "As a %s, I have a proven record of turning goals into outcomes.",
		skills:      "I bring deep expertise in %s.",
		experience:  "At %s, I took on significant responsibility and delivered.",
		achievement: "A result that speaks for itself:",
		closing:     "I am confident I can make an immediate impact, and I welcome the opportunity to discuss it.",
		signOff:     "Sincerely,",
	},
	ToneCreative: {
		interest:    "Great work starts with the right people, which is why I am reaching out about %s.",
		role:        "As a %s, I approach every challenge with curiosity and fresh ideas.",
		skills:      "My toolkit includes %s.",
		experience:  "My chapter at %s taught me to pair imagination with execution.",
		achievement: "A story I like to tell:",
		closing:     "I would be delighted to bring that same energy to your team. Let's create something remarkable together.",
		signOff:     "Best regards,",
	},
	ToneConversational: {
		interest:    "I'd like to throw my hat in the ring for %s.",
		role:        "I'm a %s who enjoys working closely with people to get things done.",
		skills:      "Day to day I work with %s.",
		experience:  "Most recently I've been at %s.",
		achievement: "Something I'm proud of:",
		closing:     "I'd be glad to chat whenever suits you. Thanks for reading!",
		signOff:     "Best,",
	},
}

// CoverLetterOption customizes a cover letter.
type CoverLetterOption func(*coverLetterOptions)

type coverLetterOptions struct {
	jobTitle string
}

// WithJobTitle names the position applied for in the opening paragraph.
func WithJobTitle(title string) CoverLetterOption {
	return func(o *coverLetterOptions) {
		o.jobTitle = strings.TrimSpace(title)
	}
}

// RenderCoverLetter renders a template-filled cover letter. Clauses that depend on
// empty profile fields are left out entirely.
func RenderCoverLetter(profile *types.Profile, tone string, targetCompany string, opts ...CoverLetterOption) string {
	if profile == nil {
		profile = types.NewProfile()
	}
	options := &coverLetterOptions{}
	for _, opt := range opts {
		opt(options)
	}
	wording := toneWordings[ParseTone(tone)]

	var paragraphs []string
	paragraphs = append(paragraphs, "Dear Hiring Manager,")

	// Opening: opportunity, role and top skills
	opening := []string{fmt.Sprintf(wording.interest, opportunity(options.jobTitle, strings.TrimSpace(targetCompany)))}
	if role := strings.TrimSpace(profile.Role); role != "" {
		opening = append(opening, fmt.Sprintf(wording.role, role))
	}
	if skills := topSkills(profile, 3); len(skills) > 0 {
		opening = append(opening, fmt.Sprintf(wording.skills, JoinList(skills)))
	}
	paragraphs = append(paragraphs, strings.Join(opening, " "))

	// Body: first achievement and first experience
	var body []string
	if achievement := firstNonBlank(profile.Achievements); achievement != "" {
		body = append(body, wording.achievement+" "+EnsureSentence(achievement))
	}
	if len(profile.WorkExperience) > 0 {
		exp := profile.WorkExperience[0]
		if company := strings.TrimSpace(exp.Company); company != "" {
			body = append(body, fmt.Sprintf(wording.experience, company))
		}
		if sentence := FirstSentence(exp.Description); sentence != "" {
			body = append(body, sentence)
		}
	}
	if len(body) > 0 {
		paragraphs = append(paragraphs, strings.Join(body, " "))
	}

	paragraphs = append(paragraphs, wording.closing)

	signature := wording.signOff
	if name := strings.TrimSpace(profile.Name); name != "" {
		signature += "\n" + name
	}
	paragraphs = append(paragraphs, signature)

	return strings.Join(paragraphs, "\n\n") + "\n"
}

func opportunity(jobTitle, company string) string {
	switch {
	case jobTitle != "" && company != "":
		return fmt.Sprintf("the %s position at %s", jobTitle, company)
	case jobTitle != "":
		return fmt.Sprintf("the %s position", jobTitle)
	case company != "":
		return fmt.Sprintf("the opportunity at %s", company)
	default:
		return "this opportunity"
	}
}

func topSkills(profile *types.Profile, n int) []string {
	skills := profile.UniqueSkills()
	if len(skills) > n {
		skills = skills[:n]
	}
	return skills
}

func firstNonBlank(items []string) string {
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// JoinList joins items as "a", "a and b" or "a, b and c".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// FirstSentence returns the first sentence of text, ending at the first sentence
// terminator followed by whitespace or at the first line break.
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' || text[i+1] == '\t' {
				return text[:i+1]
			}
		}
	}
	return EnsureSentence(text)
}

// EnsureSentence appends a period unless text already ends with a terminator.
func EnsureSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") {
		return text
	}
	return text + "."
}
