package rendering

import (
	"strings"

	"github.com/jonathan/blyn/internal/types"
)

// ResumeStyle selects a cosmetic resume template. It has no behavioral effect.
type ResumeStyle string

// Resume styles
const (
	StyleModern       ResumeStyle = "modern"
	StyleProfessional ResumeStyle = "professional"
	StyleCreative     ResumeStyle = "creative"
	StyleMinimalist   ResumeStyle = "minimalist"
	StyleExecutive    ResumeStyle = "executive"
	StyleTech         ResumeStyle = "tech"
)

// ResumeStyles lists every supported style in display order.
var ResumeStyles = []ResumeStyle{StyleModern, StyleProfessional, StyleCreative, StyleMinimalist, StyleExecutive, StyleTech}

// ParseResumeStyle resolves a style name case-insensitively. Unknown names select StyleModern.
func ParseResumeStyle(name string) ResumeStyle {
	candidate := ResumeStyle(strings.ToLower(strings.TrimSpace(name)))
	for _, style := range ResumeStyles {
		if style == candidate {
			return style
		}
	}
	return StyleModern
}

// Resume section keys
const (
	SectionPersonal     = "personal"
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionSkills       = "skills"
	SectionAchievements = "achievements"
)

// Section is a labeled resume section present in a view-model.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// PersonalInfo is the resume header.
type PersonalInfo struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Location     string `json:"location"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// ExperienceItem is one position laid out for display.
type ExperienceItem struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Period      string `json:"period"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// EducationItem is one degree laid out for display.
type EducationItem struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	GraduationDate string `json:"graduationDate"`
}

// ResumeViewModel is a profile split into labeled sections ready for layout.
// Sections lists, in order, the sections that have content; personal info is always first.
type ResumeViewModel struct {
	Style        ResumeStyle      `json:"style"`
	Sections     []Section        `json:"sections"`
	Personal     PersonalInfo     `json:"personal"`
	Experience   []ExperienceItem `json:"experience"`
	Education    []EducationItem  `json:"education"`
	Skills       []string         `json:"skills"`
	Achievements []string         `json:"achievements"`
}

// HasSection reports whether the view-model includes the section.
func (v *ResumeViewModel) HasSection(key string) bool {
	for _, section := range v.Sections {
		if section.Key == key {
			return true
		}
	}
	return false
}

// RenderResume builds the resume view-model for a profile.
func RenderResume(profile *types.Profile, style string) *ResumeViewModel {
	if profile == nil {
		profile = types.NewProfile()
	}

	view := &ResumeViewModel{
		Style: ParseResumeStyle(style),
		Personal: PersonalInfo{
			Name:         strings.TrimSpace(profile.Name),
			Role:         strings.TrimSpace(profile.Role),
			Location:     strings.TrimSpace(profile.Location),
			Email:        strings.TrimSpace(profile.Email),
			Phone:        strings.TrimSpace(profile.Phone),
			ProfilePhoto: profile.ProfilePhoto,
		},
		Experience:   make([]ExperienceItem, 0, len(profile.WorkExperience)),
		Education:    make([]EducationItem, 0, len(profile.Education)),
		Skills:       profile.UniqueSkills(),
		Achievements: make([]string, 0, len(profile.Achievements)),
	}

	for _, exp := range profile.WorkExperience {
		view.Experience = append(view.Experience, ExperienceItem{
			Company:     strings.TrimSpace(exp.Company),
			Position:    strings.TrimSpace(exp.Position),
			Period:      FormatPeriod(exp.StartDate, exp.EndDate),
			Current:     exp.IsPresent() || strings.TrimSpace(exp.EndDate) == "",
			Description: strings.TrimSpace(exp.Description),
			StartDate:   strings.TrimSpace(exp.StartDate),
			EndDate:     strings.TrimSpace(exp.EndDate),
		})
	}
	for _, edu := range profile.Education {
		view.Education = append(view.Education, EducationItem{
			Institution:    strings.TrimSpace(edu.Institution),
			Degree:         strings.TrimSpace(edu.Degree),
			GraduationDate: strings.TrimSpace(edu.GraduationDate),
		})
	}
	for _, achievement := range profile.Achievements {
		if trimmed := strings.TrimSpace(achievement); trimmed != "" {
			view.Achievements = append(view.Achievements, trimmed)
		}
	}

	view.Sections = append(view.Sections, Section{Key: SectionPersonal, Title: "Personal Information"})
	if len(view.Experience) > 0 {
		view.Sections = append(view.Sections, Section{Key: SectionExperience, Title: "Work Experience"})
	}
	if len(view.Education) > 0 {
		view.Sections = append(view.Sections, Section{Key: SectionEducation, Title: "Education"})
	}
	if len(view.Skills) > 0 {
		view.Sections = append(view.Sections, Section{Key: SectionSkills, Title: "Skills"})
	}
	if len(view.Achievements) > 0 {
		view.Sections = append(view.Sections, Section{Key: SectionAchievements, Title: "Achievements"})
	}

	return view
}

// FormatPeriod formats a start/end pair as "start – end", spelling an ongoing end as "Present".
// Missing parts are left out rather than rendered as blanks.
func FormatPeriod(startDate, endDate string) string {
	start := strings.TrimSpace(startDate)
	end := strings.TrimSpace(endDate)
	if end == "" || strings.EqualFold(end, types.PresentEndDate) {
		end = "Present"
	}

	switch {
	case start == "" && end == "Present":
		return ""
	case start == "":
		return end
	default:
		return start + " – " + end
	}
}
