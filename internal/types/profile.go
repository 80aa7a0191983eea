// Package types provides type definitions for structured data used throughout the career profile pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// PresentEndDate marks a work experience entry that has not ended.
const PresentEndDate = "present"

// Profile is the canonical structured representation of one person's career data.
// After normalization every slice is non-nil and every scalar is set (possibly empty).
type Profile struct {
	Name           string           `json:"name"`
	Role           string           `json:"role"`
	Location       string           `json:"location"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	ProfilePhoto   string           `json:"profilePhoto,omitempty"` // URL of the staged photo
	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Achievements   []string         `json:"achievements"`
}

// WorkExperience is a single position held, most recent first by convention
type WorkExperience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"` // PresentEndDate when ongoing
	Description string `json:"description"`
}

// Education is a single degree or program
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	GraduationDate string `json:"graduationDate"`
}

// NewProfile returns an empty profile with every slice initialized.
func NewProfile() *Profile {
	return &Profile{
		Skills:         []string{},
		WorkExperience: []WorkExperience{},
		Education:      []Education{},
		Achievements:   []string{},
	}
}

// EnsureDefaults replaces nil slices with empty ones and absent end dates with PresentEndDate.
// Profiles edited by hand (e.g. in a review step) pass through this before rendering.
func (p *Profile) EnsureDefaults() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	for i := range p.WorkExperience {
		if strings.TrimSpace(p.WorkExperience[i].EndDate) == "" {
			p.WorkExperience[i].EndDate = PresentEndDate
		}
	}
}

// IsPresent reports whether the entry is ongoing.
func (w WorkExperience) IsPresent() bool {
	return strings.EqualFold(w.EndDate, PresentEndDate)
}

// UniqueSkills returns the skills de-duplicated case-insensitively, keeping the first
// spelling and the original order. Blank entries are dropped.
func (p *Profile) UniqueSkills() []string {
	out := make([]string, 0, len(p.Skills))
	seen := make(map[string]struct{}, len(p.Skills))
	for _, skill := range p.Skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// Clone returns a deep copy so downstream consumers can treat it as immutable.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.WorkExperience = append([]WorkExperience{}, p.WorkExperience...)
	c.Education = append([]Education{}, p.Education...)
	c.Achievements = append([]string{}, p.Achievements...)
	return &c
}
