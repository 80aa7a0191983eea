// Package normalize converts raw profile records from every input source into the
// canonical Profile. Normalization is total: missing or malformed fields degrade to
// empty values and never produce an error.
package normalize

import (
	"strings"

	"github.com/jonathan/blyn/internal/types"
	"github.com/tidwall/gjson"
)

// Normalize maps a raw record onto a Profile using the field-mapping table of its source.
// Unknown sources and unparseable payloads yield an empty profile.
func Normalize(raw types.RawInput) *types.Profile {
	profile := types.NewProfile()

	mapping, ok := Mappings[raw.Source]
	if !ok || !gjson.ValidBytes(raw.Payload) {
		return profile
	}

	doc := gjson.ParseBytes(raw.Payload)
	if !doc.IsObject() {
		return profile
	}

	profile.Name = firstString(doc, mapping.Name)
	profile.Role = firstString(doc, mapping.Role)
	profile.Location = firstString(doc, mapping.Location)
	profile.Email = firstString(doc, mapping.Email)
	profile.Phone = firstString(doc, mapping.Phone)
	profile.ProfilePhoto = firstString(doc, mapping.ProfilePhoto)

	profile.Skills = normalizeSkills(firstValue(doc, mapping.Skills))
	profile.Achievements = normalizeAchievements(firstValue(doc, mapping.Achievements), mapping.FreeText)
	profile.WorkExperience = normalizeExperience(firstValue(doc, mapping.Experience.List), mapping.Experience, mapping.FreeText)
	profile.Education = normalizeEducation(firstValue(doc, mapping.Education.List), mapping.Education, mapping.FreeText)

	return profile
}

// NormalizeProfile applies defaults to an already structured profile, e.g. one edited
// by the user in a review step.
func NormalizeProfile(profile *types.Profile) *types.Profile {
	if profile == nil {
		return types.NewProfile()
	}
	out := profile.Clone()
	out.EnsureDefaults()
	for i := range out.WorkExperience {
		out.WorkExperience[i].EndDate = NormalizeEndDate(out.WorkExperience[i].EndDate)
	}
	return out
}

// NormalizeEndDate maps absent and open-ended end dates onto the present sentinel.
func NormalizeEndDate(endDate string) string {
	trimmed := strings.TrimSpace(endDate)
	switch strings.ToLower(trimmed) {
	case "", types.PresentEndDate, "current", "now", "null":
		return types.PresentEndDate
	}
	return trimmed
}

// firstValue returns the first alias path whose value is present and non-empty.
func firstValue(doc gjson.Result, paths []string) gjson.Result {
	for _, path := range paths {
		value := doc.Get(path)
		if isEmpty(value) {
			continue
		}
		return value
	}
	return gjson.Result{}
}

func firstString(doc gjson.Result, paths []string) string {
	value := firstValue(doc, paths)
	if value.IsObject() || value.IsArray() {
		return ""
	}
	return strings.TrimSpace(value.String())
}

func isEmpty(value gjson.Result) bool {
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return true
	case value.Type == gjson.String:
		return strings.TrimSpace(value.Str) == ""
	case value.IsArray():
		return len(value.Array()) == 0
	}
	return false
}

func normalizeSkills(value gjson.Result) []string {
	skills := []string{}
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			var skill string
			if item.IsObject() {
				skill = firstString(item, []string{"name", "skill", "title"})
			} else if !item.IsArray() {
				skill = strings.TrimSpace(item.String())
			}
			if skill != "" {
				skills = append(skills, skill)
			}
		}
	case value.Type == gjson.String:
		skills = append(skills, SplitSkills(value.Str)...)
	}
	return skills
}

func normalizeAchievements(value gjson.Result, freeText bool) []string {
	achievements := []string{}
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			if item.IsObject() || item.IsArray() {
				continue
			}
			if text := strings.TrimSpace(item.String()); text != "" {
				achievements = append(achievements, text)
			}
		}
	case freeText && value.Type == gjson.String:
		achievements = append(achievements, SplitAchievements(value.Str)...)
	}
	return achievements
}

func normalizeExperience(value gjson.Result, mapping ExperienceMapping, freeText bool) []types.WorkExperience {
	entries := []types.WorkExperience{}
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			if !item.IsObject() {
				continue
			}
			entries = append(entries, experienceEntry(item, mapping))
		}
	case value.IsObject():
		entries = append(entries, experienceEntry(value, mapping))
	case freeText && value.Type == gjson.String:
		entries = append(entries, SplitWorkExperience(value.Str)...)
	}
	return entries
}

func experienceEntry(item gjson.Result, mapping ExperienceMapping) types.WorkExperience {
	entry := types.WorkExperience{
		Company:     firstString(item, mapping.Company),
		Position:    firstString(item, mapping.Position),
		StartDate:   firstString(item, mapping.StartDate),
		EndDate:     firstString(item, mapping.EndDate),
		Description: firstString(item, mapping.Description),
	}

	if entry.StartDate == "" && entry.EndDate == "" {
		if dateRange := firstString(item, mapping.DateRange); dateRange != "" {
			entry.StartDate, entry.EndDate = SplitDateRange(dateRange)
		}
	}
	entry.EndDate = NormalizeEndDate(entry.EndDate)
	return entry
}

func normalizeEducation(value gjson.Result, mapping EducationMapping, freeText bool) []types.Education {
	entries := []types.Education{}
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			if !item.IsObject() {
				continue
			}
			entries = append(entries, educationEntry(item, mapping))
		}
	case value.IsObject():
		entries = append(entries, educationEntry(value, mapping))
	case freeText && value.Type == gjson.String:
		entries = append(entries, SplitEducation(value.Str)...)
	}
	return entries
}

func educationEntry(item gjson.Result, mapping EducationMapping) types.Education {
	entry := types.Education{
		Institution:    firstString(item, mapping.Institution),
		Degree:         firstString(item, mapping.Degree),
		GraduationDate: firstString(item, mapping.GraduationDate),
	}

	if field := firstString(item, mapping.Field); field != "" {
		if entry.Degree == "" {
			entry.Degree = field
		} else {
			entry.Degree = entry.Degree + ", " + field
		}
	}

	if entry.GraduationDate == "" {
		if dateRange := firstString(item, mapping.DateRange); dateRange != "" {
			start, end := SplitDateRange(dateRange)
			entry.GraduationDate = end
			if end == "" || strings.EqualFold(end, types.PresentEndDate) {
				entry.GraduationDate = start
			}
		}
	}
	return entry
}
