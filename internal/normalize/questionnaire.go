package normalize

import (
	"regexp"
	"strings"

	"github.com/jonathan/blyn/internal/types"
)

var rangeSplitter = regexp.MustCompile(`\s+[–—-]\s+`)

// SplitSkills splits a comma-separated answer, trimming entries and dropping blanks.
func SplitSkills(text string) []string {
	skills := []string{}
	for _, part := range strings.Split(text, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// SplitAchievements splits a newline-separated answer, dropping blank lines.
func SplitAchievements(text string) []string {
	achievements := []string{}
	for _, line := range splitLines(text) {
		if achievement := strings.TrimSpace(line); achievement != "" {
			achievements = append(achievements, achievement)
		}
	}
	return achievements
}

// SplitEducation turns each non-blank line into an entry of exactly three positional
// comma-separated fields: institution, degree, graduation date. Missing positions are empty.
func SplitEducation(text string) []types.Education {
	entries := []types.Education{}
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		entries = append(entries, types.Education{
			Institution:    position(fields, 0),
			Degree:         position(fields, 1),
			GraduationDate: position(fields, 2),
		})
	}
	return entries
}

// SplitWorkExperience turns the whole answer into one entry: line 0 is the company,
// line 1 the position, and every remaining line, blank ones included, the description.
// A blank answer yields no entries.
func SplitWorkExperience(text string) []types.WorkExperience {
	text = strings.Trim(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return []types.WorkExperience{}
	}
	lines := strings.Split(text, "\n")
	return []types.WorkExperience{{
		Company:     position(lines, 0),
		Position:    position(lines, 1),
		EndDate:     types.PresentEndDate,
		Description: description(lines),
	}}
}

// SplitDateRange splits "Jan 2020 – Mar 2023 · 3 yrs" into start and end.
// A range with a single date returns an empty end.
func SplitDateRange(dateRange string) (start, end string) {
	if idx := strings.Index(dateRange, "·"); idx >= 0 {
		dateRange = dateRange[:idx]
	}
	parts := rangeSplitter.Split(strings.TrimSpace(dateRange), 2)
	start = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		end = strings.TrimSpace(parts[1])
	}
	return start, end
}

func description(lines []string) string {
	if len(lines) <= 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[2:], "\n"))
}

func position(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
