// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/blyn/internal/deploy"
	"github.com/jonathan/blyn/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode. Styles are resolved against
// the destination writer, so output to files and pipes stays plain text.
type Printer struct {
	out    io.Writer
	title  lipgloss.Style
	border lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	dim    lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:    out,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		border: r.NewStyle().Foreground(lipgloss.Color("240")),
		good:   r.NewStyle().Foreground(lipgloss.Color("42")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("214")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("196")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintln(p.out, p.border.Render("┌"+border+"┐"))
	fmt.Fprintf(p.out, "%s %s %s\n", p.border.Render("│"), p.title.Render(pad(title)), p.border.Render("│"))
	fmt.Fprintln(p.out, p.border.Render("├"+border+"┤"))

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "%s %s %s\n", p.border.Render("│"), pad(truncate(line)), p.border.Render("│"))
	}

	fmt.Fprintln(p.out, p.border.Render("└"+border+"┘"))
}

// truncate shortens a line to fit inside the box, counting runes.
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

func pad(line string) string {
	if n := boxWidth - 4 - len([]rune(line)); n > 0 {
		return line + strings.Repeat(" ", n)
	}
	return line
}

// writeList writes up to maxItemsToShow bullet items and a count of the rest.
func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintProfile outputs a human-readable summary of a normalized profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", valueOr(profile.Name, "(none)")))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", valueOr(profile.Role, "(none)")))
	if profile.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", profile.Location))
	}
	if profile.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.Email))
	}
	sb.WriteString("\n")

	if len(profile.WorkExperience) > 0 {
		experience := make([]string, 0, len(profile.WorkExperience))
		for _, exp := range profile.WorkExperience {
			line := strings.TrimSpace(exp.Position + " at " + exp.Company)
			if exp.StartDate != "" {
				line += fmt.Sprintf(" (%s - %s)", exp.StartDate, exp.EndDate)
			}
			experience = append(experience, line)
		}
		writeList(&sb, "Experience", experience)
	}

	if len(profile.Education) > 0 {
		education := make([]string, 0, len(profile.Education))
		for _, edu := range profile.Education {
			line := edu.Institution
			if edu.Degree != "" {
				line = edu.Degree + ", " + line
			}
			education = append(education, line)
		}
		writeList(&sb, "Education", education)
	}

	writeList(&sb, "Skills", profile.Skills)
	writeList(&sb, "Achievements", profile.Achievements)

	p.printBox("👤 Profile", sb.String())
}

// PrintWarning outputs a soft warning, e.g. an extraction that fell back to the sample profile.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarning(message string) {
	if message == "" {
		return
	}
	fmt.Fprintln(p.out, p.warn.Render("⚠ "+message))
}

// PrintInfo outputs a dimmed status line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintInfo(message string) {
	if message == "" {
		return
	}
	fmt.Fprintln(p.out, p.dim.Render(message))
}

// PrintScoreReport outputs a gap analysis with per-section scores.
func (p *Printer) PrintScoreReport(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %s  %s\n\n",
		p.scoreStyle(report.OverallScore).Render(fmt.Sprintf("%3d/100", report.OverallScore)),
		report.Rating()))

	keys := report.Kind.SectionKeys()
	if keys == nil {
		for key := range report.SectionScores {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}
	sb.WriteString("Sections:\n")
	for _, key := range keys {
		score := report.SectionScores[key]
		sb.WriteString(fmt.Sprintf("  %-12s %s %3d\n", key, bar(score), score))
	}
	sb.WriteString("\n")

	writeList(&sb, "Missing keywords", report.MissingKeywords)
	writeList(&sb, "Suggestions", report.Suggestions)

	p.printBox(fmt.Sprintf("📊 %s Analysis", titleCase(string(report.Kind))), sb.String())
}

// PrintDeployResult outputs where a portfolio went live and what was uploaded.
func (p *Printer) PrintDeployResult(result *deploy.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Site:     %s\n", result.Slug))
	if result.Created {
		sb.WriteString("          " + p.dim.Render("(new site created)") + "\n")
	}
	sb.WriteString(fmt.Sprintf("Deploy:   %s\n", result.DeployID))
	sb.WriteString(fmt.Sprintf("URL:      %s\n", result.URL))
	if len(result.Uploaded) == 0 {
		sb.WriteString("Uploaded: nothing (all files unchanged)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Uploaded: %s\n", strings.Join(result.Uploaded, ", ")))
	}
	if len(result.States) > 0 {
		states := make([]string, len(result.States))
		for i, state := range result.States {
			states[i] = string(state)
		}
		sb.WriteString(fmt.Sprintf("States:   %s\n", strings.Join(states, " → ")))
	}

	p.printBox("🚀 Portfolio Deployed", sb.String())
}

func (p *Printer) scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return p.good
	case score >= 60:
		return p.warn
	default:
		return p.bad
	}
}

// bar draws a ten-cell meter for a 0-100 score.
func bar(score int) string {
	filled := max(0, min(10, score/10))
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
