package rendering

import (
	_ "embed"
	"os"
	"strings"
	"text/template"
)

//go:embed templates/resume.tex.tmpl
var defaultLaTeXTemplate string

// TemplateData represents the data structure passed to the LaTeX template.
// Every string is already LaTeX-escaped.
type TemplateData struct {
	Style        string
	Name         string
	Role         string
	Contact      string
	Companies    []CompanySection
	Education    []EducationLine
	Skills       string
	Achievements []string
}

// CompanySection represents a company with one or more roles
type CompanySection struct {
	Company string
	Roles   []RoleSection
}

// RoleSection represents a role within a company
type RoleSection struct {
	Role       string
	DateRanges string // e.g. "2020-01 -- Present"
	Bullets    []string
}

// EducationLine is an escaped education entry
type EducationLine struct {
	Institution    string
	Degree         string
	GraduationDate string
}

// RenderResumeLaTeX renders the view-model with the built-in LaTeX template.
func RenderResumeLaTeX(view *ResumeViewModel) (string, error) {
	tmpl, err := newLaTeXTemplate("", defaultLaTeXTemplate)
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, "", view)
}

// RenderResumeLaTeXTemplate renders the view-model with a template file. The file
// receives TemplateData and may call the escape function.
func RenderResumeLaTeXTemplate(view *ResumeViewModel, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, templatePath, view)
}

func executeLaTeX(tmpl *template.Template, templatePath string, view *ResumeViewModel) (string, error) {
	if view == nil {
		return "", ErrNilView
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, buildTemplateData(view)); err != nil {
		return "", &Error{Artifact: "latex", Template: templatePath, Message: "failed to execute template", Cause: err}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		message := "failed to read template file"
		if os.IsNotExist(err) {
			message = "template file not found"
		}
		return nil, &Error{Artifact: "latex", Template: templatePath, Message: message, Cause: err}
	}
	return newLaTeXTemplate(templatePath, string(content))
}

// newLaTeXTemplate parses content; templatePath is empty for the built-in template.
func newLaTeXTemplate(templatePath, content string) (*template.Template, error) {
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &Error{Artifact: "latex", Template: templatePath, Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

// buildTemplateData escapes the view-model for LaTeX and groups consecutive
// positions at the same company.
func buildTemplateData(view *ResumeViewModel) *TemplateData {
	var contact []string
	for _, part := range []string{view.Personal.Location, view.Personal.Email, view.Personal.Phone} {
		if part != "" {
			contact = append(contact, EscapeLaTeX(part))
		}
	}

	data := &TemplateData{
		Style:     string(view.Style),
		Name:      EscapeLaTeX(view.Personal.Name),
		Role:      EscapeLaTeX(view.Personal.Role),
		Contact:   strings.Join(contact, ` \textbar{} `),
		Companies: groupByCompany(view.Experience),
		Skills:    EscapeLaTeX(strings.Join(view.Skills, ", ")),
	}
	for _, edu := range view.Education {
		data.Education = append(data.Education, EducationLine{
			Institution:    EscapeLaTeX(edu.Institution),
			Degree:         EscapeLaTeX(edu.Degree),
			GraduationDate: EscapeLaTeX(edu.GraduationDate),
		})
	}
	for _, achievement := range view.Achievements {
		data.Achievements = append(data.Achievements, EscapeLaTeX(achievement))
	}
	return data
}

// groupByCompany merges consecutive entries at the same company into one section,
// keeping the given (most recent first) order.
func groupByCompany(items []ExperienceItem) []CompanySection {
	companies := []CompanySection{}
	for _, item := range items {
		role := RoleSection{
			Role:       EscapeLaTeX(item.Position),
			DateRanges: formatLaTeXPeriod(item),
			Bullets:    descriptionBullets(item.Description),
		}

		company := EscapeLaTeX(item.Company)
		last := len(companies) - 1
		if last >= 0 && item.Company != "" && companies[last].Company == company {
			companies[last].Roles = append(companies[last].Roles, role)
			continue
		}
		companies = append(companies, CompanySection{Company: company, Roles: []RoleSection{role}})
	}
	return companies
}

func formatLaTeXPeriod(item ExperienceItem) string {
	if item.StartDate == "" {
		if item.Current {
			return ""
		}
		return EscapeLaTeX(item.EndDate)
	}
	if item.Current {
		return EscapeLaTeX(item.StartDate) + " -- Present"
	}
	return EscapeLaTeX(item.StartDate) + " -- " + EscapeLaTeX(item.EndDate)
}

// descriptionBullets turns each non-blank description line into a bullet.
func descriptionBullets(description string) []string {
	var bullets []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•*"))
		if line != "" {
			bullets = append(bullets, EscapeLaTeX(line))
		}
	}
	return bullets
}
