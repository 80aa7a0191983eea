package rendering

import (
	"bytes"
	_ "embed"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/blyn/internal/types"
)

var (
	//go:embed templates/portfolio/index.html.tmpl
	portfolioIndexTemplate string

	//go:embed templates/portfolio/styles.css.tmpl
	portfolioStylesTemplate string

	//go:embed templates/portfolio/script.js
	portfolioScript string
)

var (
	indexTmpl  = htmltemplate.Must(htmltemplate.New("index.html").Parse(portfolioIndexTemplate))
	stylesTmpl = template.Must(template.New("styles.css").Parse(portfolioStylesTemplate))
)

// Palette is the color scheme of a portfolio template.
type Palette struct {
	ID     string
	Name   string
	Start  string // hero gradient start
	End    string // hero gradient end
	Accent string
}

// DefaultTemplate is used for unknown template IDs.
const DefaultTemplate = "default"

// Palettes holds every portfolio template keyed by ID.
var Palettes = map[string]Palette{
	"default":    {ID: "default", Name: "Default", Start: "#667eea", End: "#764ba2", Accent: "#007bff"},
	"developer":  {ID: "developer", Name: "Developer", Start: "#1e3c72", End: "#2a5298", Accent: "#2a5298"},
	"designer":   {ID: "designer", Name: "Designer", Start: "#ff6b6b", End: "#ee5a24", Accent: "#ee5a24"},
	"business":   {ID: "business", Name: "Business", Start: "#11998e", End: "#38ef7d", Accent: "#11998e"},
	"product":    {ID: "product", Name: "Product", Start: "#4568dc", End: "#b06ab3", Accent: "#4568dc"},
	"consultant": {ID: "consultant", Name: "Consultant", Start: "#232526", End: "#414345", Accent: "#414345"},
	"freelancer": {ID: "freelancer", Name: "Freelancer", Start: "#f7971e", End: "#ffd200", Accent: "#f7971e"},
	"startup":    {ID: "startup", Name: "Startup", Start: "#fc466b", End: "#3f5efb", Accent: "#3f5efb"},
	"academic":   {ID: "academic", Name: "Academic", Start: "#314755", End: "#26a0da", Accent: "#26a0da"},
}

// ParsePortfolioTemplate resolves a template ID case-insensitively, falling back to the default palette.
func ParsePortfolioTemplate(id string) Palette {
	if palette, ok := Palettes[strings.ToLower(strings.TrimSpace(id))]; ok {
		return palette
	}
	return Palettes[DefaultTemplate]
}

// PortfolioOption customizes a portfolio bundle.
type PortfolioOption func(*portfolioOptions)

type portfolioOptions struct {
	year int
}

// WithCopyrightYear fixes the footer year. The current year is used otherwise.
func WithCopyrightYear(year int) PortfolioOption {
	return func(o *portfolioOptions) {
		o.year = year
	}
}

type portfolioPage struct {
	Template     string
	Name         string
	Role         string
	Location     string
	Email        string
	Phone        string
	PhoneHref    string
	ProfilePhoto string
	About        string
	Experience   []ExperienceItem
	Skills       []string
	Achievements []string
	Year         int
}

type stylesData struct {
	Default  Palette
	Override *Palette
}

// RenderPortfolioSite renders the static site bundle for a profile: index.html, styles.css
// and script.js. The output is a pure function of its inputs, so rendering twice with the
// same profile, template and year yields identical bundles.
func RenderPortfolioSite(profile *types.Profile, templateID string, opts ...PortfolioOption) (types.StaticSiteBundle, error) {
	if profile == nil {
		profile = types.NewProfile()
	}
	options := &portfolioOptions{year: time.Now().Year()}
	for _, opt := range opts {
		opt(options)
	}
	palette := ParsePortfolioTemplate(templateID)

	page := buildPortfolioPage(profile, palette, options.year)

	var index bytes.Buffer
	if err := indexTmpl.Execute(&index, page); err != nil {
		return nil, &Error{Artifact: "portfolio", Message: "failed to execute index template", Cause: err}
	}

	data := stylesData{Default: Palettes[DefaultTemplate]}
	if palette.ID != DefaultTemplate {
		data.Override = &palette
	}
	var styles bytes.Buffer
	if err := stylesTmpl.Execute(&styles, data); err != nil {
		return nil, &Error{Artifact: "portfolio", Message: "failed to execute styles template", Cause: err}
	}

	return types.StaticSiteBundle{
		types.BundleIndex:  index.String(),
		types.BundleStyles: styles.String(),
		types.BundleScript: portfolioScript,
	}, nil
}

func buildPortfolioPage(profile *types.Profile, palette Palette, year int) portfolioPage {
	view := RenderResume(profile, "")

	name := view.Personal.Name
	if name == "" {
		name = "Portfolio"
	}
	role := view.Personal.Role
	if role == "" {
		role = "Professional"
	}

	experience := make([]ExperienceItem, 0, len(view.Experience))
	for _, item := range view.Experience {
		item.Period = portfolioPeriod(item.StartDate, item.EndDate)
		experience = append(experience, item)
	}

	return portfolioPage{
		Template:     palette.ID,
		Name:         name,
		Role:         role,
		Location:     view.Personal.Location,
		Email:        view.Personal.Email,
		Phone:        view.Personal.Phone,
		PhoneHref:    phoneHref(view.Personal.Phone),
		ProfilePhoto: view.Personal.ProfilePhoto,
		About:        aboutText(role, view.Personal.Location),
		Experience:   experience,
		Skills:       view.Skills,
		Achievements: view.Achievements,
		Year:         year,
	}
}

func aboutText(role, location string) string {
	about := "Passionate " + strings.ToLower(role) + " with expertise in creating innovative solutions."
	if location != "" {
		about += " Based in " + location + ", I bring a unique blend of technical skills and creative thinking to every project."
	} else {
		about += " I bring a unique blend of technical skills and creative thinking to every project."
	}
	return about
}

// portfolioPeriod formats the timeline date as "start - end".
func portfolioPeriod(startDate, endDate string) string {
	start := strings.TrimSpace(startDate)
	end := strings.TrimSpace(endDate)
	if strings.EqualFold(end, types.PresentEndDate) {
		end = "Present"
	}
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start + " - Present"
	default:
		return end
	}
}

func phoneHref(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
