package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/jonathan/blyn/internal/types"
)

// ScrapedProfile is the raw record read from a public profile page. Its JSON form is
// the payload of a scraped_profile RawInput.
type ScrapedProfile struct {
	Name           string              `json:"name"`
	Headline       string              `json:"headline"`
	Location       string              `json:"location"`
	ProfilePicture string              `json:"profilePicture,omitempty"`
	Experience     []ScrapedExperience `json:"experience"`
	Education      []ScrapedEducation  `json:"education"`
	Skills         []string            `json:"skills"`
}

// ScrapedExperience is one position as shown on the page.
type ScrapedExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	DateRange   string `json:"dateRange"`
	Description string `json:"description"`
}

// ScrapedEducation is one school entry as shown on the page.
type ScrapedEducation struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	DateRange string `json:"dateRange"`
}

// Renderer returns the HTML of a page.
type Renderer func(ctx context.Context, url string) (string, error)

// ScrapeOptions configures ScrapeProfile.
type ScrapeOptions struct {
	// Render defaults to a headless browser.
	Render  Renderer
	Timeout time.Duration
	Verbose bool
}

// profileSelectors lists selectors for each field, covering both the signed-in and
// public page layouts. The first selector with text wins.
var profileSelectors = struct {
	name, headline, location, photo []string
	experience, education, skills   []string
	expTitle, expCompany, expDates  []string
	expDescription                  []string
	eduSchool, eduDegree, eduField  []string
	eduDates                        []string
}{
	name:     []string{".text-heading-xlarge", ".top-card-layout__title", "h1"},
	headline: []string{".text-body-medium", ".top-card-layout__headline"},
	location: []string{".text-body-small.inline.t-black--light.break-words", ".top-card__subline-item", ".top-card-layout__first-subline .not-first-middot span"},
	photo:    []string{".pv-top-card-profile-picture__image", ".top-card__profile-image", ".top-card-layout__entity-image"},

	experience: []string{"#experience-section .pv-entity__position-group-pager", "#experience-section .pv-profile-section__card-item", "section.experience li.experience-item", "section[data-section='experience'] li"},
	education:  []string{"#education-section .pv-profile-section__card-item", "#education-section .pv-education-entity", "section.education li.education__list-item", "section[data-section='educationsDetails'] li"},
	skills:     []string{".pv-skill-category-entity__name-text", ".pv-skill-category-entity .t-16", "section.skills li", "section[data-section='skills'] li"},

	expTitle:       []string{".pv-entity__summary-info h3", ".t-16.t-black.t-bold", ".experience-item__title", "h3"},
	expCompany:     []string{".pv-entity__secondary-title", ".pv-entity__company-summary-info span:first-child", ".experience-item__subtitle", "h4"},
	expDates:       []string{".pv-entity__date-range span:nth-child(2)", ".t-14.t-normal.t-black--light span:nth-child(2)", ".date-range"},
	expDescription: []string{".pv-entity__description", ".show-more-less-text__text--less", ".experience-item__description"},

	eduSchool: []string{".pv-entity__school-name", ".t-16.t-black.t-bold", ".education__item--school-name", "h3"},
	eduDegree: []string{".pv-entity__degree-name span:nth-child(2)", ".education__item--degree-info:first-of-type"},
	eduField:  []string{".pv-entity__fos span:nth-child(2)", ".education__item--degree-info:nth-of-type(2)"},
	eduDates:  []string{".pv-entity__dates span:nth-child(2)", ".date-range"},
}

// ValidateProfileURL accepts only LinkedIn member profile URLs (".../in/<handle>").
func ValidateProfileURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return &normalize.UnsupportedInputError{Message: fmt.Sprintf("invalid profile URL %q", raw)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &normalize.UnsupportedInputError{Message: fmt.Sprintf("unsupported URL scheme %q", parsed.Scheme)}
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return &normalize.UnsupportedInputError{Message: fmt.Sprintf("not a LinkedIn URL: %s", raw)}
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "in" || segments[1] == "" {
		return &normalize.UnsupportedInputError{Message: fmt.Sprintf("not a LinkedIn profile URL: %s", raw)}
	}
	return nil
}

// ScrapeProfile renders a profile page and extracts it into a scraped_profile RawInput.
// The URL is validated before any network call.
func ScrapeProfile(ctx context.Context, profileURL string, opts *ScrapeOptions) (types.RawInput, error) {
	if err := ValidateProfileURL(profileURL); err != nil {
		return types.RawInput{}, err
	}
	if opts == nil {
		opts = &ScrapeOptions{}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	render := opts.Render
	if render == nil {
		render = BrowserRenderer(opts.Timeout, opts.Verbose)
	}

	html, err := render(ctx, profileURL)
	if err != nil {
		return types.RawInput{}, &Error{URL: profileURL, Message: "failed to render profile page", Cause: err}
	}

	profile, err := ExtractProfile(html)
	if err != nil {
		return types.RawInput{}, &Error{URL: profileURL, Message: "failed to extract profile", Cause: err}
	}
	if opts.Verbose {
		log.Printf("[scrape] %s: %d positions, %d schools, %d skills",
			profileURL, len(profile.Experience), len(profile.Education), len(profile.Skills))
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return types.RawInput{}, fmt.Errorf("failed to marshal scraped profile: %w", err)
	}
	return types.RawInput{Source: types.SourceScrapedProfile, Payload: payload}, nil
}

// ExtractProfile reads the profile fields out of rendered page HTML. Missing elements
// give empty fields, never an error; only unparseable HTML fails.
func ExtractProfile(html string) (*ScrapedProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	sel := profileSelectors

	profile := &ScrapedProfile{
		Name:           firstText(doc.Selection, sel.name),
		Headline:       firstText(doc.Selection, sel.headline),
		Location:       firstText(doc.Selection, sel.location),
		ProfilePicture: firstAttr(doc.Selection, sel.photo, "src"),
		Experience:     []ScrapedExperience{},
		Education:      []ScrapedEducation{},
		Skills:         []string{},
	}

	firstMatch(doc.Selection, sel.experience).Each(func(_ int, item *goquery.Selection) {
		exp := ScrapedExperience{
			Title:       firstText(item, sel.expTitle),
			Company:     firstText(item, sel.expCompany),
			DateRange:   firstText(item, sel.expDates),
			Description: firstText(item, sel.expDescription),
		}
		if exp.Title != "" || exp.Company != "" {
			profile.Experience = append(profile.Experience, exp)
		}
	})

	firstMatch(doc.Selection, sel.education).Each(func(_ int, item *goquery.Selection) {
		edu := ScrapedEducation{
			School:    firstText(item, sel.eduSchool),
			Degree:    firstText(item, sel.eduDegree),
			Field:     firstText(item, sel.eduField),
			DateRange: firstText(item, sel.eduDates),
		}
		if edu.School != "" {
			profile.Education = append(profile.Education, edu)
		}
	})

	firstMatch(doc.Selection, sel.skills).Each(func(_ int, item *goquery.Selection) {
		if skill := collapseSpaces(item.Text()); skill != "" {
			profile.Skills = append(profile.Skills, skill)
		}
	})

	return profile, nil
}

// firstMatch returns the matches of the first selector that finds anything.
func firstMatch(scope *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if found := scope.Find(selector); found.Length() > 0 {
			return found
		}
	}
	return scope.Slice(0, 0)
}

func firstText(scope *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if text := collapseSpaces(scope.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(scope *goquery.Selection, selectors []string, attr string) string {
	for _, selector := range selectors {
		if value, ok := scope.Find(selector).First().Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
