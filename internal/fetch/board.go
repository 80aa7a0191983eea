package fetch

import (
	"net/url"
	"strings"
)

// Board describes where a job board keeps the posting text.
type Board struct {
	Name    string
	hosts   []string // host suffixes
	Content []string // first selector with matches wins
	Noise   []string // removed before extraction, in addition to commonNoise
}

// Boards lists the recognized job boards. GenericBoard covers everything else.
var Boards = []Board{
	{
		Name:    "greenhouse",
		hosts:   []string{"greenhouse.io"},
		Content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		Noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		Name:    "lever",
		hosts:   []string{"lever.co"},
		Content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		Noise:   []string{".apply-section", ".posting-apply", ".lever-application-form"},
	},
	{
		Name:    "workday",
		hosts:   []string{"myworkdayjobs.com", "workday.com"},
		Content: []string{"[data-automation-id='jobDescription']", ".job-description"},
		Noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		Name:    "ashby",
		hosts:   []string{"ashbyhq.com"},
		Content: []string{"[class*='descriptionText']", "main"},
		Noise:   []string{"[class*='applicationForm']"},
	},
}

// GenericBoard applies to unrecognized hosts.
var GenericBoard = Board{
	Name: "generic",
	Content: []string{
		".job-description", "#job-description", ".job-content", ".job-details",
		".posting-content", "[data-testid='job-description']",
		"main", "article", ".content", "#content",
	},
}

// DetectBoard picks the board for a posting URL by host suffix.
func DetectBoard(postingURL string) Board {
	parsed, err := url.Parse(postingURL)
	if err != nil {
		return GenericBoard
	}
	host := strings.ToLower(parsed.Hostname())
	for _, board := range Boards {
		for _, suffix := range board.hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return board
			}
		}
	}
	return GenericBoard
}
