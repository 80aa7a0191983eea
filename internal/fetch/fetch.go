// Package fetch retrieves web pages for the pipeline: public profile pages that are
// scraped into a scraped_profile RawInput, and job postings used as analysis input.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds one page fetch or browser render.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies plain HTTP fetches.
	DefaultUserAgent = "Mozilla/5.0 (compatible; Blyn/1.0)"
	// MaxPageSize caps the bytes read from one page.
	MaxPageSize = 5 << 20
)

// Page is a fetched HTML document.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error is a failed fetch or render. StatusCode is 0 when no response arrived.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures Get.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client // overrides Timeout when set
}

// DefaultOptions returns the options used when Get is passed nil.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
}

// Get downloads an HTML page. Non-2xx responses return the page along with an *Error.
func Get(ctx context.Context, pageURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: pageURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to read body", StatusCode: resp.StatusCode, Cause: err}
	}
	page := &Page{
		URL:         pageURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return page, &Error{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}
	return page, nil
}

// commonNoise is stripped from every page before text extraction.
var commonNoise = []string{
	"nav", "footer", "header", "script", "style", "noscript",
	".ad", ".ads", ".advertisement", ".sidebar", ".popup",
	"form", ".cookie-banner", ".cookie-consent", ".gdpr-notice",
	".social-share", ".share-buttons", ".social-links",
	".eeo-statement", ".eeo-section", ".voluntary-disclosure", ".legal-disclosure",
}

// MainText returns the readable text of the board's content area, one trimmed line
// per text line. Pages matching none of the content selectors fall back to <body>.
func MainText(html string, board Board) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(strings.Join(append(append([]string{}, commonNoise...), board.Noise...), ", ")).Remove()

	content := firstMatch(doc.Selection, board.Content)
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	return textLines(content.First().Text()), nil
}

// textLines trims every line and drops blank ones.
func textLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
