package fetch

import (
	"context"
	"log"
	"strings"
	"time"
)

// MinPostingText is the shortest posting text trusted from a plain HTTP fetch.
// Client-rendered boards return little more than an empty shell.
const MinPostingText = 500

// JobPostingOptions configures JobDescription.
type JobPostingOptions struct {
	Fetch   *Options
	Render  Renderer // used when the HTTP fetch yields too little text; nil disables it
	Verbose bool
}

// NeedsBrowser reports whether extracted text is too short to be a real posting.
func NeedsBrowser(text string) bool {
	return len(strings.TrimSpace(text)) < MinPostingText
}

// JobDescription fetches a job posting and returns its main text, for use as the job
// description of a gap analysis. Pages that render client-side fall back to Render.
func JobDescription(ctx context.Context, postingURL string, opts *JobPostingOptions) (string, error) {
	if opts == nil {
		opts = &JobPostingOptions{}
	}
	board := DetectBoard(postingURL)
	if opts.Verbose {
		log.Printf("[fetch] %s detected as %s", postingURL, board.Name)
	}

	page, err := Get(ctx, postingURL, opts.Fetch)
	if err != nil {
		return "", err
	}
	text, err := MainText(page.HTML, board)
	if err != nil {
		return "", &Error{URL: postingURL, Message: "failed to extract text", Cause: err}
	}
	if !NeedsBrowser(text) || opts.Render == nil {
		return text, nil
	}

	if opts.Verbose {
		log.Printf("[fetch] %s returned %d characters, rendering with browser", postingURL, len(text))
	}
	html, err := opts.Render(ctx, postingURL)
	if err != nil {
		log.Printf("[fetch] browser rendering failed for %s, keeping HTTP text: %v", postingURL, err)
		return text, nil
	}
	if rendered, err := MainText(html, board); err == nil && len(rendered) > len(text) {
		return rendered, nil
	}
	return text, nil
}

// BrowserRenderer adapts WithBrowser to a Renderer.
func BrowserRenderer(timeout time.Duration, verbose bool) Renderer {
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, timeout, verbose)
	}
}
