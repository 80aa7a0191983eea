// Package deploy publishes a static site bundle to a Netlify-compatible hosting API
// using content-addressed deploys: only files the host reports as missing are uploaded.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/blyn/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the Netlify REST API root.
const DefaultBaseURL = "https://api.netlify.com/api/v1"

// DefaultTimeout bounds each hosting API request.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 512

// Site is a hosted site.
type Site struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	SSLURL string `json:"ssl_url"`
}

// Deployment is a deploy created on a site. Required lists the files (paths or
// SHA-1 hashes) the host does not already have.
type Deployment struct {
	ID       string   `json:"id"`
	SiteID   string   `json:"site_id"`
	State    string   `json:"state"`
	Required []string `json:"required"`
	URL      string   `json:"url"`
	SSLURL   string   `json:"ssl_url"`
}

// PublicURL prefers the HTTPS URL.
func (d *Deployment) PublicURL() string {
	if d.SSLURL != "" {
		return d.SSLURL
	}
	return d.URL
}

// Result describes a finished deploy.
type Result struct {
	Slug     string   `json:"slug"`
	SiteID   string   `json:"siteId,omitempty"`
	DeployID string   `json:"deployId"`
	URL      string   `json:"url"`
	Uploaded []string `json:"uploaded"`
	Created  bool     `json:"siteCreated"` // site did not exist and was created
	States   []State  `json:"states"`
}

// Client talks to the hosting API. The bearer token is passed per call and never stored.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stateHook  func(State)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithStateHook registers a callback invoked on every lifecycle transition.
func WithStateHook(hook func(State)) Option {
	return func(cl *Client) {
		cl.stateHook = hook
	}
}

// NewClient creates a client for the API rooted at baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deploy publishes the bundle to the site named siteName, creating the site if the
// host does not know it, and returns the public URL.
func (c *Client) Deploy(ctx context.Context, token, siteName string, bundle types.StaticSiteBundle) (*Result, error) {
	state := newTracker(c.stateHook)
	fail := func(step string, err error) (*Result, error) {
		state.move(StateFailed)
		log.Printf("[deploy] %s failed: %v", step, err)
		return nil, &DeploymentFailedError{Step: step, StatusCode: statusOf(err), Cause: err}
	}

	manifest := NewManifest(bundle)
	state.move(StateSiteResolving)

	slug := Slug(siteName)
	if slug == "" {
		return fail(StepResolveSite, errors.New("site name is empty"))
	}
	result := &Result{Slug: slug}

	deployment, err := c.CreateDeployment(ctx, token, slug, manifest)
	if err != nil {
		if statusOf(err) != http.StatusNotFound {
			return fail(StepCreateDeploy, err)
		}
		log.Printf("[deploy] site %q not found, creating it", slug)
		site, err := c.CreateSite(ctx, token, slug)
		if err != nil {
			return fail(StepCreateSite, err)
		}
		result.Created = true
		result.SiteID = site.ID
		deployment, err = c.CreateDeployment(ctx, token, site.ID, manifest)
		if err != nil {
			return fail(StepRetryDeploy, err)
		}
	}
	state.move(StateDeployCreated)
	result.DeployID = deployment.ID
	if result.SiteID == "" {
		result.SiteID = deployment.SiteID
	}

	state.move(StateFilesUploading)
	required := manifest.Required(deployment.Required)
	log.Printf("[deploy] deploy %s requires %d of %d files", deployment.ID, len(required), len(manifest))

	g, gCtx := errgroup.WithContext(ctx)
	for _, path := range required {
		g.Go(func() error {
			if err := c.UploadFile(gCtx, token, deployment.ID, path, []byte(bundle[path])); err != nil {
				return fmt.Errorf("failed to upload %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(StepUpload, err)
	}

	state.move(StateLive)
	result.Uploaded = required
	if result.Uploaded == nil {
		result.Uploaded = []string{}
	}
	result.URL = deployment.PublicURL()
	result.States = state.history
	log.Printf("[deploy] %s is live at %s", slug, result.URL)
	return result, nil
}

// CreateDeployment announces a manifest for a site (slug or id).
func (c *Client) CreateDeployment(ctx context.Context, token, site string, manifest Manifest) (*Deployment, error) {
	var deployment Deployment
	body := map[string]any{"files": manifestFiles(manifest)}
	if err := c.doJSON(ctx, token, http.MethodPost, "/sites/"+url.PathEscape(site)+"/deploys", body, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// CreateSite creates a site named slug.
func (c *Client) CreateSite(ctx context.Context, token, slug string) (*Site, error) {
	var site Site
	if err := c.doJSON(ctx, token, http.MethodPost, "/sites", map[string]string{"name": slug}, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// UploadFile uploads one file's content to a deploy.
func (c *Client) UploadFile(ctx context.Context, token, deployID, path string, content []byte) error {
	endpoint := c.baseURL + "/deploys/" + url.PathEscape(deployID) + "/files/" + escapePath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")
	return c.do(req, nil)
}

func (c *Client) doJSON(ctx context.Context, token, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func manifestFiles(manifest Manifest) map[string]string {
	files := make(map[string]string, len(manifest))
	for path, hash := range manifest {
		files["/"+strings.TrimPrefix(path, "/")] = hash
	}
	return files
}

func escapePath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
