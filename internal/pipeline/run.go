// Package pipeline orchestrates the career profile flow: raw source to normalized
// profile, profile to artifacts, bundle to a live site. Every operation receives an
// explicit Session; nothing reads identity or tokens from global state.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/analysis"
	"github.com/jonathan/blyn/internal/deploy"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/jonathan/blyn/internal/rendering"
	"github.com/jonathan/blyn/internal/schemas"
	"github.com/jonathan/blyn/internal/types"
	"golang.org/x/sync/errgroup"
)

// Step names reported in progress events
const (
	StepNormalize    = "normalize"
	StepExtract      = "extract"
	StepSaveProfile  = "save_profile"
	StepAnalyze      = "analyze"
	StepCoverLetter  = "cover_letter"
	StepRenderSite   = "render_portfolio"
	StepDeploy       = "deploy"
	StepSaveSite     = "save_portfolio_site"
	CategoryOnboard  = "onboarding"
	CategoryAnalyze  = "analysis"
	CategoryRender   = "rendering"
	CategoryPublish  = "publishing"
	CategoryWarning  = "warning"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	OwnerID  string `json:"owner_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ProfileStore persists profiles (append-only versions), cover letters and portfolio
// sites. Implemented by the PostgreSQL and SQLite stores.
type ProfileStore interface {
	SaveProfile(ctx context.Context, rec *types.ProfileRecord) error
	LatestProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileRecord, error)
	SaveCoverLetter(ctx context.Context, rec *types.CoverLetterRecord) error
	SavePortfolioSite(ctx context.Context, rec *types.PortfolioSiteRecord) error
	ListProfiles(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.ProfileRecord, error)
	ListCoverLetters(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.CoverLetterRecord, error)
	ListPortfolioSites(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.PortfolioSiteRecord, error)
}

// Deployer publishes a static bundle. Implemented by deploy.Client.
type Deployer interface {
	Deploy(ctx context.Context, token, siteName string, bundle types.StaticSiteBundle) (*deploy.Result, error)
}

// Pipeline wires the components together. Extractor, Analyzer, Deployer and Store are
// optional; operations needing a missing component return an error.
type Pipeline struct {
	Extractor  *normalize.Extractor
	Analyzer   *analysis.Analyzer
	Deployer   Deployer
	Store      ProfileStore
	OnProgress ProgressCallback
}

// OnboardResult is a normalized profile and, when a store is configured, its saved record.
type OnboardResult struct {
	Profile  *types.Profile                   `json:"profile"`
	Record   *types.ProfileRecord             `json:"record,omitempty"`
	Fallback bool                             `json:"fallback"`
	Warning  *normalize.ExtractionFailedError `json:"-"`
}

// WarningMessage returns the soft extraction warning, if any.
func (r *OnboardResult) WarningMessage() string {
	if r.Warning == nil {
		return ""
	}
	return r.Warning.Error()
}

// emitProgress calls the progress callback if configured
func (p *Pipeline) emitProgress(session types.Session, step, category, message string, content any) {
	if p.OnProgress == nil {
		return
	}
	event := ProgressEvent{Step: step, Category: category, Message: message, Content: content}
	if session.OwnerID != uuid.Nil {
		event.OwnerID = session.OwnerID.String()
	}
	p.OnProgress(event)
}

// Onboard normalizes a raw source and stores the result as the owner's next profile version.
func (p *Pipeline) Onboard(ctx context.Context, session types.Session, raw types.RawInput) (*OnboardResult, error) {
	profile := normalize.Normalize(raw)
	p.emitProgress(session, StepNormalize, CategoryOnboard, fmt.Sprintf("Normalized %s input", raw.Source), profile)

	result := &OnboardResult{Profile: profile}
	rec := &types.ProfileRecord{
		OwnerID:    session.OwnerID,
		SourceKind: raw.Source,
		RawPayload: raw.Payload,
		Profile:    profile,
	}
	if err := p.save(ctx, session, rec, result); err != nil {
		return nil, err
	}
	return result, nil
}

// OnboardDocument extracts a profile from an uploaded document. A collaborator failure
// yields the fallback profile with a warning rather than an error.
func (p *Pipeline) OnboardDocument(ctx context.Context, session types.Session, doc normalize.Document) (*OnboardResult, error) {
	if p.Extractor == nil {
		return nil, fmt.Errorf("document extraction is %w", ErrNotConfigured)
	}
	extracted, err := p.Extractor.ExtractDocument(ctx, session, doc)
	if err != nil {
		return nil, err
	}
	return p.finishExtraction(ctx, session, extracted)
}

// OnboardText extracts a profile from pasted resume text.
func (p *Pipeline) OnboardText(ctx context.Context, session types.Session, text string) (*OnboardResult, error) {
	if p.Extractor == nil {
		return nil, fmt.Errorf("document extraction is %w", ErrNotConfigured)
	}
	extracted, err := p.Extractor.ExtractText(ctx, text)
	if err != nil {
		return nil, err
	}
	return p.finishExtraction(ctx, session, extracted)
}

func (p *Pipeline) finishExtraction(ctx context.Context, session types.Session, extracted *normalize.Result) (*OnboardResult, error) {
	if extracted.Warning != nil {
		log.Printf("[pipeline] extraction fell back to sample profile: %v", extracted.Warning)
		p.emitProgress(session, StepExtract, CategoryWarning, extracted.Warning.Error(), nil)
	}
	p.emitProgress(session, StepExtract, CategoryOnboard, "Extracted profile from document", extracted.Profile)

	result := &OnboardResult{
		Profile:  extracted.Profile,
		Fallback: extracted.Fallback,
		Warning:  extracted.Warning,
	}
	rec := &types.ProfileRecord{
		OwnerID:         session.OwnerID,
		SourceKind:      types.SourceDocument,
		OriginalFileURL: extracted.SourceURL,
		RawPayload:      extracted.Raw,
		Profile:         extracted.Profile,
		Fallback:        extracted.Fallback,
	}
	if err := p.save(ctx, session, rec, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) save(ctx context.Context, session types.Session, rec *types.ProfileRecord, result *OnboardResult) error {
	if p.Store == nil {
		return nil
	}
	if session.OwnerID == uuid.Nil {
		return ErrMissingOwner
	}
	if err := schemas.ValidateProfile(rec.Profile); err != nil {
		return fmt.Errorf("refusing to save profile: %w", err)
	}
	if err := p.Store.SaveProfile(ctx, rec); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	result.Record = rec
	p.emitProgress(session, StepSaveProfile, CategoryOnboard,
		fmt.Sprintf("Saved profile version %d", rec.VersionNumber), nil)
	return nil
}

// CurrentProfile returns the owner's latest stored profile, or nil when none exists
// or no store is configured.
func (p *Pipeline) CurrentProfile(ctx context.Context, session types.Session) (*types.Profile, error) {
	if p.Store == nil {
		return nil, nil
	}
	if session.OwnerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	rec, err := p.Store.LatestProfile(ctx, session.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.Profile, nil
}

// History returns the owner's stored profile versions, cover letters and deployed
// sites, at most limit of each.
func (p *Pipeline) History(ctx context.Context, session types.Session, limit int) (*types.History, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("history store is %w", ErrNotConfigured)
	}
	if session.OwnerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	limit = types.ClampLimit(limit)

	history := &types.History{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := p.Store.ListProfiles(gctx, session.OwnerID, limit)
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		history.Profiles = records
		return nil
	})
	g.Go(func() error {
		records, err := p.Store.ListCoverLetters(gctx, session.OwnerID, limit)
		if err != nil {
			return fmt.Errorf("failed to list cover letters: %w", err)
		}
		history.CoverLetters = records
		return nil
	})
	g.Go(func() error {
		records, err := p.Store.ListPortfolioSites(gctx, session.OwnerID, limit)
		if err != nil {
			return fmt.Errorf("failed to list portfolio sites: %w", err)
		}
		history.PortfolioSites = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return history, nil
}

// Analyze scores a resume or portfolio against a job description.
func (p *Pipeline) Analyze(ctx context.Context, session types.Session, req analysis.Request) (*types.ScoreReport, error) {
	if p.Analyzer == nil {
		return nil, fmt.Errorf("analysis is %w", ErrNotConfigured)
	}
	report, err := p.Analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	p.emitProgress(session, StepAnalyze, CategoryAnalyze,
		fmt.Sprintf("Scored %s: %d/100 (%s)", req.Kind, report.OverallScore, report.Rating()), report)
	return report, nil
}

// CoverLetterRequest selects the wording and target of a cover letter.
type CoverLetterRequest struct {
	Tone           string `json:"tone"`
	Company        string `json:"company"`
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
}

// CoverLetter renders a cover letter and stores it when a store is configured.
func (p *Pipeline) CoverLetter(ctx context.Context, session types.Session, profile *types.Profile, req CoverLetterRequest) (string, error) {
	tone := rendering.ParseTone(req.Tone)
	letter := rendering.RenderCoverLetter(profile, string(tone), req.Company, rendering.WithJobTitle(req.JobTitle))
	p.emitProgress(session, StepCoverLetter, CategoryRender, fmt.Sprintf("Rendered %s cover letter", tone), nil)

	if p.Store == nil || session.OwnerID == uuid.Nil {
		return letter, nil
	}
	rec := &types.CoverLetterRecord{
		OwnerID:        session.OwnerID,
		JobTitle:       strings.TrimSpace(req.JobTitle),
		Company:        strings.TrimSpace(req.Company),
		JobDescription: req.JobDescription,
		Tone:           string(tone),
		LetterText:     letter,
	}
	if err := p.Store.SaveCoverLetter(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to save cover letter: %w", err)
	}
	return letter, nil
}

// PublishRequest selects the portfolio template and site name.
type PublishRequest struct {
	TemplateID string `json:"templateId"`
	SiteName   string `json:"siteName"`
	Year       int    `json:"year,omitempty"`
}

// PublishResult is a live portfolio site.
type PublishResult struct {
	URL    string                     `json:"url"`
	Deploy *deploy.Result             `json:"deploy"`
	Record *types.PortfolioSiteRecord `json:"record,omitempty"`
}

// PublishPortfolio renders the portfolio bundle and deploys it with the session's token.
// The site name defaults to the profile name.
func (p *Pipeline) PublishPortfolio(ctx context.Context, session types.Session, profile *types.Profile, req PublishRequest) (*PublishResult, error) {
	if p.Deployer == nil {
		return nil, fmt.Errorf("deployment is %w", ErrNotConfigured)
	}
	if strings.TrimSpace(session.DeployToken) == "" {
		return nil, ErrMissingDeployToken
	}

	var opts []rendering.PortfolioOption
	if req.Year > 0 {
		opts = append(opts, rendering.WithCopyrightYear(req.Year))
	}
	bundle, err := rendering.RenderPortfolioSite(profile, req.TemplateID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to render portfolio: %w", err)
	}
	palette := rendering.ParsePortfolioTemplate(req.TemplateID)
	p.emitProgress(session, StepRenderSite, CategoryRender,
		fmt.Sprintf("Rendered %s portfolio (%d files)", palette.ID, len(bundle)), nil)

	siteName := strings.TrimSpace(req.SiteName)
	if siteName == "" && profile != nil {
		siteName = profile.Name
	}
	deployed, err := p.Deployer.Deploy(ctx, session.DeployToken, siteName, bundle)
	if err != nil {
		return nil, err
	}
	p.emitProgress(session, StepDeploy, CategoryPublish, "Portfolio is live at "+deployed.URL, deployed)

	result := &PublishResult{URL: deployed.URL, Deploy: deployed}
	if p.Store == nil || session.OwnerID == uuid.Nil {
		return result, nil
	}
	rec := &types.PortfolioSiteRecord{
		OwnerID:    session.OwnerID,
		TemplateID: palette.ID,
		Slug:       deployed.Slug,
		DeployID:   deployed.DeployID,
		URL:        deployed.URL,
	}
	if err := p.Store.SavePortfolioSite(ctx, rec); err != nil {
		// The site is already live; report the bookkeeping failure without failing the publish
		log.Printf("[pipeline] failed to record portfolio site %s: %v", deployed.Slug, err)
		return result, nil
	}
	result.Record = rec
	p.emitProgress(session, StepSaveSite, CategoryPublish, "Recorded portfolio site", nil)
	return result, nil
}
