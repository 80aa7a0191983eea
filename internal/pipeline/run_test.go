package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/analysis"
	"github.com/jonathan/blyn/internal/deploy"
	"github.com/jonathan/blyn/internal/llm"
	"github.com/jonathan/blyn/internal/localstore"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/jonathan/blyn/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ProfileStore.
type memStore struct {
	mu       sync.Mutex
	profiles []types.ProfileRecord
	letters  []types.CoverLetterRecord
	sites    []types.PortfolioSiteRecord
	siteErr  error
}

func (s *memStore) SaveProfile(_ context.Context, rec *types.ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := 0
	for _, existing := range s.profiles {
		if existing.OwnerID == rec.OwnerID && existing.VersionNumber > version {
			version = existing.VersionNumber
		}
	}
	rec.ID = uuid.New()
	rec.VersionNumber = version + 1
	s.profiles = append(s.profiles, *rec)
	return nil
}

func (s *memStore) LatestProfile(_ context.Context, ownerID uuid.UUID) (*types.ProfileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *types.ProfileRecord
	for i := range s.profiles {
		if s.profiles[i].OwnerID == ownerID && (latest == nil || s.profiles[i].VersionNumber > latest.VersionNumber) {
			latest = &s.profiles[i]
		}
	}
	return latest, nil
}

func (s *memStore) SaveCoverLetter(_ context.Context, rec *types.CoverLetterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.letters = append(s.letters, *rec)
	return nil
}

func (s *memStore) SavePortfolioSite(_ context.Context, rec *types.PortfolioSiteRecord) error {
	if s.siteErr != nil {
		return s.siteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites = append(s.sites, *rec)
	return nil
}

func (s *memStore) ListProfiles(_ context.Context, ownerID uuid.UUID, limit int) ([]types.ProfileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newestFirst(s.profiles, limit, func(r types.ProfileRecord) bool { return r.OwnerID == ownerID }), nil
}

func (s *memStore) ListCoverLetters(_ context.Context, ownerID uuid.UUID, limit int) ([]types.CoverLetterRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newestFirst(s.letters, limit, func(r types.CoverLetterRecord) bool { return r.OwnerID == ownerID }), nil
}

func (s *memStore) ListPortfolioSites(_ context.Context, ownerID uuid.UUID, limit int) ([]types.PortfolioSiteRecord, error) {
	if s.siteErr != nil {
		return nil, s.siteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return newestFirst(s.sites, limit, func(r types.PortfolioSiteRecord) bool { return r.OwnerID == ownerID }), nil
}

func newestFirst[T any](records []T, limit int, keep func(T) bool) []T {
	out := []T{}
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

type fakeDeployer struct {
	token    string
	siteName string
	bundle   types.StaticSiteBundle
	err      error
}

func (d *fakeDeployer) Deploy(_ context.Context, token, siteName string, bundle types.StaticSiteBundle) (*deploy.Result, error) {
	d.token, d.siteName, d.bundle = token, siteName, bundle
	if d.err != nil {
		return nil, d.err
	}
	return &deploy.Result{Slug: deploy.Slug(siteName), DeployID: "d-1", URL: "https://" + deploy.Slug(siteName) + ".example.app"}, nil
}

var session = types.Session{OwnerID: uuid.MustParse("5f1d3c1e-8b2a-4c55-9a77-0e6c3b9d2f41"), DeployToken: "tok"}

func questionnaire(t *testing.T, answers map[string]any) types.RawInput {
	t.Helper()
	payload, err := json.Marshal(answers)
	require.NoError(t, err)
	return types.RawInput{Source: types.SourceQuestionnaire, Payload: payload}
}

func TestOnboard_VersionsProfiles(t *testing.T) {
	store := &memStore{}
	var events []ProgressEvent
	p := &Pipeline{Store: store, OnProgress: func(e ProgressEvent) { events = append(events, e) }}
	ctx := context.Background()

	first, err := p.Onboard(ctx, session, questionnaire(t, map[string]any{"fullName": "Jane Doe", "skills": "Go, Rust"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, first.Profile.Skills)
	require.NotNil(t, first.Record)
	assert.Equal(t, 1, first.Record.VersionNumber)

	second, err := p.Onboard(ctx, session, questionnaire(t, map[string]any{"fullName": "Jane Q. Doe"}))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Record.VersionNumber)

	current, err := p.CurrentProfile(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", current.Name)

	require.NotEmpty(t, events)
	assert.Equal(t, StepNormalize, events[0].Step)
	assert.Equal(t, session.OwnerID.String(), events[0].OwnerID)
}

func TestOnboard_RequiresOwnerWithStore(t *testing.T) {
	p := &Pipeline{Store: &memStore{}}

	_, err := p.Onboard(context.Background(), types.Session{}, questionnaire(t, map[string]any{}))
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestOnboard_WithoutStore(t *testing.T) {
	p := &Pipeline{}

	result, err := p.Onboard(context.Background(), types.Session{}, questionnaire(t, map[string]any{"fullName": "Jane"}))
	require.NoError(t, err)
	assert.Nil(t, result.Record)
	assert.Equal(t, "Jane", result.Profile.Name)
}

func TestOnboardText_FallbackIsSavedWithWarning(t *testing.T) {
	store := &memStore{}
	completer := llm.CompleterFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("provider unavailable")
	})
	p := &Pipeline{Extractor: normalize.NewExtractor(completer, nil), Store: store}

	result, err := p.OnboardText(context.Background(), session, "Jane Doe, engineer")
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	require.NotNil(t, result.Warning)
	assert.NotEmpty(t, result.WarningMessage())
	require.Len(t, store.profiles, 1)
	assert.True(t, store.profiles[0].Fallback)
	assert.Equal(t, types.SourceDocument, store.profiles[0].SourceKind)
}

func TestOnboardText_UnsupportedInput(t *testing.T) {
	p := &Pipeline{Extractor: normalize.NewExtractor(llm.CompleterFunc(func(context.Context, string, string) (string, error) {
		t.Fatal("collaborator must not be called")
		return "", nil
	}), nil)}

	_, err := p.OnboardText(context.Background(), session, "   ")
	var unsupported *normalize.UnsupportedInputError
	assert.ErrorAs(t, err, &unsupported)
}

func TestAnalyze_PassesThroughErrors(t *testing.T) {
	p := &Pipeline{Analyzer: analysis.NewAnalyzer(llm.CompleterFunc(func(context.Context, string, string) (string, error) {
		return "not json", nil
	}))}

	_, err := p.Analyze(context.Background(), session, analysis.Request{
		Kind: types.DocumentResume, JobDescription: "Go", SourceContent: "Rust",
	})
	var failed *analysis.AnalysisFailedError
	assert.ErrorAs(t, err, &failed)
}

func TestAnalyze_NotConfigured(t *testing.T) {
	_, err := (&Pipeline{}).Analyze(context.Background(), session, analysis.Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCoverLetter_Saved(t *testing.T) {
	store := &memStore{}
	p := &Pipeline{Store: store}
	profile := &types.Profile{Name: "Jane Doe", Role: "Engineer"}

	letter, err := p.CoverLetter(context.Background(), session, profile, CoverLetterRequest{
		Tone: "Enthusiastic", Company: " Acme ", JobTitle: "SRE",
	})
	require.NoError(t, err)

	assert.Contains(t, letter, "Acme")
	require.Len(t, store.letters, 1)
	assert.Equal(t, "enthusiastic", store.letters[0].Tone)
	assert.Equal(t, "Acme", store.letters[0].Company)
	assert.Equal(t, letter, store.letters[0].LetterText)
}

func TestPublishPortfolio(t *testing.T) {
	store := &memStore{}
	deployer := &fakeDeployer{}
	p := &Pipeline{Deployer: deployer, Store: store}
	profile := &types.Profile{Name: "Jane Doe", Role: "Engineer"}

	result, err := p.PublishPortfolio(context.Background(), session, profile, PublishRequest{TemplateID: "Developer", Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "https://jane-doe.example.app", result.URL)
	assert.Equal(t, "tok", deployer.token)
	assert.Equal(t, "Jane Doe", deployer.siteName)
	assert.True(t, deployer.bundle.Complete())
	assert.Contains(t, deployer.bundle[types.BundleIndex], "&copy; 2024 Jane Doe")
	require.NotNil(t, result.Record)
	assert.Equal(t, "developer", result.Record.TemplateID)
	assert.Equal(t, "jane-doe", result.Record.Slug)
}

func TestPublishPortfolio_Errors(t *testing.T) {
	profile := &types.Profile{Name: "Jane"}

	_, err := (&Pipeline{Deployer: &fakeDeployer{}}).PublishPortfolio(context.Background(), types.Session{OwnerID: session.OwnerID}, profile, PublishRequest{})
	assert.ErrorIs(t, err, ErrMissingDeployToken)

	deployErr := &deploy.DeploymentFailedError{Step: deploy.StepUpload, StatusCode: 500}
	_, err = (&Pipeline{Deployer: &fakeDeployer{err: deployErr}}).PublishPortfolio(context.Background(), session, profile, PublishRequest{})
	var failed *deploy.DeploymentFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, deploy.StepUpload, failed.Step)
}

func TestPublishPortfolio_RecordFailureKeepsResult(t *testing.T) {
	store := &memStore{siteErr: errors.New("disk full")}
	p := &Pipeline{Deployer: &fakeDeployer{}, Store: store}

	result, err := p.PublishPortfolio(context.Background(), session, &types.Profile{Name: "Jane"}, PublishRequest{SiteName: "jane site"})
	require.NoError(t, err)
	assert.Equal(t, "https://jane-site.example.app", result.URL)
	assert.Nil(t, result.Record)
}

func TestPipeline_WithLocalStore(t *testing.T) {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "blyn.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	p := &Pipeline{Store: store}
	ctx := context.Background()

	_, err = p.Onboard(ctx, session, questionnaire(t, map[string]any{"fullName": "Jane", "achievements": "Won\n\nShipped"}))
	require.NoError(t, err)

	current, err := p.CurrentProfile(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, []string{"Won", "Shipped"}, current.Achievements)
}

func TestHistory(t *testing.T) {
	store := &memStore{}
	p := &Pipeline{Store: store}
	ctx := context.Background()

	for _, name := range []string{"Ada", "Ada King", "Ada Lovelace"} {
		_, err := p.Onboard(ctx, session, questionnaire(t, map[string]any{"name": name}))
		require.NoError(t, err)
	}
	require.NoError(t, store.SaveCoverLetter(ctx, &types.CoverLetterRecord{OwnerID: session.OwnerID, Company: "Acme"}))
	require.NoError(t, store.SaveCoverLetter(ctx, &types.CoverLetterRecord{OwnerID: uuid.New(), Company: "Other"}))

	history, err := p.History(ctx, session, 2)
	require.NoError(t, err)
	require.Len(t, history.Profiles, 2)
	assert.Equal(t, 3, history.Profiles[0].VersionNumber)
	assert.Equal(t, "Ada Lovelace", history.Profiles[0].Profile.Name)
	require.Len(t, history.CoverLetters, 1)
	assert.Equal(t, "Acme", history.CoverLetters[0].Company)
	assert.Empty(t, history.PortfolioSites)
}

func TestHistory_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := (&Pipeline{}).History(ctx, session, 0)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = (&Pipeline{Store: &memStore{}}).History(ctx, types.Session{}, 0)
	assert.ErrorIs(t, err, ErrMissingOwner)

	_, err = (&Pipeline{Store: &memStore{siteErr: errors.New("disk full")}}).History(ctx, session, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list portfolio sites: disk full")
}
