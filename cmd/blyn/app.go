package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/analysis"
	"github.com/jonathan/blyn/internal/config"
	"github.com/jonathan/blyn/internal/db"
	"github.com/jonathan/blyn/internal/deploy"
	"github.com/jonathan/blyn/internal/llm"
	"github.com/jonathan/blyn/internal/localstore"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/jonathan/blyn/internal/observability"
	"github.com/jonathan/blyn/internal/pipeline"
	"github.com/jonathan/blyn/internal/storage"
	"github.com/jonathan/blyn/internal/types"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	owner      string
	provider   string
	model      string
	apiKey     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "blyn",
		Short:         "Career profile pipeline",
		Long:          "blyn turns resumes, questionnaires and public profile pages into one structured profile, scores it against job descriptions, renders resumes, cover letters and portfolio sites, and publishes the portfolio.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to JSON or YAML config file")
	root.PersistentFlags().StringVar(&opts.owner, "owner", "", "Owner UUID; enables profile versioning in the configured store")
	root.PersistentFlags().StringVar(&opts.provider, "provider", "", "Collaborator provider (gemini or anthropic)")
	root.PersistentFlags().StringVar(&opts.model, "model", "", "Run every collaborator task on this model")
	root.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Collaborator API key (defaults to GEMINI_API_KEY or ANTHROPIC_API_KEY)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed summaries")

	root.AddCommand(
		newNormalizeCmd(opts),
		newExtractCmd(opts),
		newScrapeCmd(opts),
		newAnalyzeCmd(opts),
		newRenderCmd(opts),
		newDeployCmd(opts),
		newHistoryCmd(opts),
		newTokenCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// app is the per-invocation wiring resolved from flags, config file and environment.
type app struct {
	cfg     config.Config
	session types.Session
	out     io.Writer
	printer *observability.Printer
	closers []func()
}

// newApp resolves configuration. Flags win over the config file, which wins over
// the environment and built-in defaults.
func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg := config.Config{}
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.provider != "" {
		cfg.Provider = opts.provider
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if opts.apiKey != "" {
		if cfg.Provider == string(llm.ProviderAnthropic) {
			cfg.AnthropicAPIKey = opts.apiKey
		} else {
			cfg.GeminiAPIKey = opts.apiKey
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var ownerID uuid.UUID
	if opts.owner != "" {
		parsed, err := uuid.Parse(opts.owner)
		if err != nil {
			return nil, fmt.Errorf("invalid --owner: %w", err)
		}
		ownerID = parsed
	}

	out := cmd.OutOrStdout()
	return &app{
		cfg:     cfg,
		session: types.Session{OwnerID: ownerID, DeployToken: cfg.DeployToken},
		out:     out,
		printer: observability.NewPrinter(cmd.ErrOrStderr()),
	}, nil
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.cfg.TimeoutSeconds) * time.Second
}

// close releases everything opened by the app in reverse order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// pipelineParts selects which optional components a command needs.
type pipelineParts struct {
	collaborator bool
	deployer     bool
	store        bool
}

// pipeline wires the requested components. The store is opened only for commands
// run with an owner.
func (a *app) pipeline(ctx context.Context, parts pipelineParts) (*pipeline.Pipeline, error) {
	p := &pipeline.Pipeline{}
	if a.cfg.Verbose {
		p.OnProgress = func(event pipeline.ProgressEvent) {
			log.Printf("[%s] %s", event.Step, event.Message)
		}
	}

	if parts.collaborator {
		if err := a.attachCollaborator(ctx, p); err != nil {
			return nil, err
		}
	}

	if parts.deployer {
		client := deploy.NewClient(a.cfg.DeployBaseURL, deploy.WithStateHook(func(state deploy.State) {
			if a.cfg.Verbose {
				log.Printf("[deploy] state %s", state)
			}
		}))
		p.Deployer = client
	}

	if parts.store && a.session.OwnerID != uuid.Nil {
		store, err := a.store(ctx)
		if err != nil {
			return nil, err
		}
		p.Store = store
	}
	return p, nil
}

// attachCollaborator gives the pipeline an extractor and an analyzer, each bound
// to its own task model.
func (a *app) attachCollaborator(ctx context.Context, p *pipeline.Pipeline) error {
	client, err := a.collaborator(ctx)
	if err != nil {
		return err
	}
	objects, err := a.objectStore(ctx)
	if err != nil {
		return err
	}
	if a.cfg.Verbose {
		log.Printf("[llm] extract=%s score=%s", client.Model(llm.TaskExtract), client.Model(llm.TaskScore))
	}
	p.Extractor = normalize.NewExtractor(llm.NewCompleter(client, llm.TaskExtract), objects)
	p.Analyzer = analysis.NewAnalyzer(llm.NewCompleter(client, llm.TaskScore))
	return nil
}

// collaborator builds the LLM client for the configured provider.
func (a *app) collaborator(ctx context.Context) (llm.Client, error) {
	provider, err := llm.ParseProvider(a.cfg.Provider)
	if err != nil {
		return nil, err
	}
	apiKey := a.cfg.APIKey()
	if apiKey == "" {
		envVar := config.EnvGeminiAPIKey
		if provider == llm.ProviderAnthropic {
			envVar = config.EnvAnthropicAPIKey
		}
		return nil, fmt.Errorf("%s environment variable or --api-key flag is required", envVar)
	}

	client, err := llm.NewClient(ctx, llm.ConfigFor(provider).WithModel(a.cfg.Model), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	return client, nil
}

// objectStore returns the GCS bucket store when a bucket is configured and nil
// otherwise, in which case documents are extracted without being staged.
func (a *app) objectStore(ctx context.Context) (storage.ObjectStore, error) {
	if a.cfg.GCSBucket == "" {
		return nil, nil
	}
	store, err := storage.NewGCSStore(ctx, a.cfg.GCSBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", a.cfg.GCSBucket, err)
	}
	return store, nil
}

// store opens PostgreSQL when a database URL is configured and the local SQLite
// store otherwise.
func (a *app) store(ctx context.Context) (pipeline.ProfileStore, error) {
	if a.cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		return database, nil
	}

	store, err := localstore.Open(a.cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = store.Close() })
	return store, nil
}

// loadProfile reads a profile JSON file, or the owner's latest stored profile when
// no file is given.
func (a *app) loadProfile(ctx context.Context, p *pipeline.Pipeline, path string) (*types.Profile, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file: %w", err)
		}
		var profile types.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
		}
		return normalize.NormalizeProfile(&profile), nil
	}

	if a.session.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("--profile or --owner is required")
	}
	profile, err := p.CurrentProfile(ctx, a.session)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no stored profile for owner %s", a.session.OwnerID)
	}
	return profile, nil
}

// writeJSON writes v as indented JSON to path, or to the command output when path is empty.
func (a *app) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return a.writeOutput(path, string(data)+"\n")
}

// writeOutput writes content to path, creating parent directories, or to the
// command output when path is empty.
func (a *app) writeOutput(path, content string) error {
	if path == "" {
		_, err := io.WriteString(a.out, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
