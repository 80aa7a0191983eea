package main

import (
	"fmt"

	"github.com/jonathan/blyn/internal/analysis"
	"github.com/jonathan/blyn/internal/fetch"
	"github.com/jonathan/blyn/internal/types"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		kind        string
		contentFile string
		jdFile      string
		jdURL       string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a resume or portfolio against a job description",
		Long: `Analyze asks the collaborator to score document content against a job
description and reports an overall score, per-section scores, missing
keywords and suggestions. The job description can be read from a file or
fetched from a job posting URL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jdFile == "" && jdURL == "" {
				return fmt.Errorf("either --jd or --jd-url is required")
			}
			if jdFile != "" && jdURL != "" {
				return fmt.Errorf("--jd and --jd-url are mutually exclusive")
			}

			content, err := readInput(cmd, contentFile)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			var jobDescription string
			if jdURL != "" {
				var render fetch.Renderer
				if a.cfg.UseBrowser {
					render = fetch.BrowserRenderer(a.timeout(), a.cfg.Verbose)
				}
				jobDescription, err = fetch.JobDescription(ctx, jdURL, &fetch.JobPostingOptions{
					Fetch:   fetch.DefaultOptions(),
					Render:  render,
					Verbose: a.cfg.Verbose,
				})
				if err != nil {
					return fmt.Errorf("failed to fetch job posting: %w", err)
				}
			} else {
				data, err := readInput(cmd, jdFile)
				if err != nil {
					return err
				}
				jobDescription = string(data)
			}

			req := analysis.Request{
				Kind:           types.DocumentKind(kind),
				JobDescription: jobDescription,
				SourceContent:  string(content),
			}
			if err := req.Validate(); err != nil {
				return err
			}

			p, err := a.pipeline(ctx, pipelineParts{collaborator: true})
			if err != nil {
				return err
			}
			report, err := p.Analyze(ctx, a.session, req)
			if err != nil {
				return err
			}
			if a.cfg.Verbose {
				a.printer.PrintScoreReport(report)
			}
			return a.writeJSON(output, report)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(types.DocumentResume), "Document kind: resume or portfolio")
	cmd.Flags().StringVar(&contentFile, "content", "", "Document content file (- for stdin)")
	cmd.Flags().StringVar(&jdFile, "jd", "", "Job description text file")
	cmd.Flags().StringVar(&jdURL, "jd-url", "", "Job posting URL to fetch the description from")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output report JSON file (default stdout)")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}
