package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/blyn/internal/fetch"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/spf13/cobra"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var (
		file     string
		textFile string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a profile from a resume document or pasted text",
		Long: `Extract sends a resume (PDF, DOCX or plain text) or pasted resume text to the
collaborator and normalizes the structured record it returns. When extraction
fails the sample profile is returned with a warning. PDF and DOCX files are
staged to the GCS_BUCKET bucket for the collaborator to read, so they need one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (file == "") == (textFile == "") {
				return fmt.Errorf("exactly one of --file or --text-file is required")
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			p, err := a.pipeline(ctx, pipelineParts{collaborator: true, store: true})
			if err != nil {
				return err
			}

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read document: %w", err)
				}
				if len(data) > normalize.MaxDocumentSize {
					return fmt.Errorf("document is larger than %d bytes", normalize.MaxDocumentSize)
				}
				result, err := p.OnboardDocument(ctx, a.session, normalize.Document{Filename: filepath.Base(file), Data: data})
				if err != nil {
					return err
				}
				return a.reportOnboard(output, result)
			}

			text, err := readInput(cmd, textFile)
			if err != nil {
				return err
			}
			result, err := p.OnboardText(ctx, a.session, string(text))
			if err != nil {
				return err
			}
			return a.reportOnboard(output, result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Resume document (PDF, DOCX or TXT)")
	cmd.Flags().StringVarP(&textFile, "text-file", "t", "", "Plain-text resume file (- for stdin)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output profile JSON file (default stdout)")
	return cmd
}

func newScrapeCmd(opts *rootOptions) *cobra.Command {
	var (
		profileURL string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a public profile page into the common profile",
		Long: `Scrape renders a public profile page in a headless browser, reads its name,
headline, experience, education and skills, and normalizes them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := fetch.ValidateProfileURL(profileURL); err != nil {
				return err
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			p, err := a.pipeline(ctx, pipelineParts{store: true})
			if err != nil {
				return err
			}
			raw, err := fetch.ScrapeProfile(ctx, profileURL, &fetch.ScrapeOptions{
				Render:  fetch.BrowserRenderer(a.timeout(), a.cfg.Verbose),
				Timeout: a.timeout(),
				Verbose: a.cfg.Verbose,
			})
			if err != nil {
				return err
			}
			result, err := p.Onboard(ctx, a.session, raw)
			if err != nil {
				return err
			}
			return a.reportOnboard(output, result)
		},
	}

	cmd.Flags().StringVarP(&profileURL, "url", "u", "", "Public profile URL")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output profile JSON file (default stdout)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
