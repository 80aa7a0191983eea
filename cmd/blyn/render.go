package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/blyn/internal/pipeline"
	"github.com/jonathan/blyn/internal/rendering"
	"github.com/jonathan/blyn/internal/types"
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render resumes, cover letters and portfolio sites from a profile",
		Long: `Render produces artifacts from a profile JSON file (--profile) or, with
--owner, from the owner's latest stored profile.`,
	}
	cmd.AddCommand(
		newRenderResumeCmd(opts),
		newRenderLaTeXCmd(opts),
		newRenderCoverLetterCmd(opts),
		newRenderPortfolioCmd(opts),
	)
	return cmd
}

// renderProfile resolves the app and the profile to render.
func renderProfile(cmd *cobra.Command, opts *rootOptions, profilePath string) (*app, *pipeline.Pipeline, *types.Profile, error) {
	a, err := newApp(cmd, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := a.pipeline(cmd.Context(), pipelineParts{store: true})
	if err != nil {
		a.close()
		return nil, nil, nil, err
	}
	profile, err := a.loadProfile(cmd.Context(), p, profilePath)
	if err != nil {
		a.close()
		return nil, nil, nil, err
	}
	return a, p, profile, nil
}

func newRenderResumeCmd(opts *rootOptions) *cobra.Command {
	var profilePath, style, output string

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Render the resume view model as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, profile, err := renderProfile(cmd, opts, profilePath)
			if err != nil {
				return err
			}
			defer a.close()

			if style == "" {
				style = a.cfg.ResumeStyle
			}
			return a.writeJSON(output, rendering.RenderResume(profile, style))
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile JSON file")
	cmd.Flags().StringVar(&style, "style", "", "Resume style: modern, professional, creative, minimalist, executive or tech")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output JSON file (default stdout)")
	return cmd
}

func newRenderLaTeXCmd(opts *rootOptions) *cobra.Command {
	var profilePath, style, templatePath, output string

	cmd := &cobra.Command{
		Use:   "latex",
		Short: "Render the resume as a LaTeX document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, profile, err := renderProfile(cmd, opts, profilePath)
			if err != nil {
				return err
			}
			defer a.close()

			if style == "" {
				style = a.cfg.ResumeStyle
			}
			view := rendering.RenderResume(profile, style)

			var latex string
			if templatePath != "" {
				latex, err = rendering.RenderResumeLaTeXTemplate(view, templatePath)
			} else {
				latex, err = rendering.RenderResumeLaTeX(view)
			}
			if err != nil {
				return err
			}
			return a.writeOutput(output, latex)
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile JSON file")
	cmd.Flags().StringVar(&style, "style", "", "Resume style: modern, professional, creative, minimalist, executive or tech")
	cmd.Flags().StringVar(&templatePath, "template", "", "Custom LaTeX template file (default embedded template)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output .tex file (default stdout)")
	return cmd
}

func newRenderCoverLetterCmd(opts *rootOptions) *cobra.Command {
	var (
		profilePath string
		req         pipeline.CoverLetterRequest
		jdFile      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "cover-letter",
		Short: "Render a cover letter for a company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, p, profile, err := renderProfile(cmd, opts, profilePath)
			if err != nil {
				return err
			}
			defer a.close()

			if req.Tone == "" {
				req.Tone = a.cfg.CoverLetterTone
			}
			if jdFile != "" {
				data, err := readInput(cmd, jdFile)
				if err != nil {
					return err
				}
				req.JobDescription = string(data)
			}
			letter, err := p.CoverLetter(cmd.Context(), a.session, profile, req)
			if err != nil {
				return err
			}
			return a.writeOutput(output, letter+"\n")
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile JSON file")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "Tone: professional, enthusiastic, confident, creative or conversational")
	cmd.Flags().StringVar(&req.Company, "company", "", "Target company")
	cmd.Flags().StringVar(&req.JobTitle, "job-title", "", "Target job title")
	cmd.Flags().StringVar(&jdFile, "jd", "", "Job description file stored with the letter")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output text file (default stdout)")
	return cmd
}

func newRenderPortfolioCmd(opts *rootOptions) *cobra.Command {
	var (
		profilePath string
		templateID  string
		year        int
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Render the static portfolio site",
		Long: `Portfolio renders index.html, styles.css and script.js. With --out-dir the files
are written to that directory; otherwise the bundle is printed as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, profile, err := renderProfile(cmd, opts, profilePath)
			if err != nil {
				return err
			}
			defer a.close()

			if templateID == "" {
				templateID = a.cfg.PortfolioTemplate
			}
			var renderOpts []rendering.PortfolioOption
			if year > 0 {
				renderOpts = append(renderOpts, rendering.WithCopyrightYear(year))
			}
			bundle, err := rendering.RenderPortfolioSite(profile, templateID, renderOpts...)
			if err != nil {
				return err
			}

			if outDir == "" {
				return a.writeJSON("", bundle)
			}
			if err := writeBundle(outDir, bundle); err != nil {
				return err
			}
			a.printer.PrintInfo(fmt.Sprintf("Wrote %d files to %s", len(bundle), outDir))
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile JSON file")
	cmd.Flags().StringVar(&templateID, "template", "", "Template ID, e.g. default, developer, designer or academic")
	cmd.Flags().IntVar(&year, "year", 0, "Copyright year (default current year)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory to write the site files to")
	return cmd
}

// writeBundle writes every bundle file under dir.
func writeBundle(dir string, bundle types.StaticSiteBundle) error {
	for _, name := range bundle.Paths() {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(target, []byte(bundle[name]), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
