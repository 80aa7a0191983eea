package main

import (
	"fmt"

	"github.com/jonathan/blyn/internal/config"
	"github.com/jonathan/blyn/internal/pipeline"
	"github.com/spf13/cobra"
)

func newDeployCmd(opts *rootOptions) *cobra.Command {
	var (
		profilePath string
		token       string
		req         pipeline.PublishRequest
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Render the portfolio and publish it to the static hosting provider",
		Long: `Deploy renders the portfolio site and publishes it. The site name defaults
to a slug of the profile name; the site is created when it does not exist yet.
Only files the provider does not already have are uploaded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if token != "" {
				a.session.DeployToken = token
			}
			if a.session.DeployToken == "" {
				return fmt.Errorf("%s environment variable or --token flag is required", config.EnvDeployToken)
			}
			if req.TemplateID == "" {
				req.TemplateID = a.cfg.PortfolioTemplate
			}

			ctx := cmd.Context()
			p, err := a.pipeline(ctx, pipelineParts{deployer: true, store: true})
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(ctx, p, profilePath)
			if err != nil {
				return err
			}

			result, err := p.PublishPortfolio(ctx, a.session, profile, req)
			if err != nil {
				return err
			}
			a.printer.PrintDeployResult(result.Deploy)
			_, err = fmt.Fprintln(a.out, result.URL)
			return err
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile JSON file")
	cmd.Flags().StringVar(&token, "token", "", "Hosting provider token (defaults to NETLIFY_TOKEN)")
	cmd.Flags().StringVar(&req.TemplateID, "template", "", "Template ID, e.g. default, developer, designer or academic")
	cmd.Flags().StringVar(&req.SiteName, "site", "", "Site name (default derived from the profile name)")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Copyright year (default current year)")
	return cmd
}
