package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List an owner's stored profile versions, cover letters and sites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			if a.session.OwnerID == uuid.Nil {
				return fmt.Errorf("--owner is required")
			}

			p, err := a.pipeline(cmd.Context(), pipelineParts{store: true})
			if err != nil {
				return err
			}
			history, err := p.History(cmd.Context(), a.session, limit)
			if err != nil {
				return err
			}

			for _, rec := range history.Profiles {
				a.printer.PrintInfo(fmt.Sprintf("profile v%d  %s  %s  %s",
					rec.VersionNumber, rec.CreatedAt.Format("2006-01-02 15:04"), rec.SourceKind, rec.Profile.Name))
			}
			for _, site := range history.PortfolioSites {
				a.printer.PrintInfo(fmt.Sprintf("site  %s  %s", site.CreatedAt.Format("2006-01-02 15:04"), site.URL))
			}
			return a.writeJSON(output, history)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records per list (default 20, max 100)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output JSON file (default stdout)")
	return cmd
}
