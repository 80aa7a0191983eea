package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/config"
	"github.com/jonathan/blyn/internal/server"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an API session token for --owner",
		Long: `Token signs a bearer token for the HTTP API with JWT_SECRET. The token's
subject is the owner ID; JWT_TTL and JWT_ISSUER must match the server's.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := uuid.Parse(opts.owner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			cfg, err := config.LoadJWTConfig()
			if err != nil {
				return err
			}
			token, err := server.NewJWTService(cfg).GenerateToken(owner)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
