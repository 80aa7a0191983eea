package main

import (
	"log"

	"github.com/jonathan/blyn/internal/config"
	"github.com/jonathan/blyn/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Serve exposes the pipeline over HTTP. Requests are authenticated with bearer
tokens when JWT_SECRET is set; the hosting token travels per request in the
X-Deploy-Token header. Without a collaborator API key, extraction and
analysis endpoints answer 503.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := a.pipeline(ctx, pipelineParts{deployer: true})
			if err != nil {
				a.close()
				return err
			}

			if err := a.attachCollaborator(ctx, p); err != nil {
				log.Printf("[serve] collaborator disabled: %v", err)
			}

			store, err := a.store(ctx)
			if err != nil {
				a.close()
				return err
			}
			p.Store = store

			jwtConfig, err := config.JWTConfigFromEnv()
			if err != nil {
				a.close()
				return err
			}
			if jwtConfig == nil {
				log.Printf("[serve] JWT_SECRET not set, serving anonymous sessions without persistence")
			}

			if port == 0 {
				port = a.cfg.Port
			}
			srv, err := server.New(server.Config{Port: port, JWT: jwtConfig}, p)
			if err != nil {
				a.close()
				return err
			}
			srv.OnShutdown(a.close)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default 8080)")
	return cmd
}
