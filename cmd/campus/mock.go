package main

import (
	"github.com/aussiebroadwan/campus/internal/app"
	"github.com/spf13/cobra"
)

func (c *cli) mockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run an in-memory campus API for development",
		Long: `Run an in-memory campus API for development.

The server speaks the same protocol as the real API and checks payloads
with --bot-token. With --seed it starts with demo content and logs signed
payloads for a demo admin and student. Prometheus metrics are served on
/metrics.

Examples:
  campus mock
  campus mock --port 9000 --seed=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.logger = app.NewLogger(c.cfg, "campus-mock")
			return app.NewMockServer(c.cfg, c.logger, nil).Run()
		},
	}

	cmd.Flags().IntVarP(&c.cfg.MockPort, "port", "p", c.cfg.MockPort, "Port to listen on")
	cmd.Flags().BoolVar(&c.cfg.MockSeed, "seed", c.cfg.MockSeed, "Load demo content")
	return cmd
}
