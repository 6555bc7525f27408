package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the breaking pipeline over HTTP:

  POST /v1/break   break an element sequence
  POST /v1/text    break plain text into lines
  POST /v1/graph   render a break graph (dot or svg)
  GET  /healthz    liveness check
  GET  /version    build information

The [breaking] and [text] sections of the config file are the defaults of
every request. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.config()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			scfg := server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Defaults:     optionsFromConfig(cfg),
			}
			if cmd.Flags().Changed("addr") {
				scfg.Addr = addr
			}

			srv := server.New(runner, logger, scfg)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
