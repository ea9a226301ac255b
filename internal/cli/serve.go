package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainstack/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		workers int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve stack orders over HTTP:

  POST /v1/order    compute a stack order
  POST /v1/verify   check a stack order
  POST /v1/render   draw a network (?format=svg|dot)
  GET  /healthz     build information

Set cache.backend = "redis" in the config file to share results between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := server.Config{Addr: c.Config.Server.Addr, Workers: c.Config.Server.Workers}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, cfg)
			printInfo("Listening on %s", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "cap on per-request workers (0: no cap)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
