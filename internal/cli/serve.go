package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/itemshuffle/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted. Settings come from ITEMSHUFFLE_* environment variables.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shuffle API over HTTP",
		Long: `Serve the shuffle API over HTTP.

Configuration is read from the environment:
  ITEMSHUFFLE_ADDR              listen address (default :8080)
  ITEMSHUFFLE_REDIS_URL         shared Redis cache (default none)
  ITEMSHUFFLE_MAX_ATTEMPTS      attempt cap per request (default 100)
  ITEMSHUFFLE_PARALLELISM       concurrent attempts per request (default 4)
  ITEMSHUFFLE_MAX_ALTERNATIVES  integration blow-up cap (default 4096)
  ITEMSHUFFLE_REQUEST_TIMEOUT   per-request deadline (default 30s)
  ITEMSHUFFLE_SHUTDOWN_TIMEOUT  graceful shutdown window (default 10s)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			srv, err := server.New(cmd.Context(), cfg, nil, c.Logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ITEMSHUFFLE_ADDR)")

	return cmd
}
