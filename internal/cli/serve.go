package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/internal/server"
	"github.com/matzehuels/baseline/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the detection API for editor integrations",
		Long: `Serve starts the HTTP API. Editors send document text to /v1/detect and
/v1/resolve, or open a session under /v1/sessions to keep a per-editor
detection cache between keystrokes.`,
		Example: `  baseline serve
  baseline serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			ctx := cmd.Context()
			eng, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			logger := loggerFromContext(ctx)
			store := session.NewMemoryStore(eng.detector, c.cfg.Server.SessionTTL.Duration)
			srv := server.New(eng.detector, eng.client, store, server.Options{
				RequestTimeout: c.cfg.Server.RequestTimeout.Duration,
				Logger:         logger,
				Cache:          eng.cache,
			})
			logger.Info("serving", "endpoint", eng.client.Endpoint(), "cache", c.cfg.Cache.Backend)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8787)")
	return cmd
}
