package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/dragon-hoard/internal/adapters/httpapi"
	"github.com/bnema/dragon-hoard/internal/config"
	"github.com/spf13/cobra"
)

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.credentials.APIKey(cmd.Context()); err != nil {
				return err
			}
			if addr == "" {
				addr = app.cfg.GetString(config.KeyServeAddr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpapi.NewServer(app.newEngine, app.sessions, app.logger.Named("http"))
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to serve.addr)")

	return cmd
}
