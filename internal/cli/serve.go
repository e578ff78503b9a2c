package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recolour HTTP API",
		Long: `Serve the recolour pipeline over HTTP.

Endpoints:
  GET  /healthz       liveness and version
  POST /v1/recolour   recolour elements with one or more palettes
  POST /v1/gradient   recolour a single gradient
  POST /v1/closest    find the nearest palette colour

Request defaults (strategy, threshold, contrast) come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}

			opts, err := a.cfg.Options()
			if err != nil {
				return err
			}
			srv, err := server.New(opts, a.logger.Named("server"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
