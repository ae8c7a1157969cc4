package abplay

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/abplay/internal/server"
	"github.com/spf13/cobra"
)

// newServeCmd implements 'serve', the HTTP evaluation API.
func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation API over HTTP",
		Long: `Expose POST /v1/evaluate, GET /v1/topics, GET /v1/topics/:slug, /healthz and
Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config
			alpha, alt, err := evaluationDefaults(cfg)
			if err != nil {
				return reportValidation(cmd.ErrOrStderr(), err)
			}
			srv, err := server.New(server.Options{
				Addr:        cfg.ListenAddr(),
				ReadTimeout: cfg.ReadTimeoutDuration(),
				Defaults:    server.Defaults{Alpha: alpha, Alternative: alt},
				Debug:       cfg.Debug,
			})
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default :8080)")
	_ = a.v.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	return cmd
}
