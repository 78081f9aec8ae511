package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipqr/internal/events"
	"github.com/berrythewa/clipqr/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API on --addr (default from server.host/server.port).

Examples:
  clipqr serve
  clipqr serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = GetConfig().Server.Addr()
			}

			rt, err := openRuntime(GetConfig(), GetZapLogger(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			dispatcher := events.NewDispatcher(rt.logger)
			rt.app.Bind(dispatcher)
			srv := server.New(server.Config{
				App:        rt.app,
				Dispatcher: dispatcher,
				Logger:     rt.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")

	return cmd
}
