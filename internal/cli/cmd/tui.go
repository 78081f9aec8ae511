package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipqr/internal/clipboard"
	"github.com/berrythewa/clipqr/internal/tui"
)

func newTUICmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal interface",
		Long: `Interactive terminal interface. Type or paste to render a QR code,
paste or drop file paths to upload them, and drag or click the bottom bar to
open recent items.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(GetConfig(), GetZapLogger(), runtimeOptions{local: local})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, tui.Config{
				App:       rt.app,
				Logger:    rt.logger,
				Clipboard: clipboard.NewSystem(),
			})
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "render files locally instead of uploading")

	return cmd
}
