package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipqr/internal/config"
)

// newRootCmd builds the command tree. Flag values live on the returned
// command, so every call starts from defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clipqr",
		Short: "Turn text, links and files into QR codes",
		Long: `ClipQR turns pasted text, links and files into scannable QR codes:
  • Picks the link you meant out of pasted or dropped content
  • Uploads files and encodes a direct-download link
  • Keeps a persisted list of recent items`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			SetConfig(loaded)

			logger, err := SetupLogger()
			if err != nil {
				return err
			}
			SetZapLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if zapLogger != nil {
				_ = zapLogger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/clipqr/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimize output")

	rootCmd.AddCommand(
		newEncodeCmd(),
		newFileCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newTUICmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute builds the root command and runs it
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
