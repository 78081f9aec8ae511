package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipqr/internal/clipboard"
	"github.com/berrythewa/clipqr/internal/types"
)

func newFileCmd() *cobra.Command {
	var (
		local     bool
		copyLink  bool
		outFormat string
	)

	cmd := &cobra.Command{
		Use:   "file <path>...",
		Short: "Upload files and encode their links",
		Long: `Upload each file to the configured host and encode its direct-download
link. With --local (or upload.enabled: false) text files are encoded as their
text and other files as data URIs.

Examples:
  clipqr file photo.png
  clipqr file --local notes.txt
  clipqr file --copy report.pdf   # also copy the link to the clipboard`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(GetConfig(), GetZapLogger(), runtimeOptions{local: local})
			if err != nil {
				return err
			}
			defer rt.Close()

			var failed []error
			for _, path := range args {
				f, err := types.FileFromPath(path)
				if err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", path, err))
					continue
				}
				if err := rt.app.ProcessFile(cmd.Context(), f); err != nil {
					rt.logger.Debug("File failed", zap.String("path", path), zap.Error(err))
					failed = append(failed, fmt.Errorf("%s: %w", path, err))
					continue
				}

				st := rt.app.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", st.Input)
				if copyLink {
					if err := clipboard.NewSystem().WriteText(st.Input); err != nil {
						rt.logger.Warn("Failed to copy link", zap.Error(err))
					}
				}
				if err := writeSymbol(cmd, st.QR.Symbol, outFormat, ""); err != nil {
					return err
				}
			}
			return errors.Join(failed...)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "render files locally instead of uploading")
	cmd.Flags().BoolVar(&copyLink, "copy", false, "copy the resulting payload to the system clipboard")
	cmd.Flags().StringVarP(&outFormat, "format", "f", "text", "output format: text or svg")

	return cmd
}
