package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipqr/internal/clipboard"
	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/ingest"
	"github.com/berrythewa/clipqr/internal/qr"
	"github.com/berrythewa/clipqr/internal/types"
)

func newEncodeCmd() *cobra.Command {
	var (
		mediaType  string
		outFormat  string
		outputFile string
		noHistory  bool
		fromClip   bool
	)

	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text or a link as a QR code",
		Long: `Encode text or a link as a QR code. Without arguments the text is read
from stdin. The input goes through the same filtering as a paste: markup and
JSON are ignored and an embedded link is preferred over surrounding text.

Examples:
  clipqr encode https://example.com
  echo "see https://example.com/x" | clipqr encode
  clipqr encode --type text/uri-list "$(cat links.txt)"
  clipqr encode --format svg -o code.svg hello
  clipqr encode --clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []types.Item
			switch {
			case fromClip:
				items = clipboard.PasteItems(clipboard.NewSystem())
			case len(args) > 0:
				items = []types.Item{types.StringItem(mediaType, strings.Join(args, " "))}
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				items = []types.Item{types.StringItem(mediaType, string(data))}
			}

			rt, err := openRuntime(GetConfig(), GetZapLogger(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			router := ingest.NewRouter(ingest.RouterConfig{Logger: rt.logger})
			payload, ok, err := router.Resolve(cmd.Context(), items)
			if err != nil {
				return err
			}
			if !ok {
				return cqerrors.NewUnusableInput()
			}

			var res qr.Result
			if noHistory {
				res = rt.app.Emitter().Emit(payload)
			} else {
				if err := rt.app.HandlePayload(cmd.Context(), payload); err != nil {
					return err
				}
				res = rt.app.Snapshot().QR
			}
			if !res.OK {
				return fmt.Errorf("%s: %w", res.Message, res.Err)
			}
			return writeSymbol(cmd, res.Symbol, outFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&mediaType, "type", "t", types.MediaPlainText, "declared media type of the input")
	cmd.Flags().StringVarP(&outFormat, "format", "f", "text", "output format: text or svg")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the symbol to a file instead of stdout")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the payload in history")
	cmd.Flags().BoolVar(&fromClip, "clipboard", false, "read the input from the system clipboard")

	return cmd
}

func writeSymbol(cmd *cobra.Command, symbol *qr.Symbol, outFormat, outputFile string) error {
	var out string
	switch outFormat {
	case "text", "":
		out = symbol.Text
	case "svg":
		out = symbol.SVG
	default:
		return cqerrors.NewInvalidRequest("format must be text or svg")
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputFile, err)
		}
		return nil
	}
	_, err := io.WriteString(cmd.OutOrStdout(), out)
	return err
}
