package clipboard

import (
	"context"
	"errors"
	"fmt"

	atottoClip "github.com/atotto/clipboard"

	"github.com/berrythewa/clipqr/internal/types"
)

// ErrUnsupported is returned when no clipboard utility is available
var ErrUnsupported = errors.New("system clipboard is not available")

// Clipboard reads and writes text on a clipboard
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the OS clipboard, backed by atotto/clipboard. It only supports
// text content.
type System struct{}

// NewSystem returns the OS clipboard
func NewSystem() *System {
	return &System{}
}

func (s *System) ReadText() (string, error) {
	if atottoClip.Unsupported {
		return "", ErrUnsupported
	}
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

func (s *System) WriteText(text string) error {
	if atottoClip.Unsupported {
		return ErrUnsupported
	}
	if err := atottoClip.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// PasteItems returns the clipboard as the items of a paste event. The text
// is read lazily, when the router reads the item.
func PasteItems(cb Clipboard) []types.Item {
	return []types.Item{{
		Kind: types.KindString,
		Type: types.MediaPlainText,
		Read: func(ctx context.Context) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return cb.ReadText()
		},
	}}
}
