package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Recovery levels accepted by NewSymbolEncoder and ParseLevel
const (
	LevelLow     = "low"
	LevelMedium  = "medium"
	LevelHigh    = "high"
	LevelHighest = "highest"
)

// SymbolEncoder renders payloads with go-qrcode
type SymbolEncoder struct {
	level qrcode.RecoveryLevel
}

// NewSymbolEncoder creates an encoder; unknown levels fall back to medium
func NewSymbolEncoder(level string) *SymbolEncoder {
	l, err := ParseLevel(level)
	if err != nil {
		l = qrcode.Medium
	}
	return &SymbolEncoder{level: l}
}

// ParseLevel maps a level name to a go-qrcode recovery level
func ParseLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(level) {
	case LevelLow:
		return qrcode.Low, nil
	case LevelMedium, "":
		return qrcode.Medium, nil
	case LevelHigh:
		return qrcode.High, nil
	case LevelHighest:
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("unknown recovery level %q", level)
	}
}

// Encode implements Encoder
func (s *SymbolEncoder) Encode(payload string, width, height int) (*Symbol, error) {
	code, err := qrcode.New(payload, s.level)
	if err != nil {
		return nil, err
	}
	bitmap := code.Bitmap()
	return &Symbol{
		SVG:     renderSVG(bitmap, width, height),
		Text:    code.ToSmallString(false),
		Modules: len(bitmap),
	}, nil
}

// renderSVG draws one rect per horizontal run of dark modules, scaled to
// width x height by the viewBox.
func renderSVG(bitmap [][]bool, width, height int) string {
	n := len(bitmap)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, width, height, n, n)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#fff"/>`, n, n)
	b.WriteString(`<path fill="#000" d="`)
	for y, row := range bitmap {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			fmt.Fprintf(&b, "M%d %dh%dv1h-%dz", start, y, x-start, x-start)
		}
	}
	b.WriteString(`"/></svg>`)
	return b.String()
}
