package format

import (
	"fmt"
	"strings"

	"github.com/berrythewa/clipqr/internal/types"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"
	Cyan  = "\033[36m"
	Gray  = "\033[90m"
)

// Options controls how history records are printed
type Options struct {
	UseColors bool
	Compact   bool
	ShowIDs   bool
	MaxWidth  int
}

// DefaultOptions returns the options used by the history command
func DefaultOptions() Options {
	return Options{
		UseColors: true,
		ShowIDs:   true,
		MaxWidth:  80,
	}
}

// ColorizeIf wraps text in color when enabled
func ColorizeIf(text, color string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	return color + text + Reset
}

// DimIf dims text when enabled
func DimIf(text string, enabled bool) string {
	return ColorizeIf(text, Dim, enabled)
}

// Formatter renders history records for terminal output
type Formatter struct {
	options Options
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{options: opts}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatRecord formats a single record
func (f *Formatter) FormatRecord(r types.HistoryRecord) string {
	label := ColorizeIf(r.Label, Bold, f.options.UseColors)

	var meta []string
	if r.TypeSize != "" {
		meta = append(meta, r.TypeSize)
	}
	if !r.Created.IsZero() {
		meta = append(meta, FormatRelativeTime(r.Created))
	}
	if f.options.ShowIDs {
		meta = append(meta, r.ID)
	}
	metaLine := DimIf(strings.Join(meta, " · "), f.options.UseColors)

	if f.options.Compact {
		if metaLine == "" {
			return label
		}
		return label + "  " + metaLine
	}

	lines := []string{label}
	if r.Content != r.Label {
		width := f.options.MaxWidth
		if width <= 0 {
			width = 80
		}
		lines = append(lines, "  "+ColorizeIf(TruncateText(r.Content, width-2), Cyan, f.options.UseColors))
	}
	if metaLine != "" {
		lines = append(lines, "  "+metaLine)
	}
	return strings.Join(lines, "\n")
}

// FormatRecords formats records most recent first, with a placeholder for
// an empty history
func (f *Formatter) FormatRecords(records []types.HistoryRecord, placeholder string) string {
	if len(records) == 0 {
		return ColorizeIf(placeholder, Gray, f.options.UseColors)
	}

	parts := make([]string, 0, len(records))
	for i, r := range records {
		index := DimIf(fmt.Sprintf("[%d]", i+1), f.options.UseColors)
		parts = append(parts, index+" "+f.FormatRecord(r))
	}
	sep := "\n"
	if !f.options.Compact {
		sep = "\n\n"
	}
	return strings.Join(parts, sep)
}
