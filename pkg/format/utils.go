package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Ellipsis marks truncated labels
const Ellipsis = "…"

// FormatSize formats a byte count as a human-readable string
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// TypeSize describes a file as "<SUBTYPE>, <size> KB", e.g. "PNG, 12.3 KB".
// An empty or malformed media type is shown as FILE.
func TypeSize(mediaType string, size int64) string {
	label := "FILE"
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		if i := strings.IndexAny(sub, ";+"); i > 0 {
			sub = sub[:i]
		}
		label = strings.ToUpper(strings.TrimSpace(sub))
	}
	return fmt.Sprintf("%s, %.1f KB", label, float64(size)/1024)
}

// Ellipsize keeps the first maxLen runes of text and appends Ellipsis when
// anything was cut. Newlines are folded into spaces.
func Ellipsize(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen]) + Ellipsis
}

// TruncateText truncates text to maxLen runes with ellipsis
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return text
	}

	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}

// FormatRelativeTime formats a time as a human-readable relative string
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
