package ingest

import (
	"strings"

	"github.com/berrythewa/clipqr/internal/types"
)

// markupMarkers are lower-cased substrings that betray an HTML document or
// fragment mirrored onto the clipboard next to the plain-text copy.
var markupMarkers = []string{
	"<html",
	"<body",
	"<!doctype html",
	"<!--startfragment-->",
	"<meta charset",
}

// IsNoise reports whether a raw clipboard or drag string is structural noise
// rather than something the user meant to encode. Rules are evaluated in
// order and the first match decides.
func IsNoise(text, mediaType string) bool {
	if mediaType == types.MediaHTML || mediaType == types.MediaJSON {
		return true
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range markupMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	if strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed[1:], ">") {
		return true
	}

	return isWrapped(trimmed, '{', '}') || isWrapped(trimmed, '[', ']')
}

func isWrapped(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

// FilterNoise drops every noise candidate, keeping the order of the rest.
func FilterNoise(candidates []types.Candidate) []types.Candidate {
	kept := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if IsNoise(c.Text, c.Type) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
