package ingest

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/berrythewa/clipqr/internal/types"
)

// embeddedURL matches an absolute http(s) URL inside free text. The URL ends
// at whitespace, a quote or an angle bracket.
var embeddedURL = regexp.MustCompile(`(?i)https?://[^\s"'<>]+`)

// Pick selects the canonical payload from the noise-filtered candidates of a
// single event. It returns false only when no non-empty candidate exists.
//
// An explicit text/uri-list wins over everything else, then the first URL
// embedded in the plain-text candidate, then the whole trimmed plain text.
func Pick(candidates []types.Candidate) (string, bool) {
	nonEmpty := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Text) != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) == 0 {
		return "", false
	}

	for _, c := range nonEmpty {
		if c.Type != types.MediaURIList {
			continue
		}
		if link, ok := firstURIListEntry(c.Text); ok {
			return link, true
		}
	}

	base := nonEmpty[0]
	for _, c := range nonEmpty {
		if c.Type == types.MediaPlainText {
			base = c
			break
		}
	}

	if link, ok := firstEmbeddedURL(base.Text); ok {
		return link, true
	}
	return strings.TrimSpace(base.Text), true
}

// firstURIListEntry parses an RFC 2483 uri-list and returns the first entry
// that is an absolute http(s) URL.
func firstURIListEntry(list string) (string, bool) {
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if IsHTTPURL(line) {
			return line, true
		}
	}
	return "", false
}

func firstEmbeddedURL(text string) (string, bool) {
	for _, match := range embeddedURL.FindAllString(text, -1) {
		if IsHTTPURL(match) {
			return match, true
		}
	}
	return "", false
}

// IsHTTPURL reports whether s is a syntactically valid absolute http or https URL.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
