package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berrythewa/clipqr/internal/types"
)

func TestPick(t *testing.T) {
	tests := []struct {
		name       string
		candidates []types.Candidate
		want       string
		wantOK     bool
	}{
		{
			name:   "no candidates",
			wantOK: false,
		},
		{
			name:       "only blank candidates",
			candidates: []types.Candidate{{Type: types.MediaPlainText, Text: "  "}},
			wantOK:     false,
		},
		{
			name: "uri list beats plain text",
			candidates: []types.Candidate{
				{Type: types.MediaPlainText, Text: "see https://plain.example"},
				{Type: types.MediaURIList, Text: "# dragged link\n\nhttps://list.example/a\nhttps://list.example/b"},
			},
			want:   "https://list.example/a",
			wantOK: true,
		},
		{
			name: "uri list without http entries falls back to plain text",
			candidates: []types.Candidate{
				{Type: types.MediaURIList, Text: "# only comments\nfile:///tmp/a.txt"},
				{Type: types.MediaPlainText, Text: "hello there"},
			},
			want:   "hello there",
			wantOK: true,
		},
		{
			name: "embedded url in plain text",
			candidates: []types.Candidate{
				{Type: types.MediaPlainText, Text: "check https://x.example/file out"},
			},
			want:   "https://x.example/file",
			wantOK: true,
		},
		{
			name: "embedded url stops at quote",
			candidates: []types.Candidate{
				{Type: types.MediaPlainText, Text: `link="https://x.example/q?a=1"`},
			},
			want:   "https://x.example/q?a=1",
			wantOK: true,
		},
		{
			name: "plain text preferred over undeclared first candidate",
			candidates: []types.Candidate{
				{Type: "", Text: "first"},
				{Type: types.MediaPlainText, Text: "  second  "},
			},
			want:   "second",
			wantOK: true,
		},
		{
			name: "first candidate used when nothing is plain text",
			candidates: []types.Candidate{
				{Type: "text/x-moz-url", Text: " some words "},
			},
			want:   "some words",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pick(tt.candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickURIListWinsRegardlessOfOrder(t *testing.T) {
	others := []types.Candidate{
		{Type: types.MediaPlainText, Text: "https://other.example"},
		{Type: "", Text: "free text"},
		{Type: "text/x-custom", Text: "https://custom.example"},
	}
	list := types.Candidate{Type: types.MediaURIList, Text: "https://wanted.example/x"}

	for i := 0; i <= len(others); i++ {
		candidates := append([]types.Candidate{}, others[:i]...)
		candidates = append(candidates, list)
		candidates = append(candidates, others[i:]...)

		got, ok := Pick(candidates)
		assert.True(t, ok)
		assert.Equal(t, "https://wanted.example/x", got, "list at position %d", i)
	}
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("https://x.example"))
	assert.True(t, IsHTTPURL("HTTP://x.example/a"))
	assert.False(t, IsHTTPURL("ftp://x.example"))
	assert.False(t, IsHTTPURL("https://"))
	assert.False(t, IsHTTPURL("x.example/a"))
	assert.False(t, IsHTTPURL("blob:https://x.example/uuid"))
}
