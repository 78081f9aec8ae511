package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipqr/internal/ingest"
	"github.com/berrythewa/clipqr/internal/types"
)

type fakeClipboard struct {
	text  string
	err   error
	reads int
}

func (f *fakeClipboard) ReadText() (string, error) {
	f.reads++
	return f.text, f.err
}

func (f *fakeClipboard) WriteText(text string) error {
	f.text = text
	return f.err
}

func TestPasteItemsReadLazily(t *testing.T) {
	cb := &fakeClipboard{text: "see https://x.example/a"}

	items := PasteItems(cb)
	require.Len(t, items, 1)
	assert.Equal(t, types.KindString, items[0].Kind)
	assert.Equal(t, types.MediaPlainText, items[0].Type)
	assert.Zero(t, cb.reads)

	payload, ok, err := ingest.NewRouter(ingest.RouterConfig{}).Resolve(context.Background(), items)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://x.example/a", payload)
	assert.Equal(t, 1, cb.reads)
}

func TestPasteItemsReadFailureIsUnusable(t *testing.T) {
	cb := &fakeClipboard{err: errors.New("no display")}

	_, ok, err := ingest.NewRouter(ingest.RouterConfig{}).Resolve(context.Background(), PasteItems(cb))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasteItemsCanceled(t *testing.T) {
	cb := &fakeClipboard{text: "x"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PasteItems(cb)[0].Read(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, cb.reads)
}
