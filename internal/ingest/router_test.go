package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipqr/internal/types"
)

type recordingHandler struct {
	mu       sync.Mutex
	files    []string
	payloads []string
	fileErr  error
}

func (h *recordingHandler) ProcessFile(_ context.Context, f *types.File) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files = append(h.files, f.Name)
	return h.fileErr
}

func (h *recordingHandler) HandlePayload(_ context.Context, payload string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, payload)
	return nil
}

func newTestRouter(h *recordingHandler) *Router {
	return NewRouter(RouterConfig{Files: h, Payloads: h})
}

func TestRouterPastePicksEmbeddedURL(t *testing.T) {
	h := &recordingHandler{}
	r := newTestRouter(h)

	err := r.Handle(context.Background(), []types.Item{
		types.StringItem(types.MediaHTML, "<html><body>check <a>https://x.example/file</a></body></html>"),
		types.StringItem(types.MediaPlainText, "check https://x.example/file out"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://x.example/file"}, h.payloads)
	assert.Empty(t, h.files)
}

func TestRouterFilesTakePrecedence(t *testing.T) {
	h := &recordingHandler{fileErr: errors.New("upload failed")}
	r := newTestRouter(h)

	err := r.Handle(context.Background(), []types.Item{
		types.StringItem(types.MediaPlainText, "https://ignored.example"),
		types.FileItem(types.FileFromBytes("a.png", "image/png", []byte("a"))),
		types.FileItem(types.FileFromBytes("b.txt", "text/plain", []byte("b"))),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.txt"}, h.files)
	assert.Empty(t, h.payloads)
}

func TestRouterNoiseOnlyEventIsNoOp(t *testing.T) {
	h := &recordingHandler{}
	r := newTestRouter(h)

	err := r.Handle(context.Background(), []types.Item{
		types.StringItem(types.MediaHTML, "<b>x</b>"),
		types.StringItem(types.MediaJSON, `{"a":1}`),
		types.StringItem(types.MediaPlainText, "   "),
	})

	require.NoError(t, err)
	assert.Empty(t, h.payloads)
	assert.Empty(t, h.files)
}

func TestRouterEmptyEventIsNoOp(t *testing.T) {
	h := &recordingHandler{}
	r := newTestRouter(h)

	require.NoError(t, r.Handle(context.Background(), nil))
	assert.Empty(t, h.payloads)
}

func TestRouterWaitsForAllReads(t *testing.T) {
	h := &recordingHandler{}
	r := newTestRouter(h)

	slow := types.Item{
		Kind: types.KindString,
		Type: types.MediaURIList,
		Read: func(ctx context.Context) (string, error) {
			select {
			case <-time.After(20 * time.Millisecond):
				return "https://slow.example/list", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}

	err := r.Handle(context.Background(), []types.Item{
		types.StringItem(types.MediaPlainText, "https://fast.example"),
		slow,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://slow.example/list"}, h.payloads)
}

func TestRouterFailedReadCountsAsEmpty(t *testing.T) {
	h := &recordingHandler{}
	r := newTestRouter(h)

	broken := types.Item{
		Kind: types.KindString,
		Type: types.MediaURIList,
		Read: func(context.Context) (string, error) { return "", errors.New("gone") },
	}

	err := r.Handle(context.Background(), []types.Item{
		broken,
		types.StringItem(types.MediaPlainText, "plain words"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"plain words"}, h.payloads)
}

func TestRouterCanceledContext(t *testing.T) {
	h := &recordingHandler{}
	r := newTestRouter(h)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Handle(ctx, []types.Item{types.StringItem(types.MediaPlainText, "x")})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.payloads)
}
