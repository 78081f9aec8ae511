package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/history"
	"github.com/berrythewa/clipqr/internal/ingest"
	"github.com/berrythewa/clipqr/internal/panel"
	"github.com/berrythewa/clipqr/internal/qr"
	"github.com/berrythewa/clipqr/internal/types"
)

const (
	// DefaultPayload is encoded while the input is empty
	DefaultPayload = "https://github.com/vxncius-dev"
	// DefaultMaxFileSize is the file ceiling
	DefaultMaxFileSize int64 = 100 * 1024 * 1024
	// DefaultThumbnailMaxSize bounds images inlined as data URIs
	DefaultThumbnailMaxSize int64 = 512 * 1024
)

// Uploader hosts a file remotely and returns its direct-download URL
type Uploader interface {
	Upload(ctx context.Context, f *types.File) (string, error)
}

// Notifier shows a message to the user
type Notifier interface {
	Warn(msg string)
}

// Config holds the collaborators and settings of an App
type Config struct {
	Store   *history.Store
	Emitter *qr.Emitter
	Panel   *panel.Controller
	// Uploader is nil in local rendering mode
	Uploader Uploader
	Notifier Notifier
	Logger   *zap.Logger

	DefaultPayload   string
	MaxFileSize      int64
	ThumbnailMaxSize int64
}

// Preview describes the file currently being shown
type Preview struct {
	Name      string `json:"name"`
	TypeSize  string `json:"typeSize"`
	Thumbnail string `json:"thumbnail"`
}

// State is a point-in-time copy of everything the surfaces display
type State struct {
	Input     string         `json:"input"`
	Preview   *Preview       `json:"preview,omitempty"`
	QR        qr.Result      `json:"-"`
	Uploading bool           `json:"uploading"`
	Notice    string         `json:"notice,omitempty"`
	Panel     panel.Snapshot `json:"-"`
	History   history.View   `json:"history"`
}

// App owns the input field, the file preview, the last QR result and the
// upload gate, and drives the history store and panel controller.
type App struct {
	mu      sync.Mutex
	input   string
	preview *Preview
	last    qr.Result
	notice  string

	uploading atomic.Bool

	store    *history.Store
	emitter  *qr.Emitter
	panel    *panel.Controller
	uploader Uploader
	notifier Notifier
	router   *ingest.Router
	logger   *zap.Logger

	defaultPayload   string
	maxFileSize      int64
	thumbnailMaxSize int64
}

// New creates an App and renders the default payload
func New(cfg Config) *App {
	a := &App{
		store:            cfg.Store,
		emitter:          cfg.Emitter,
		panel:            cfg.Panel,
		uploader:         cfg.Uploader,
		notifier:         cfg.Notifier,
		logger:           cfg.Logger,
		defaultPayload:   cfg.DefaultPayload,
		maxFileSize:      cfg.MaxFileSize,
		thumbnailMaxSize: cfg.ThumbnailMaxSize,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.store == nil {
		a.store = history.NewStore(history.StoreConfig{Logger: a.logger})
	}
	if a.emitter == nil {
		a.emitter = qr.NewEmitter(qr.EmitterConfig{Logger: a.logger})
	}
	if a.panel == nil {
		a.panel = panel.NewController(panel.Config{Logger: a.logger})
	}
	if a.defaultPayload == "" {
		a.defaultPayload = DefaultPayload
	}
	if a.maxFileSize <= 0 {
		a.maxFileSize = DefaultMaxFileSize
	}
	if a.thumbnailMaxSize <= 0 {
		a.thumbnailMaxSize = DefaultThumbnailMaxSize
	}
	a.router = ingest.NewRouter(ingest.RouterConfig{
		Files:    a,
		Payloads: a,
		Logger:   a.logger,
	})
	a.last = a.emitter.Emit(a.defaultPayload)
	return a
}

// Store returns the history store
func (a *App) Store() *history.Store { return a.store }

// Panel returns the panel controller
func (a *App) Panel() *panel.Controller { return a.panel }

// MaxFileSize returns the file ceiling in bytes
func (a *App) MaxFileSize() int64 { return a.maxFileSize }

// Emitter returns the QR gate
func (a *App) Emitter() *qr.Emitter { return a.emitter }

// HandleItems routes the items of a paste or drop event
func (a *App) HandleItems(ctx context.Context, items []types.Item) error {
	return a.router.Handle(ctx, items)
}

// HandlePayload shows a payload resolved from string items and records it.
// History does not wait on the QR outcome here.
func (a *App) HandlePayload(_ context.Context, payload string) error {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return cqerrors.NewUnusableInput()
	}
	res := a.emitter.Emit(payload)

	a.mu.Lock()
	a.input = payload
	a.last = res
	a.notice = ""
	a.mu.Unlock()

	a.store.Add(payload, history.Options{DisplayText: payload})
	return nil
}

// ChangeInput replaces the input text and re-renders. An empty input shows
// the default payload. History is untouched.
func (a *App) ChangeInput(text string) qr.Result {
	payload := text
	if strings.TrimSpace(payload) == "" {
		payload = a.defaultPayload
	}
	res := a.emitter.Emit(payload)

	a.mu.Lock()
	a.input = text
	a.last = res
	a.mu.Unlock()
	return res
}

// ConfirmInput commits the current input to history regardless of whether
// it fits in a QR symbol.
func (a *App) ConfirmInput() (types.HistoryRecord, bool) {
	a.mu.Lock()
	text := strings.TrimSpace(a.input)
	a.mu.Unlock()

	if text == "" {
		return types.HistoryRecord{}, false
	}
	return a.store.Add(text, history.Options{DisplayText: text})
}

// Clear resets the input and the file preview and renders the default payload
func (a *App) Clear() {
	res := a.emitter.Emit(a.defaultPayload)

	a.mu.Lock()
	a.input = ""
	a.preview = nil
	a.notice = ""
	a.last = res
	a.mu.Unlock()
}

// SelectHistory restores a record into the input, renders its content and
// closes the panel.
func (a *App) SelectHistory(id string) (types.HistoryRecord, error) {
	record, ok := a.store.Get(id)
	if !ok {
		return types.HistoryRecord{}, cqerrors.NewNotFound("history record", id)
	}
	res := a.emitter.Emit(record.Content)

	a.mu.Lock()
	a.input = record.Text()
	a.last = res
	a.preview = nil
	if record.TypeSize != "" {
		a.preview = &Preview{Name: record.Label, TypeSize: record.TypeSize, Thumbnail: record.Thumbnail}
	}
	a.mu.Unlock()

	a.panel.ItemSelected()
	return record, nil
}

// RemoveHistory deletes a record. Unknown ids are a no-op.
func (a *App) RemoveHistory(id string) bool {
	return a.store.Remove(id)
}

// Snapshot returns the current state
func (a *App) Snapshot() State {
	a.mu.Lock()
	st := State{
		Input:  a.input,
		QR:     a.last,
		Notice: a.notice,
	}
	if a.preview != nil {
		p := *a.preview
		st.Preview = &p
	}
	a.mu.Unlock()

	st.Uploading = a.uploading.Load()
	st.Panel = a.panel.Snapshot()
	st.History = a.store.Render()
	return st
}

// warn records msg as the current notice and forwards it to the notifier
func (a *App) warn(msg string) {
	a.mu.Lock()
	a.notice = msg
	a.mu.Unlock()

	a.logger.Warn("User notice", zap.String("message", msg))
	if a.notifier != nil {
		a.notifier.Warn(msg)
	}
}
