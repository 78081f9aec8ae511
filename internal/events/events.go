package events

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/types"
)

// Event names understood by the application
const (
	Paste            = "paste"
	Drop             = "drop"
	FilePick         = "file.pick"
	InputChange      = "input.change"
	InputConfirm     = "input.confirm"
	InputClear       = "input.clear"
	HistorySelect    = "history.select"
	HistoryRemove    = "history.remove"
	PanelPointerDown = "panel.pointer_down"
	PanelPointerMove = "panel.pointer_move"
	PanelPointerUp   = "panel.pointer_up"
	PanelTap         = "panel.tap"
	PanelBackdrop    = "panel.backdrop"
	PanelClose       = "panel.close"
)

// Event is one user interaction. Only the fields relevant to Name are set.
type Event struct {
	Name string

	// Items of a paste or drop
	Items []types.Item
	// Files chosen with the file picker
	Files []*types.File
	// Text of an input change
	Text string
	// ID of a history record
	ID string
	// Y is the vertical pointer coordinate of a panel gesture
	Y float64
	// OnHandle marks a pointer-up that lands on the panel handle
	OnHandle bool
}

// Handler reacts to one event
type Handler func(ctx context.Context, ev Event) error

// Dispatcher routes events to the handlers subscribed to their name
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

// NewDispatcher creates an empty Dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe adds h to the handlers of name. Handlers of one name run in
// subscription order.
func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Dispatch runs the handlers of ev.Name in order and stops at the first
// error. An event nobody subscribed to is a NOT_FOUND error.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	d.mu.RLock()
	handlers := d.handlers[ev.Name]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug("No handler for event", zap.String("event", ev.Name))
		return cqerrors.NewNotFound("event handler", ev.Name)
	}

	d.logger.Debug("Dispatching event",
		zap.String("event", ev.Name),
		zap.Int("handlers", len(handlers)))

	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the subscribed event names, sorted
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
