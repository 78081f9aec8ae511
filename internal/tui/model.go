package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/berrythewa/clipqr/internal/app"
	"github.com/berrythewa/clipqr/internal/clipboard"
	"github.com/berrythewa/clipqr/internal/events"
	"github.com/berrythewa/clipqr/internal/panel"
	"github.com/berrythewa/clipqr/internal/types"
)

const (
	// DefaultRowUnits is how many gesture units one terminal row counts for
	DefaultRowUnits = 16.0
	defaultWidth    = 80
	defaultHeight   = 24
	maxPanelRows    = 8
)

// Config holds the dependencies of a Model
type Config struct {
	Context    context.Context
	App        *app.App
	Dispatcher *events.Dispatcher
	Logger     *zap.Logger
	// Clipboard backs ctrl+v for terminals without bracketed paste
	Clipboard clipboard.Clipboard
	// RowUnits scales row offsets into the units of the panel drag threshold
	RowUnits float64
}

// dispatchedMsg carries the outcome of an event dispatched off the UI loop
type dispatchedMsg struct {
	name string
	err  error
}

// Model is the terminal front end. Every interaction becomes an event on the
// dispatcher; the view is drawn from the application snapshot.
type Model struct {
	ctx        context.Context
	app        *app.App
	dispatcher *events.Dispatcher
	logger     *zap.Logger
	clipboard  clipboard.Clipboard
	rowUnits   float64

	width    int
	height   int
	cursor   int
	pressing bool
	busy     bool
	status   string
}

// New creates a Model. A nil dispatcher gets one bound to the App.
func New(cfg Config) Model {
	m := Model{
		ctx:        cfg.Context,
		app:        cfg.App,
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		clipboard:  cfg.Clipboard,
		rowUnits:   cfg.RowUnits,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.rowUnits <= 0 {
		m.rowUnits = DefaultRowUnits
	}
	if m.dispatcher == nil {
		m.dispatcher = events.NewDispatcher(m.logger)
		m.app.Bind(m.dispatcher)
	}
	return m
}

// Run starts the program and blocks until the user quits or ctx is done
func Run(ctx context.Context, cfg Config) error {
	cfg.Context = ctx
	p := tea.NewProgram(New(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case dispatchedMsg:
		m.busy = false
		m.setStatus(msg.err)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			return m, m.paste(string(msg.Runes))
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	open := m.app.Panel().State() == panel.Open

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		if open {
			m.dispatch(events.Event{Name: events.PanelClose})
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyTab:
		m.dispatch(events.Event{Name: events.PanelTap})
		m.clampCursor()

	case tea.KeyEnter:
		if open {
			if id, ok := m.highlighted(); ok {
				m.dispatch(events.Event{Name: events.HistorySelect, ID: id})
			}
			return m, nil
		}
		m.dispatch(events.Event{Name: events.InputConfirm})

	case tea.KeyCtrlL:
		m.dispatch(events.Event{Name: events.InputClear})

	case tea.KeyCtrlV:
		if m.clipboard != nil {
			return m, m.dispatchAsync(events.Event{Name: events.Paste, Items: clipboard.PasteItems(m.clipboard)})
		}

	case tea.KeyCtrlD:
		if id, ok := m.highlighted(); ok && open {
			m.dispatch(events.Event{Name: events.HistoryRemove, ID: id})
			m.clampCursor()
		}

	case tea.KeyUp:
		if open && m.cursor > 0 {
			m.cursor--
		}

	case tea.KeyDown:
		if open && m.cursor < m.app.Store().Len()-1 {
			m.cursor++
		}

	case tea.KeyBackspace:
		runes := []rune(m.app.Snapshot().Input)
		if len(runes) > 0 {
			m.dispatch(events.Event{Name: events.InputChange, Text: string(runes[:len(runes)-1])})
		}

	case tea.KeySpace:
		m.dispatch(events.Event{Name: events.InputChange, Text: m.app.Snapshot().Input + " "})

	case tea.KeyRunes:
		m.dispatch(events.Event{Name: events.InputChange, Text: m.app.Snapshot().Input + string(msg.Runes)})
	}
	return m, nil
}

// handleMouse maps terminal mouse reports onto panel gestures. A release on
// the handle is followed by a tap, the way a click trails a pointer-up.
// A release anywhere else ends the gesture without one.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	l := m.layout()
	y := float64(msg.Y) * m.rowUnits

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		switch {
		case msg.Y == l.handleRow:
			m.pressing = true
			m.dispatch(events.Event{Name: events.PanelPointerDown, Y: y})
		case l.open && msg.Y > l.handleRow:
			if id, ok := l.itemAt(msg.Y); ok {
				m.dispatch(events.Event{Name: events.HistorySelect, ID: id})
			}
		case l.open:
			m.dispatch(events.Event{Name: events.PanelBackdrop})
		}

	case tea.MouseActionMotion:
		if m.pressing {
			m.dispatch(events.Event{Name: events.PanelPointerMove, Y: y})
		}

	case tea.MouseActionRelease:
		if !m.pressing {
			return
		}
		m.pressing = false
		onHandle := msg.Y == l.handleRow
		m.dispatch(events.Event{Name: events.PanelPointerUp, OnHandle: onHandle})
		if onHandle {
			m.dispatch(events.Event{Name: events.PanelTap})
		}
	}
	m.clampCursor()
}

// paste turns pasted text into a paste event. Terminals deliver dropped
// files as pasted paths, so text naming existing files becomes file items.
func (m *Model) paste(text string) tea.Cmd {
	var items []types.Item
	if files := pastedFiles(text); len(files) > 0 {
		for _, f := range files {
			items = append(items, types.FileItem(f))
		}
	} else {
		items = []types.Item{types.StringItem(types.MediaPlainText, text)}
	}

	return m.dispatchAsync(events.Event{Name: events.Paste, Items: items})
}

// dispatchAsync dispatches ev off the UI loop; reads and uploads may block.
func (m *Model) dispatchAsync(ev events.Event) tea.Cmd {
	m.busy = true
	m.status = ""
	dispatcher, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		return dispatchedMsg{name: ev.Name, err: dispatcher.Dispatch(ctx, ev)}
	}
}

// pastedFiles returns the files named by text, one path per line. It
// returns nil unless every non-empty line names a regular file.
func pastedFiles(text string) []*types.File {
	var files []*types.File
	for _, line := range strings.Split(text, "\n") {
		path := unquotePath(line)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		f, err := types.FileFromPath(path)
		if err != nil {
			return nil
		}
		files = append(files, f)
	}
	return files
}

func unquotePath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "file://")
	s = strings.ReplaceAll(s, `\ `, " ")
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, s[2:])
		}
	}
	return s
}

func (m *Model) dispatch(ev events.Event) {
	m.setStatus(m.dispatcher.Dispatch(m.ctx, ev))
}

func (m *Model) setStatus(err error) {
	if err != nil {
		m.logger.Debug("Event failed", zap.Error(err))
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m Model) highlighted() (string, bool) {
	records := m.app.Store().Records()
	if m.cursor < 0 || m.cursor >= len(records) {
		return "", false
	}
	return records[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := m.app.Store().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
