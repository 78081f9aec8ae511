package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipqr/internal/events"
	"github.com/berrythewa/clipqr/internal/panel"
	"github.com/berrythewa/clipqr/internal/types"
)

func newBoundFixture(t *testing.T) (*fixture, *events.Dispatcher) {
	fx := newFixture(t, nil, stubEncoder{})
	d := events.NewDispatcher(nil)
	fx.app.Bind(d)
	return fx, d
}

func TestBindSubscribesEveryEvent(t *testing.T) {
	_, d := newBoundFixture(t)

	assert.ElementsMatch(t, []string{
		events.Paste, events.Drop, events.FilePick,
		events.InputChange, events.InputConfirm, events.InputClear,
		events.HistorySelect, events.HistoryRemove,
		events.PanelPointerDown, events.PanelPointerMove, events.PanelPointerUp,
		events.PanelTap, events.PanelBackdrop, events.PanelClose,
	}, d.Names())
}

func TestPasteEventPicksEmbeddedURL(t *testing.T) {
	fx, d := newBoundFixture(t)
	ctx := context.Background()

	err := d.Dispatch(ctx, events.Event{Name: events.Paste, Items: []types.Item{
		types.StringItem(types.MediaHTML, "<html><body>check https://x.example/file out</body></html>"),
		types.StringItem(types.MediaPlainText, "check https://x.example/file out"),
	}})

	require.NoError(t, err)
	records := fx.store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "https://x.example/file", records[0].Content)
	assert.Equal(t, "https://x.example/file", fx.app.Snapshot().Input)
}

func TestNoiseOnlyDropIsSilent(t *testing.T) {
	fx, d := newBoundFixture(t)

	err := d.Dispatch(context.Background(), events.Event{Name: events.Drop, Items: []types.Item{
		types.StringItem(types.MediaJSON, `{"a":1}`),
	}})

	require.NoError(t, err)
	assert.Zero(t, fx.store.Len())
	assert.Empty(t, fx.notifier.Messages())
}

func TestPanelDragThenClickDoesNotDoubleToggle(t *testing.T) {
	fx, d := newBoundFixture(t)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelPointerDown, Y: 100}))
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelPointerMove, Y: 70}))
	assert.Equal(t, panel.Open, fx.app.Panel().State())

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelPointerUp, OnHandle: true}))
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelTap}))
	assert.Equal(t, panel.Open, fx.app.Panel().State())

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelBackdrop}))
	assert.Equal(t, panel.Closed, fx.app.Panel().State())
}

func TestPanelDragReleasedElsewhereLeavesTapsAlone(t *testing.T) {
	fx, d := newBoundFixture(t)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelPointerDown, Y: 100}))
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelPointerMove, Y: 60}))
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelPointerUp}))
	assert.Equal(t, panel.Open, fx.app.Panel().State())

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.PanelTap}))
	assert.Equal(t, panel.Closed, fx.app.Panel().State())
}

func TestInputEvents(t *testing.T) {
	fx, d := newBoundFixture(t)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.InputChange, Text: "hello"}))
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.InputConfirm}))
	require.Equal(t, 1, fx.store.Len())

	id := fx.store.Records()[0].ID
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.InputClear}))
	assert.Empty(t, fx.app.Snapshot().Input)

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.HistorySelect, ID: id}))
	assert.Equal(t, "hello", fx.app.Snapshot().Input)

	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.HistoryRemove, ID: id}))
	require.NoError(t, d.Dispatch(ctx, events.Event{Name: events.HistoryRemove, ID: id}))
	assert.Zero(t, fx.store.Len())
}

func TestFilePickProcessesEachFile(t *testing.T) {
	fx, d := newBoundFixture(t)

	err := d.Dispatch(context.Background(), events.Event{Name: events.FilePick, Files: []*types.File{
		types.FileFromBytes("a.txt", "text/plain", []byte("first")),
		untouchable(t, "big.zip", 11*1024*1024),
		types.FileFromBytes("b.txt", "text/plain", []byte("second")),
	}})

	require.NoError(t, err)
	records := fx.store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Content)
	assert.Equal(t, "first", records[1].Content)
}
