package app

import (
	"context"

	"github.com/berrythewa/clipqr/internal/events"
)

// Bind subscribes the App to every event name on d
func (a *App) Bind(d *events.Dispatcher) {
	items := func(ctx context.Context, ev events.Event) error {
		return a.HandleItems(ctx, ev.Items)
	}
	d.Subscribe(events.Paste, items)
	d.Subscribe(events.Drop, items)
	d.Subscribe(events.FilePick, func(ctx context.Context, ev events.Event) error {
		return a.ProcessFiles(ctx, ev.Files)
	})

	d.Subscribe(events.InputChange, func(_ context.Context, ev events.Event) error {
		a.ChangeInput(ev.Text)
		return nil
	})
	d.Subscribe(events.InputConfirm, func(context.Context, events.Event) error {
		a.ConfirmInput()
		return nil
	})
	d.Subscribe(events.InputClear, func(context.Context, events.Event) error {
		a.Clear()
		return nil
	})

	d.Subscribe(events.HistorySelect, func(_ context.Context, ev events.Event) error {
		_, err := a.SelectHistory(ev.ID)
		return err
	})
	d.Subscribe(events.HistoryRemove, func(_ context.Context, ev events.Event) error {
		a.RemoveHistory(ev.ID)
		return nil
	})

	d.Subscribe(events.PanelPointerDown, func(_ context.Context, ev events.Event) error {
		a.panel.PointerDown(ev.Y)
		return nil
	})
	d.Subscribe(events.PanelPointerMove, func(_ context.Context, ev events.Event) error {
		a.panel.PointerMove(ev.Y)
		return nil
	})
	d.Subscribe(events.PanelPointerUp, func(_ context.Context, ev events.Event) error {
		a.panel.PointerUp(ev.OnHandle)
		return nil
	})
	d.Subscribe(events.PanelTap, func(context.Context, events.Event) error {
		a.panel.Tap()
		return nil
	})
	d.Subscribe(events.PanelBackdrop, func(context.Context, events.Event) error {
		a.panel.BackdropTap()
		return nil
	})
	d.Subscribe(events.PanelClose, func(context.Context, events.Event) error {
		a.panel.Close()
		return nil
	})
}
