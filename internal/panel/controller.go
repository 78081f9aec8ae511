package panel

import (
	"sync"

	"go.uber.org/zap"
)

// Config holds configuration for a Controller
type Config struct {
	Threshold float64
	Logger    *zap.Logger
	// OnChange is called after every open/closed flip, outside the lock
	OnChange func(State)
}

// Controller owns a Snapshot and feeds it events
type Controller struct {
	mu        sync.Mutex
	snap      Snapshot
	threshold float64
	logger    *zap.Logger
	onChange  func(State)
}

// NewController creates a closed panel
func NewController(cfg Config) *Controller {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		threshold: threshold,
		logger:    logger,
		onChange:  cfg.OnChange,
	}
}

// Apply feeds e to the state machine and returns the resulting state
func (c *Controller) Apply(e Event) State {
	c.mu.Lock()
	before := c.snap.State
	c.snap = Transition(c.snap, e, c.threshold)
	after := c.snap.State
	c.mu.Unlock()

	if before != after {
		c.logger.Debug("Panel state changed",
			zap.Stringer("from", before),
			zap.Stringer("to", after))
		if c.onChange != nil {
			c.onChange(after)
		}
	}
	return after
}

func (c *Controller) PointerDown(y float64) State   { return c.Apply(PointerDown{Y: y}) }
func (c *Controller) PointerMove(y float64) State   { return c.Apply(PointerMove{Y: y}) }
func (c *Controller) PointerUp(onHandle bool) State { return c.Apply(PointerUp{OnHandle: onHandle}) }
func (c *Controller) Tap() State                    { return c.Apply(HandleTap{}) }
func (c *Controller) BackdropTap() State            { return c.Apply(BackdropTap{}) }
func (c *Controller) ItemSelected() State           { return c.Apply(ItemSelected{}) }
func (c *Controller) Close() State                  { return c.Apply(CloseRequested{}) }

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.State
}

// Snapshot returns a copy of the full machine state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Threshold returns the drag threshold in use
func (c *Controller) Threshold() float64 {
	return c.threshold
}
