package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllerDragScenario(t *testing.T) {
	var changes []State
	c := NewController(Config{OnChange: func(s State) { changes = append(changes, s) }})
	assert.Equal(t, Closed, c.State())

	c.PointerDown(200)
	assert.Equal(t, Open, c.PointerMove(170))
	c.PointerUp(true)
	assert.Equal(t, Open, c.Tap())

	assert.Equal(t, []State{Open}, changes)
}

func TestControllerCustomThreshold(t *testing.T) {
	c := NewController(Config{Threshold: 2})
	assert.Equal(t, 2.0, c.Threshold())

	c.PointerDown(10)
	assert.Equal(t, Open, c.PointerMove(7))
}

func TestControllerDefaults(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, DefaultThreshold, c.Threshold())

	c.Tap()
	assert.Equal(t, Closed, c.ItemSelected())
	c.Tap()
	assert.Equal(t, Closed, c.BackdropTap())
	c.Tap()
	assert.Equal(t, Closed, c.Close())
	assert.False(t, c.Snapshot().Tracking)
}
