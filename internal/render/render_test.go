package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
)

func TestCameraCenterOnClamps(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetMapSize(3200, 2560)

	c.CenterOn(100, 100)
	assert.Equal(t, 0, c.View.X)
	assert.Equal(t, 0, c.View.Y)

	c.CenterOn(2000, 1500)
	assert.Equal(t, 1600, c.View.X)
	assert.Equal(t, 1200, c.View.Y)

	c.CenterOn(5000, 5000)
	assert.Equal(t, 2400, c.View.X)
	assert.Equal(t, 1960, c.View.Y)
}

func TestCameraSmallerMapPinsToOrigin(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetMapSize(400, 300)
	c.CenterOn(1000, 1000)
	assert.Equal(t, component.Rect{X: 0, Y: 0, W: 800, H: 600}, c.View)
}

func TestCameraVisibility(t *testing.T) {
	c := NewCamera(100, 100)
	c.View.X, c.View.Y = 50, 50

	assert.True(t, c.Visible(40, 40, 20, 20))
	assert.False(t, c.Visible(0, 0, 20, 20))
	assert.False(t, c.Visible(151, 60, 5, 5))

	x, y := c.ToScreen(60, 70)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}

func TestRecorderKeepsFrame(t *testing.T) {
	r := NewRecorder(10, 10, true)
	r.Clear(Background)
	r.DrawSprite(asset.Texture{ID: "a"}, component.Rect{}, component.Rect{X: 1}, 0, false)
	r.FillRect(component.Rect{}, component.ColorRed)
	r.DrawText("hi", asset.Font{ID: "f"}, 0, 0, component.ColorWhite)
	assert.NoError(t, r.Present())

	assert.Len(t, r.Sprites(), 1)
	assert.Len(t, r.OfKind(CmdText), 1)
	assert.Equal(t, 3, r.Draws)

	r.Clear(Background)
	assert.Empty(t, r.Sprites())
	assert.Equal(t, 1, r.Frames)
}

func TestRecorderCountOnly(t *testing.T) {
	r := NewRecorder(10, 10, false)
	r.Clear(Background)
	r.DrawRect(component.Rect{}, component.ColorCyan)
	assert.Empty(t, r.Frame)
	assert.Equal(t, 1, r.Draws)
}
