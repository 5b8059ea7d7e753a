// Package render defines the draw surface systems render onto and the
// camera that maps world coordinates to it.
package render

import (
	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
)

// Renderer accepts draw commands in screen pixels. Implementations map
// pixels to whatever their surface is.
type Renderer interface {
	Size() (w, h int)
	Clear(c component.Color)
	DrawSprite(tex asset.Texture, src, dst component.Rect, rotation float64, flipH bool)
	DrawRect(dst component.Rect, c component.Color)
	FillRect(dst component.Rect, c component.Color)
	DrawText(text string, font asset.Font, x, y int, c component.Color)
	Present() error
}

// Background is the clear colour of every frame.
var Background = component.Color{R: 21, G: 21, B: 21, A: 255}

// Camera is the visible world rectangle, clamped to the map.
type Camera struct {
	View component.Rect
	MapW int
	MapH int
}

func NewCamera(w, h int) *Camera {
	return &Camera{View: component.Rect{W: w, H: h}}
}

// SetMapSize records the world bounds. Zero means unbounded.
func (c *Camera) SetMapSize(w, h int) {
	c.MapW, c.MapH = w, h
	c.Clamp()
}

// CenterOn moves the view so that (x, y) is in its middle, then clamps.
func (c *Camera) CenterOn(x, y float64) {
	c.View.X = int(x) - c.View.W/2
	c.View.Y = int(y) - c.View.H/2
	c.Clamp()
}

// Clamp keeps the view inside [0, map size].
func (c *Camera) Clamp() {
	if c.MapW > 0 {
		c.View.X = min(c.View.X, c.MapW-c.View.W)
	}
	if c.MapH > 0 {
		c.View.Y = min(c.View.Y, c.MapH-c.View.H)
	}
	c.View.X = max(c.View.X, 0)
	c.View.Y = max(c.View.Y, 0)
}

// Visible reports whether a world rectangle overlaps the view.
func (c *Camera) Visible(x, y, w, h float64) bool {
	v := c.View
	return x+w >= float64(v.X) && x <= float64(v.X+v.W) &&
		y+h >= float64(v.Y) && y <= float64(v.Y+v.H)
}

// ToScreen converts world coordinates to screen coordinates.
func (c *Camera) ToScreen(x, y float64) (int, int) {
	return int(x) - c.View.X, int(y) - c.View.Y
}
