package component

import "time"

// Sprite draws a region of a texture asset.
type Sprite struct {
	AssetID string
	Width   int
	Height  int
	ZIndex  int
	Fixed   bool // screen-space; ignores the camera and is never culled
	FlipH   bool
	Src     Rect
}

// NewSprite builds a sprite whose source region starts at (srcX, srcY) and
// matches the sprite size.
func NewSprite(assetID string, w, h, srcX, srcY, z int, fixed bool) Sprite {
	return Sprite{
		AssetID: assetID,
		Width:   w,
		Height:  h,
		ZIndex:  z,
		Fixed:   fixed,
		Src:     Rect{X: srcX, Y: srcY, W: w, H: h},
	}
}

// Animation cycles the sprite source region horizontally through NumFrames
// frames at FrameRate frames per second.
type Animation struct {
	NumFrames    int
	CurrentFrame int
	FrameRate    int
	Loop         bool
	StartTime    time.Time
}

// TextLabel draws a string at a screen or world position.
type TextLabel struct {
	Position Vec2
	Text     string
	FontID   string
	Color    Color
	Fixed    bool
}
