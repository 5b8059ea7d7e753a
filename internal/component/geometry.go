package component

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }

// Rect is an integer rectangle, used for sprite source regions and the camera.
type Rect struct {
	X, Y, W, H int
}

// Color is 8-bit RGBA.
type Color struct {
	R, G, B, A uint8
}

var (
	ColorRed    = Color{255, 0, 0, 255}
	ColorGreen  = Color{0, 255, 0, 255}
	ColorYellow = Color{255, 255, 0, 255}
	ColorCyan   = Color{0, 255, 255, 255}
	ColorWhite  = Color{255, 255, 255, 255}
)
