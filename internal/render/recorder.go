package render

import (
	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
)

type CommandKind int

const (
	CmdClear CommandKind = iota
	CmdSprite
	CmdRect
	CmdFill
	CmdText
)

// Command is one recorded draw call.
type Command struct {
	Kind    CommandKind
	AssetID string
	Src     component.Rect
	Dst     component.Rect
	Color   component.Color
	Text    string
}

// Recorder is a Renderer with no output surface. It keeps the draw calls of
// the current frame, which makes it the headless renderer and the test double.
type Recorder struct {
	W, H   int
	Frame  []Command
	Frames int
	Draws  int
	keep   bool
}

// NewRecorder returns a w×h renderer. With keep false only counters are
// maintained.
func NewRecorder(w, h int, keep bool) *Recorder {
	return &Recorder{W: w, H: h, keep: keep}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear(c component.Color) {
	r.Frame = r.Frame[:0]
	r.add(Command{Kind: CmdClear, Color: c})
}

func (r *Recorder) DrawSprite(tex asset.Texture, src, dst component.Rect, _ float64, _ bool) {
	r.add(Command{Kind: CmdSprite, AssetID: tex.ID, Src: src, Dst: dst, Color: tex.Color})
}

func (r *Recorder) DrawRect(dst component.Rect, c component.Color) {
	r.add(Command{Kind: CmdRect, Dst: dst, Color: c})
}

func (r *Recorder) FillRect(dst component.Rect, c component.Color) {
	r.add(Command{Kind: CmdFill, Dst: dst, Color: c})
}

func (r *Recorder) DrawText(text string, font asset.Font, x, y int, c component.Color) {
	r.add(Command{Kind: CmdText, AssetID: font.ID, Dst: component.Rect{X: x, Y: y}, Color: c, Text: text})
}

func (r *Recorder) Present() error {
	r.Frames++
	return nil
}

// Sprites returns the sprite commands of the current frame in draw order.
func (r *Recorder) Sprites() []Command {
	return r.OfKind(CmdSprite)
}

// OfKind returns the commands of one kind in the current frame.
func (r *Recorder) OfKind(k CommandKind) []Command {
	var out []Command
	for _, c := range r.Frame {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) add(c Command) {
	if c.Kind != CmdClear {
		r.Draws++
	}
	if r.keep {
		r.Frame = append(r.Frame, c)
	}
}
