// Package term renders frames onto a terminal through tcell. Every cell
// stands for a CellW×CellH block of screen pixels.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
)

const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Renderer implements render.Renderer on a tcell screen.
type Renderer struct {
	screen tcell.Screen
	cellW  int
	cellH  int
	bg     tcell.Color
	log    *zap.Logger
}

// Open creates and initialises a screen on the controlling terminal.
func Open(log *zap.Logger) (*Renderer, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return New(s, DefaultCellW, DefaultCellH, log), nil
}

// New wraps an initialised screen.
func New(s tcell.Screen, cellW, cellH int, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	s.HideCursor()
	return &Renderer{screen: s, cellW: max(cellW, 1), cellH: max(cellH, 1), bg: tcell.ColorDefault, log: log}
}

func (r *Renderer) Screen() tcell.Screen { return r.screen }

// Size is the screen size in pixels.
func (r *Renderer) Size() (int, int) {
	cols, rows := r.screen.Size()
	return cols * r.cellW, rows * r.cellH
}

func (r *Renderer) Clear(c component.Color) {
	r.bg = rgb(c)
	r.screen.Fill(' ', tcell.StyleDefault.Background(r.bg))
}

func (r *Renderer) DrawSprite(tex asset.Texture, _, dst component.Rect, _ float64, _ bool) {
	style := tcell.StyleDefault.Foreground(rgb(tex.Color)).Background(r.bg)
	r.cells(dst, func(x, y int) {
		r.screen.SetContent(x, y, tex.Glyph, nil, style)
	})
}

// DrawRect outlines dst.
func (r *Renderer) DrawRect(dst component.Rect, c component.Color) {
	x0, y0, x1, y1 := r.span(dst)
	style := tcell.StyleDefault.Foreground(rgb(c)).Background(r.bg)
	r.cells(dst, func(x, y int) {
		if x == x0 || x == x1 || y == y0 || y == y1 {
			r.screen.SetContent(x, y, '·', nil, style)
		}
	})
}

func (r *Renderer) FillRect(dst component.Rect, c component.Color) {
	style := tcell.StyleDefault.Background(rgb(c))
	r.cells(dst, func(x, y int) {
		r.screen.SetContent(x, y, ' ', nil, style)
	})
}

// DrawText writes text starting at the cell containing pixel (x, y). Wide
// East-Asian runes take two cells.
func (r *Renderer) DrawText(text string, _ asset.Font, x, y int, c component.Color) {
	style := tcell.StyleDefault.Foreground(rgb(c)).Background(r.bg)
	cx, cy := floorDiv(x, r.cellW), floorDiv(y, r.cellH)
	for _, ch := range text {
		r.screen.SetContent(cx, cy, ch, nil, style)
		cx += RuneCells(ch)
	}
}

func (r *Renderer) Present() error {
	r.screen.Show()
	return nil
}

func (r *Renderer) Close() {
	r.screen.Fini()
}

// RuneCells returns how many terminal cells ch occupies.
func RuneCells(ch rune) int {
	switch width.LookupRune(ch).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// TextCells returns the cell width of s.
func TextCells(s string) int {
	n := 0
	for _, ch := range s {
		n += RuneCells(ch)
	}
	return n
}

// span converts a pixel rectangle to an inclusive cell rectangle. Anything
// with a positive area covers at least one cell.
func (r *Renderer) span(dst component.Rect) (x0, y0, x1, y1 int) {
	x0 = floorDiv(dst.X, r.cellW)
	y0 = floorDiv(dst.Y, r.cellH)
	x1 = max(floorDiv(dst.X+dst.W-1, r.cellW), x0)
	y1 = max(floorDiv(dst.Y+dst.H-1, r.cellH), y0)
	return
}

func (r *Renderer) cells(dst component.Rect, fn func(x, y int)) {
	if dst.W <= 0 || dst.H <= 0 {
		return
	}
	cols, rows := r.screen.Size()
	x0, y0, x1, y1 := r.span(dst)
	for y := max(y0, 0); y <= min(y1, rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, cols-1); x++ {
			fn(x, y)
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func rgb(c component.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
