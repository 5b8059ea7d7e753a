package system

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/render"
)

// Output phase systems run in registration order: sprites, labels, health
// bars, collider outlines, then Present.

// RenderSystem clears the frame and draws every visible sprite in z order.
// Fixed sprites are in screen space and never culled. Phase 4 (Output).
type RenderSystem struct {
	ecs.System
	renderer render.Renderer
	assets   *asset.Store
	camera   *render.Camera
	log      *zap.Logger
	missing  map[string]bool
}

func NewRenderSystem(r *ecs.Registry, renderer render.Renderer, assets *asset.Store, camera *render.Camera, log *zap.Logger) *RenderSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RenderSystem{renderer: renderer, assets: assets, camera: camera, log: log, missing: make(map[string]bool)}
	ecs.RequireComponent[component.Transform](r, &s.System)
	ecs.RequireComponent[component.Sprite](r, &s.System)
	return s
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

type renderable struct {
	tr     *component.Transform
	sprite *component.Sprite
}

func (s *RenderSystem) Update(_ time.Duration) {
	s.renderer.Clear(render.Background)

	var list []renderable
	for _, e := range s.SystemEntities() {
		tr := ecs.GetComponent[component.Transform](e)
		sprite := ecs.GetComponent[component.Sprite](e)
		w := tr.Scale.X * float64(sprite.Width)
		h := tr.Scale.Y * float64(sprite.Height)
		if !sprite.Fixed && !s.camera.Visible(tr.Position.X, tr.Position.Y, w, h) {
			continue
		}
		list = append(list, renderable{tr, sprite})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].sprite.ZIndex < list[j].sprite.ZIndex
	})

	for _, r := range list {
		tex, err := s.assets.Texture(r.sprite.AssetID)
		if err != nil {
			if !s.missing[r.sprite.AssetID] {
				s.missing[r.sprite.AssetID] = true
				s.log.Warn("sprite texture not loaded", zap.String("asset", r.sprite.AssetID))
			}
			continue
		}
		x, y := screenPos(s.camera, r.tr.Position, r.sprite.Fixed)
		dst := component.Rect{
			X: x,
			Y: y,
			W: int(float64(r.sprite.Width) * r.tr.Scale.X),
			H: int(float64(r.sprite.Height) * r.tr.Scale.Y),
		}
		s.renderer.DrawSprite(tex, r.sprite.Src, dst, r.tr.Rotation, r.sprite.FlipH)
	}
}

func screenPos(camera *render.Camera, p component.Vec2, fixed bool) (int, int) {
	if fixed {
		return int(p.X), int(p.Y)
	}
	return camera.ToScreen(p.X, p.Y)
}

// RenderTextSystem draws text labels. Phase 4 (Output).
type RenderTextSystem struct {
	ecs.System
	renderer render.Renderer
	assets   *asset.Store
	camera   *render.Camera
}

func NewRenderTextSystem(r *ecs.Registry, renderer render.Renderer, assets *asset.Store, camera *render.Camera) *RenderTextSystem {
	s := &RenderTextSystem{renderer: renderer, assets: assets, camera: camera}
	ecs.RequireComponent[component.TextLabel](r, &s.System)
	return s
}

func (s *RenderTextSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderTextSystem) Update(_ time.Duration) {
	for _, e := range s.SystemEntities() {
		l := ecs.GetComponent[component.TextLabel](e)
		font, err := s.assets.Font(l.FontID)
		if err != nil {
			font = asset.Font{ID: l.FontID}
		}
		x, y := screenPos(s.camera, l.Position, l.Fixed)
		s.renderer.DrawText(l.Text, font, x, y, l.Color)
	}
}

const (
	healthBarWidth  = 15
	healthBarHeight = 3
	healthBarGap    = 5
)

// HealthColor maps a health percentage to its bar colour.
func HealthColor(percent int) component.Color {
	switch {
	case percent >= 70:
		return component.ColorGreen
	case percent >= 40:
		return component.ColorYellow
	default:
		return component.ColorRed
	}
}

// RenderHealthBarSystem draws a percentage and a bar beside every visible
// entity with health. Phase 4 (Output).
type RenderHealthBarSystem struct {
	ecs.System
	renderer render.Renderer
	camera   *render.Camera
}

func NewRenderHealthBarSystem(r *ecs.Registry, renderer render.Renderer, camera *render.Camera) *RenderHealthBarSystem {
	s := &RenderHealthBarSystem{renderer: renderer, camera: camera}
	ecs.RequireComponent[component.Health](r, &s.System)
	ecs.RequireComponent[component.Transform](r, &s.System)
	ecs.RequireComponent[component.Sprite](r, &s.System)
	return s
}

func (s *RenderHealthBarSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderHealthBarSystem) Update(_ time.Duration) {
	for _, e := range s.SystemEntities() {
		h := ecs.GetComponent[component.Health](e)
		tr := ecs.GetComponent[component.Transform](e)
		sprite := ecs.GetComponent[component.Sprite](e)
		w := tr.Scale.X * float64(sprite.Width)
		hh := tr.Scale.Y * float64(sprite.Height)
		if !sprite.Fixed && !s.camera.Visible(tr.Position.X, tr.Position.Y, w, hh) {
			continue
		}

		x, y := screenPos(s.camera, tr.Position, sprite.Fixed)
		x += int(w) + healthBarGap
		c := HealthColor(h.Percent)
		fill := healthBarWidth * max(h.Percent, 0) / 100
		s.renderer.FillRect(component.Rect{X: x, Y: y, W: fill, H: healthBarHeight}, c)
		s.renderer.DrawText(strconv.Itoa(h.Percent)+"%", asset.Font{}, x, y+healthBarHeight+1, c)
	}
}

// DebugFlag reports whether debug overlays are on.
type DebugFlag interface {
	Debug() bool
}

// DebugCollisionSystem outlines colliders while debug mode is on, red when
// colliding. Phase 4 (Output).
type DebugCollisionSystem struct {
	ecs.System
	renderer render.Renderer
	camera   *render.Camera
	flag     DebugFlag
}

func NewDebugCollisionSystem(r *ecs.Registry, renderer render.Renderer, camera *render.Camera, flag DebugFlag) *DebugCollisionSystem {
	s := &DebugCollisionSystem{renderer: renderer, camera: camera, flag: flag}
	ecs.RequireComponent[component.Transform](r, &s.System)
	ecs.RequireComponent[component.BoxCollider](r, &s.System)
	return s
}

func (s *DebugCollisionSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *DebugCollisionSystem) Update(_ time.Duration) {
	if !s.flag.Debug() {
		return
	}
	for _, e := range s.SystemEntities() {
		c := ecs.GetComponent[component.BoxCollider](e)
		b := colliderBox(ecs.GetComponent[component.Transform](e), c)
		x, y := s.camera.ToScreen(b.x, b.y)
		col := component.ColorCyan
		if c.Colliding {
			col = component.ColorRed
		}
		s.renderer.DrawRect(component.Rect{X: x, Y: y, W: c.Width, H: c.Height}, col)
	}
}

// PresentSystem shows the finished frame. Register it last in Output.
type PresentSystem struct {
	renderer render.Renderer
	log      *zap.Logger
}

func NewPresentSystem(renderer render.Renderer, log *zap.Logger) *PresentSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PresentSystem{renderer: renderer, log: log}
}

func (s *PresentSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *PresentSystem) Update(_ time.Duration) {
	if err := s.renderer.Present(); err != nil {
		s.log.Error("present frame", zap.Error(err))
	}
}
