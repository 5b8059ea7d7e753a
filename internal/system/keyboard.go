package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// KeyboardControlSystem steers keyboard-controlled entities. Each direction
// key sets the velocity and selects the sprite sheet row facing that way.
// Phase 2 (Update); the work happens in the KeyPressedEvent handler.
type KeyboardControlSystem struct {
	ecs.System
}

func NewKeyboardControlSystem(r *ecs.Registry) *KeyboardControlSystem {
	s := &KeyboardControlSystem{}
	ecs.RequireComponent[component.KeyboardControlled](r, &s.System)
	ecs.RequireComponent[component.RigidBody](r, &s.System)
	ecs.RequireComponent[component.Sprite](r, &s.System)
	return s
}

func (s *KeyboardControlSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *KeyboardControlSystem) Update(_ time.Duration) {}

func (s *KeyboardControlSystem) SubscribeToEvents(bus *event.Bus) {
	event.Subscribe(bus, s.onKeyPressed)
}

func (s *KeyboardControlSystem) onKeyPressed(ev *event.KeyPressedEvent) {
	for _, e := range s.SystemEntities() {
		kc := ecs.GetComponent[component.KeyboardControlled](e)
		var (
			vel component.Vec2
			row int
		)
		switch ev.Symbol {
		case "w", "up":
			vel, row = kc.Up, 0
		case "d", "right":
			vel, row = kc.Right, 1
		case "s", "down":
			vel, row = kc.Down, 2
		case "a", "left":
			vel, row = kc.Left, 3
		default:
			return
		}
		ecs.GetComponent[component.RigidBody](e).Velocity = vel
		sprite := ecs.GetComponent[component.Sprite](e)
		sprite.Src.Y = sprite.Height * row
	}
}
