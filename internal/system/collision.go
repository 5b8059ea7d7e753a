package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// CollisionSystem tests every pair of colliders once per frame. Colliding is
// reset for all colliders first and then set on both members of each
// overlapping pair, and a CollisionEvent is emitted per pair.
// Phase 3 (PostUpdate).
type CollisionSystem struct {
	ecs.System
	bus *event.Bus
}

func NewCollisionSystem(r *ecs.Registry, bus *event.Bus) *CollisionSystem {
	s := &CollisionSystem{bus: bus}
	ecs.RequireComponent[component.Transform](r, &s.System)
	ecs.RequireComponent[component.BoxCollider](r, &s.System)
	return s
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *CollisionSystem) Update(_ time.Duration) {
	entities := s.SystemEntities()
	boxes := make([]box, len(entities))
	for i, e := range entities {
		c := ecs.GetComponent[component.BoxCollider](e)
		c.Colliding = false
		boxes[i] = colliderBox(ecs.GetComponent[component.Transform](e), c)
	}
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if !boxes[i].overlaps(boxes[j]) {
				continue
			}
			ecs.GetComponent[component.BoxCollider](entities[i]).Colliding = true
			ecs.GetComponent[component.BoxCollider](entities[j]).Colliding = true
			event.Emit(s.bus, event.CollisionEvent{A: entities[i], B: entities[j]})
		}
	}
}

type box struct {
	x, y, w, h float64
}

// colliderBox is the collider in world space. Collider sizes are not scaled
// by the transform.
func colliderBox(tr *component.Transform, c *component.BoxCollider) box {
	return box{
		x: tr.Position.X + c.Offset.X,
		y: tr.Position.Y + c.Offset.Y,
		w: float64(c.Width),
		h: float64(c.Height),
	}
}

func (a box) overlaps(b box) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x && a.y < b.y+b.h && a.y+a.h > b.y
}
