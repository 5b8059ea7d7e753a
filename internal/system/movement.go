package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// MovementSystem integrates velocity into position. Phase 2 (Update).
type MovementSystem struct {
	ecs.System
}

func NewMovementSystem(r *ecs.Registry) *MovementSystem {
	s := &MovementSystem{}
	ecs.RequireComponent[component.Transform](r, &s.System)
	ecs.RequireComponent[component.RigidBody](r, &s.System)
	return s
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	for _, e := range s.SystemEntities() {
		tr := ecs.GetComponent[component.Transform](e)
		rb := ecs.GetComponent[component.RigidBody](e)
		tr.Position = tr.Position.Add(rb.Velocity.Scale(sec))
	}
}
