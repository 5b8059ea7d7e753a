package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/render"
)

// CameraMovementSystem keeps the camera centred on the followed entity.
// Phase 3 (PostUpdate), after movement has settled.
type CameraMovementSystem struct {
	ecs.System
	camera *render.Camera
}

func NewCameraMovementSystem(r *ecs.Registry, camera *render.Camera) *CameraMovementSystem {
	s := &CameraMovementSystem{camera: camera}
	ecs.RequireComponent[component.CameraFollow](r, &s.System)
	ecs.RequireComponent[component.Transform](r, &s.System)
	return s
}

func (s *CameraMovementSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *CameraMovementSystem) Update(_ time.Duration) {
	for _, e := range s.SystemEntities() {
		tr := ecs.GetComponent[component.Transform](e)
		s.camera.CenterOn(tr.Position.X, tr.Position.Y)
	}
}
