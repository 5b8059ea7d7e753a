package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// FlushSystem applies the registry's deferred creations, kills and
// membership changes. The game runs one in PreUpdate, so entities spawned by
// the previous frame are visible to this frame's logic, and one in Cleanup,
// so kills issued this frame never reach the next frame's systems.
type FlushSystem struct {
	registry *ecs.Registry
	phase    coresys.Phase
}

func NewFlushSystem(r *ecs.Registry, phase coresys.Phase) *FlushSystem {
	return &FlushSystem{registry: r, phase: phase}
}

func (s *FlushSystem) Phase() coresys.Phase { return s.phase }

func (s *FlushSystem) Update(_ time.Duration) {
	s.registry.Update()
}
