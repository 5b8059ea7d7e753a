package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/scripting"
)

// ScriptSystem runs each entity's Lua update function with the frame delta
// in seconds and the game time in milliseconds. A script that fails is
// removed from its entity so it does not fail again every frame.
// Phase 2 (Update).
type ScriptSystem struct {
	ecs.System
	engine *scripting.Engine
	clock  coresys.Clock
	start  time.Time
	log    *zap.Logger
}

func NewScriptSystem(r *ecs.Registry, engine *scripting.Engine, clock coresys.Clock, start time.Time, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ScriptSystem{engine: engine, clock: clock, start: start, log: log}
	ecs.RequireComponent[component.Script](r, &s.System)
	return s
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	elapsed := s.clock.Now().Sub(s.start).Milliseconds()
	for _, e := range s.SystemEntities() {
		sc := ecs.GetComponent[component.Script](e)
		if err := s.engine.CallUpdate(sc.OnUpdate, e, dt.Seconds(), elapsed); err != nil {
			s.log.Warn("update script failed, detaching", zap.Int("entity", e.ID()), zap.Error(err))
			ecs.RemoveComponent[component.Script](e)
		}
	}
}
