package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// AnimationSystem picks the current frame from the time since the animation
// started and moves the sprite source region to it. Phase 2 (Update).
type AnimationSystem struct {
	ecs.System
	clock coresys.Clock
}

func NewAnimationSystem(r *ecs.Registry, clock coresys.Clock) *AnimationSystem {
	s := &AnimationSystem{clock: clock}
	ecs.RequireComponent[component.Sprite](r, &s.System)
	ecs.RequireComponent[component.Animation](r, &s.System)
	return s
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AnimationSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for _, e := range s.SystemEntities() {
		anim := ecs.GetComponent[component.Animation](e)
		sprite := ecs.GetComponent[component.Sprite](e)
		if anim.StartTime.IsZero() {
			anim.StartTime = now
		}
		anim.CurrentFrame = frameAt(now.Sub(anim.StartTime), anim)
		sprite.Src.X = anim.CurrentFrame * sprite.Width
	}
}

func frameAt(elapsed time.Duration, anim *component.Animation) int {
	if anim.NumFrames <= 1 {
		return 0
	}
	frame := int(elapsed.Milliseconds() * int64(anim.FrameRate) / 1000)
	if anim.Loop {
		return frame % anim.NumFrames
	}
	return min(frame, anim.NumFrames-1)
}
