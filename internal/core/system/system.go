package system

import (
	"strconv"
	"time"
)

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain key events into the bus
	PhasePreUpdate               // 1: flush the registry, re-subscribe handlers
	PhaseUpdate                  // 2: game logic
	PhasePostUpdate              // 3: collision, projectile lifetime, camera
	PhaseOutput                  // 4: draw
	PhasePersist                 // 5: combat log batch write
	PhaseCleanup                 // 6: flush kills issued this frame
)

var phaseNames = [...]string{"input", "pre-update", "update", "post-update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// System is the interface every frame-driven system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
