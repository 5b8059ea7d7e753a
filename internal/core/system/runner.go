package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each frame. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	frames  uint64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs one full frame.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
	r.frames++
}

// TickPhase runs only the systems of one phase. Used by the render loop to
// redraw without advancing game state.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Frames is the number of completed Tick calls.
func (r *Runner) Frames() uint64 { return r.frames }

// Systems returns the registered systems in execution order.
func (r *Runner) Systems() []System {
	r.ensureSorted()
	out := make([]System, len(r.systems))
	copy(out, r.systems)
	return out
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
