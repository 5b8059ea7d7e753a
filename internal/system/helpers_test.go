package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type world struct {
	reg   *ecs.Registry
	bus   *event.Bus
	clock *coresys.ManualClock
}

func newWorld() *world {
	return &world{
		reg:   ecs.NewRegistry(nil),
		bus:   event.NewBus(),
		clock: coresys.NewManualClock(epoch),
	}
}

func (w *world) spawn(at component.Vec2, comps ...func(ecs.Entity)) ecs.Entity {
	e := w.reg.CreateEntity()
	ecs.AddComponent(e, component.NewTransform(at))
	for _, c := range comps {
		c(e)
	}
	return e
}

func with[T any](c T) func(ecs.Entity) {
	return func(e ecs.Entity) { ecs.AddComponent(e, c) }
}

func collect[T any](bus *event.Bus) *[]T {
	var got []T
	event.Subscribe(bus, func(ev *T) { got = append(got, *ev) })
	return &got
}
