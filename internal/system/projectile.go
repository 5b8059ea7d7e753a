package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

const (
	ProjectileTexture = "bullet-texture"
	projectileSize    = 4
	projectileZIndex  = 4
)

// ProjectileEmitSystem fires projectiles. Hostile emitters fire on their own
// whenever their repeat interval has passed; keyboard-controlled emitters
// fire on ShootProjectileEvent in the direction they are moving.
// Phase 2 (Update).
type ProjectileEmitSystem struct {
	ecs.System
	registry *ecs.Registry
	clock    coresys.Clock
}

func NewProjectileEmitSystem(r *ecs.Registry, clock coresys.Clock) *ProjectileEmitSystem {
	s := &ProjectileEmitSystem{registry: r, clock: clock}
	ecs.RequireComponent[component.ProjectileEmitter](r, &s.System)
	ecs.RequireComponent[component.Transform](r, &s.System)
	ecs.RequireComponent[component.RigidBody](r, &s.System)
	return s
}

func (s *ProjectileEmitSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ProjectileEmitSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for _, e := range s.SystemEntities() {
		em := ecs.GetComponent[component.ProjectileEmitter](e)
		if em.Friendly {
			continue
		}
		rb := ecs.GetComponent[component.RigidBody](e)
		s.emit(e, em, em.Velocity.Add(rb.Velocity), now)
	}
}

func (s *ProjectileEmitSystem) SubscribeToEvents(bus *event.Bus) {
	event.Subscribe(bus, s.onShoot)
}

func (s *ProjectileEmitSystem) onShoot(_ *event.ShootProjectileEvent) {
	now := s.clock.Now()
	for _, e := range s.SystemEntities() {
		if !ecs.HasComponent[component.KeyboardControlled](e) {
			continue
		}
		em := ecs.GetComponent[component.ProjectileEmitter](e)
		rb := ecs.GetComponent[component.RigidBody](e)
		dir := component.Vec2{X: sign(rb.Velocity.X), Y: sign(rb.Velocity.Y)}
		s.emit(e, em, em.Velocity.Mul(dir).Add(rb.Velocity), now)
	}
}

// emit spawns one projectile from the centre of e if the emitter's repeat
// interval has passed. An emitter that has never fired starts its interval
// now.
func (s *ProjectileEmitSystem) emit(e ecs.Entity, em *component.ProjectileEmitter, vel component.Vec2, now time.Time) {
	if em.LastEmission.IsZero() {
		em.LastEmission = now
		return
	}
	if now.Sub(em.LastEmission) <= em.RepeatFrequency {
		return
	}

	p := s.registry.CreateEntity()
	p.Group(GroupProjectiles)
	ecs.AddComponent(p, component.NewTransform(centre(e)))
	ecs.AddComponent(p, component.RigidBody{Velocity: vel})
	ecs.AddComponent(p, component.NewSprite(ProjectileTexture, projectileSize, projectileSize, 0, 0, projectileZIndex, false))
	ecs.AddComponent(p, component.BoxCollider{Width: projectileSize, Height: projectileSize})
	ecs.AddComponent(p, component.Projectile{
		Friendly:         em.Friendly,
		HitPercentDamage: em.HitPercentDamage,
		Duration:         em.ProjectileDuration,
		StartTime:        now,
	})
	em.LastEmission = now
}

// centre is the middle of e's scaled sprite, or its position if it has none.
func centre(e ecs.Entity) component.Vec2 {
	tr := ecs.GetComponent[component.Transform](e)
	sprite, ok := ecs.LookupComponent[component.Sprite](e)
	if !ok {
		return tr.Position
	}
	return tr.Position.Add(component.Vec2{
		X: tr.Scale.X * float64(sprite.Width) / 2,
		Y: tr.Scale.Y * float64(sprite.Height) / 2,
	})
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// ProjectileLifecycleSystem kills projectiles that outlived their duration.
// Phase 3 (PostUpdate).
type ProjectileLifecycleSystem struct {
	ecs.System
	clock coresys.Clock
}

func NewProjectileLifecycleSystem(r *ecs.Registry, clock coresys.Clock) *ProjectileLifecycleSystem {
	s := &ProjectileLifecycleSystem{clock: clock}
	ecs.RequireComponent[component.Projectile](r, &s.System)
	return s
}

func (s *ProjectileLifecycleSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ProjectileLifecycleSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for _, e := range s.SystemEntities() {
		p := ecs.GetComponent[component.Projectile](e)
		if now.Sub(p.StartTime) > p.Duration {
			e.Kill()
		}
	}
}
