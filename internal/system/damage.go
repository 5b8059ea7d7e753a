package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

const (
	GroupProjectiles = "projectiles"
	GroupEnemies     = "enemies"
	GroupTiles       = "tiles"
	TagPlayer        = "player"
)

// DamageSystem resolves projectile hits reported by the collision system.
// Hostile projectiles hurt the player, friendly ones hurt enemies. A
// projectile is spent by its first hit. All work happens in the
// CollisionEvent handler.
// Phase 2 (Update).
type DamageSystem struct {
	ecs.System
	registry *ecs.Registry
	bus      *event.Bus
	log      *zap.Logger
}

func NewDamageSystem(r *ecs.Registry, log *zap.Logger) *DamageSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &DamageSystem{registry: r, log: log}
	ecs.RequireComponent[component.BoxCollider](r, &s.System)
	return s
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *DamageSystem) Update(_ time.Duration) {}

func (s *DamageSystem) SubscribeToEvents(bus *event.Bus) {
	s.bus = bus
	event.Subscribe(bus, s.onCollision)
}

func (s *DamageSystem) onCollision(ev *event.CollisionEvent) {
	s.log.Debug("collision", zap.Int("a", ev.A.ID()), zap.Int("b", ev.B.ID()))
	s.hit(ev.A, ev.B)
	s.hit(ev.B, ev.A)
}

func (s *DamageSystem) hit(projectile, target ecs.Entity) {
	if !projectile.BelongsToGroup(GroupProjectiles) || s.registry.IsPendingKill(projectile) {
		return
	}
	if s.registry.IsPendingKill(target) {
		return
	}
	p, ok := ecs.LookupComponent[component.Projectile](projectile)
	if !ok {
		return
	}
	switch {
	case !p.Friendly && target.HasTag(TagPlayer):
	case p.Friendly && target.BelongsToGroup(GroupEnemies):
	default:
		return
	}

	projectile.Kill()
	h, ok := ecs.LookupComponent[component.Health](target)
	if !ok {
		return
	}
	h.Percent -= p.HitPercentDamage
	event.Emit(s.bus, event.DamageEvent{
		Target:     target,
		Projectile: projectile,
		Amount:     p.HitPercentDamage,
		Remaining:  h.Percent,
	})
	if h.Percent <= 0 {
		target.Kill()
		s.log.Info("entity killed", zap.Int("entity", target.ID()), zap.Int("by", projectile.ID()))
		event.Emit(s.bus, event.EntityKilledEvent{Entity: target, By: projectile})
	}
}
