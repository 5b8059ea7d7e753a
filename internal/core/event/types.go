package event

import "github.com/l1jgo/chopper/internal/core/ecs"

// CollisionEvent is emitted once per overlapping pair per frame.
type CollisionEvent struct {
	A ecs.Entity
	B ecs.Entity
}

// KeyPressedEvent carries a key symbol as reported by the input source:
// a lowercase rune for printable keys ("w", " ") or a name ("up", "esc").
type KeyPressedEvent struct {
	Symbol string
}

// ShootProjectileEvent asks every keyboard-controlled emitter to fire.
type ShootProjectileEvent struct{}

// EntityKilledEvent is emitted when damage drops an entity to zero health.
// By is the projectile that dealt the final hit.
type EntityKilledEvent struct {
	Entity ecs.Entity
	By     ecs.Entity
}

// DamageEvent is emitted for every projectile hit that lands.
type DamageEvent struct {
	Target     ecs.Entity
	Projectile ecs.Entity
	Amount     int
	Remaining  int
}
