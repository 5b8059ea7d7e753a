package component

import "time"

// BoxCollider is an axis-aligned box relative to the Transform position.
// Colliding is rewritten by the collision system every frame.
type BoxCollider struct {
	Width     int
	Height    int
	Offset    Vec2
	Colliding bool
}

// Health is a percentage; the entity dies at zero or below.
type Health struct {
	Percent int
}

// ProjectileEmitter fires projectiles. Non-friendly emitters fire on their
// own every RepeatFrequency; friendly ones fire on a shoot event.
type ProjectileEmitter struct {
	Velocity           Vec2
	RepeatFrequency    time.Duration
	ProjectileDuration time.Duration
	HitPercentDamage   int
	Friendly           bool
	LastEmission       time.Time
}

const (
	DefaultRepeatFrequency    = time.Second
	DefaultProjectileDuration = 10 * time.Second
	DefaultHitPercentDamage   = 10
)

// Projectile is a live shot. It dies after Duration or on its first hit.
type Projectile struct {
	Friendly         bool
	HitPercentDamage int
	Duration         time.Duration
	StartTime        time.Time
}
