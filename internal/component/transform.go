package component

// Transform places an entity in the world.
type Transform struct {
	Position Vec2
	Scale    Vec2
	Rotation float64 // degrees
}

// NewTransform returns a transform at pos with unit scale.
func NewTransform(pos Vec2) Transform {
	return Transform{Position: pos, Scale: Vec2{1, 1}}
}

// RigidBody carries velocity in world units per second.
type RigidBody struct {
	Velocity Vec2
}
