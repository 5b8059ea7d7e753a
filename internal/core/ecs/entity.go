package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrMissingComponent = errors.New("entity has no such component")
	ErrTagNotFound      = errors.New("tag not found")
	ErrUnknownSystem    = errors.New("system not registered")
	ErrDeadEntity       = errors.New("entity is not alive")
)

// Entity is a non-owning handle: an id plus the Registry that owns it.
// Handles compare by id only; use Equal rather than ==.
type Entity struct {
	id       int
	registry *Registry
}

func (e Entity) ID() int             { return e.id }
func (e Entity) Registry() *Registry { return e.registry }
func (e Entity) Equal(o Entity) bool { return e.id == o.id }
func (e Entity) Less(o Entity) bool  { return e.id < o.id }
func (e Entity) Valid() bool         { return e.registry != nil }

// Kill queues the entity for destruction at the next flush.
func (e Entity) Kill() { e.registry.KillEntity(e) }

func (e Entity) Tag(tag string)                   { e.registry.TagEntity(e, tag) }
func (e Entity) HasTag(tag string) bool           { return e.registry.EntityHasTag(e, tag) }
func (e Entity) RemoveTag()                       { e.registry.RemoveEntityTag(e) }
func (e Entity) Group(group string)               { e.registry.GroupEntity(e, group) }
func (e Entity) BelongsToGroup(group string) bool { return e.registry.EntityBelongsToGroup(e, group) }
func (e Entity) RemoveGroup()                     { e.registry.RemoveEntityGroup(e) }

// AddComponent attaches c to e, overwriting any existing T. The entity's
// signature is updated immediately; system membership follows at the next flush.
func AddComponent[T any](e Entity, c T) {
	r := e.registry
	r.mustBeAlive(e, "add", *new(T))
	id := componentID[T](r)
	pool := poolOf[T](r, id)
	pool.Set(e.id, c)
	r.signatures[e.id].Set(id)
	r.markDirty(e)
}

// RemoveComponent detaches T from e. The entity must have a T.
func RemoveComponent[T any](e Entity) {
	r := e.registry
	r.mustBeAlive(e, "remove", *new(T))
	id := componentID[T](r)
	pool := poolOf[T](r, id)
	pool.Remove(e.id)
	r.signatures[e.id].Unset(id)
	r.markDirty(e)
}

// mustBeAlive stops a stale handle from writing into a freed id, which the
// next CreateEntity would inherit.
func (r *Registry) mustBeAlive(e Entity, op string, c any) {
	if !r.IsAlive(e) {
		panic(fmt.Sprintf("ecs: %s %T on entity %d: %v", op, c, e.id, ErrDeadEntity))
	}
}

func HasComponent[T any](e Entity) bool {
	r := e.registry
	id := componentID[T](r)
	if e.id >= len(r.signatures) {
		return false
	}
	return r.signatures[e.id].Test(id)
}

// GetComponent returns a mutable pointer to e's T. The entity must have a T;
// check HasComponent first or rely on a system's required signature.
func GetComponent[T any](e Entity) *T {
	r := e.registry
	return poolOf[T](r, componentID[T](r)).Get(e.id)
}

// LookupComponent is the checked form of GetComponent.
func LookupComponent[T any](e Entity) (*T, bool) {
	r := e.registry
	id := componentID[T](r)
	if int(id) >= len(r.pools) || r.pools[id] == nil {
		return nil, false
	}
	return r.pools[id].(*Pool[T]).Lookup(e.id)
}
