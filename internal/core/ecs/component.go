package ecs

import (
	"fmt"
	"reflect"
)

// componentTypes assigns ComponentIDs to Go types in first-use order.
// Scoped to one Registry so independent registries never share ids.
type componentTypes struct {
	ids   map[reflect.Type]ComponentID
	names []string
}

func newComponentTypes() *componentTypes {
	return &componentTypes{
		ids:   make(map[reflect.Type]ComponentID, MaxComponents),
		names: make([]string, 0, MaxComponents),
	}
}

// id returns the ComponentID of t, allocating the next one on first use.
// Exceeding MaxComponents is a configuration error and panics.
func (c *componentTypes) id(t reflect.Type) ComponentID {
	if id, ok := c.ids[t]; ok {
		return id
	}
	if len(c.names) >= MaxComponents {
		panic(fmt.Sprintf("ecs: component type %s exceeds the %d component limit", t, MaxComponents))
	}
	id := ComponentID(len(c.names))
	c.ids[t] = id
	c.names = append(c.names, t.String())
	return id
}

func (c *componentTypes) name(id ComponentID) string {
	if int(id) < len(c.names) {
		return c.names[id]
	}
	return fmt.Sprintf("component#%d", id)
}

// Removable is implemented by all component pools so the Registry can
// tear an entity out of every pool on destroy without knowing the type.
type Removable interface {
	// RemoveEntityFromPool removes id if present; absent ids are a no-op.
	RemoveEntityFromPool(id int)
	Clear()
	Size() int
}

const defaultPoolCapacity = 100

// Pool is a packed array of all live components of one type. Slots
// [0, size) hold exactly the live values; removal swaps the last slot into
// the hole so the prefix never has gaps.
type Pool[T any] struct {
	data          []T
	size          int
	entityToIndex map[int]int
	indexToEntity map[int]int
}

func NewPool[T any](capacity int) *Pool[T] {
	if capacity <= 0 {
		capacity = defaultPoolCapacity
	}
	return &Pool[T]{
		data:          make([]T, capacity),
		entityToIndex: make(map[int]int, capacity),
		indexToEntity: make(map[int]int, capacity),
	}
}

func (p *Pool[T]) IsEmpty() bool { return p.size == 0 }
func (p *Pool[T]) Size() int     { return p.size }
func (p *Pool[T]) Cap() int      { return len(p.data) }

func (p *Pool[T]) Has(id int) bool {
	_, ok := p.entityToIndex[id]
	return ok
}

// Set stores value for entity id. An existing slot is overwritten in place;
// otherwise the value is appended, doubling the backing array when full.
func (p *Pool[T]) Set(id int, value T) {
	if idx, ok := p.entityToIndex[id]; ok {
		p.data[idx] = value
		return
	}
	idx := p.size
	if idx >= len(p.data) {
		grown := make([]T, max(len(p.data)*2, 1))
		copy(grown, p.data)
		p.data = grown
	}
	p.entityToIndex[id] = idx
	p.indexToEntity[idx] = id
	p.data[idx] = value
	p.size++
}

// Remove deletes the component of entity id. The entity must have one.
func (p *Pool[T]) Remove(id int) {
	idx, ok := p.entityToIndex[id]
	if !ok {
		var zero T
		panic(fmt.Sprintf("ecs: remove %T from entity %d: %v", zero, id, ErrMissingComponent))
	}
	last := p.size - 1
	p.data[idx] = p.data[last]
	lastID := p.indexToEntity[last]
	p.entityToIndex[lastID] = idx
	p.indexToEntity[idx] = lastID

	var zero T
	p.data[last] = zero
	delete(p.entityToIndex, id)
	delete(p.indexToEntity, last)
	p.size--
}

func (p *Pool[T]) RemoveEntityFromPool(id int) {
	if p.Has(id) {
		p.Remove(id)
	}
}

// Get returns a pointer to the component of entity id. The entity must have
// one. The pointer is valid until the next Set that grows the pool.
func (p *Pool[T]) Get(id int) *T {
	idx, ok := p.entityToIndex[id]
	if !ok {
		var zero T
		panic(fmt.Sprintf("ecs: get %T of entity %d: %v", zero, id, ErrMissingComponent))
	}
	return &p.data[idx]
}

// Lookup is the checked form of Get.
func (p *Pool[T]) Lookup(id int) (*T, bool) {
	idx, ok := p.entityToIndex[id]
	if !ok {
		return nil, false
	}
	return &p.data[idx], true
}

func (p *Pool[T]) Clear() {
	var zero T
	for i := 0; i < p.size; i++ {
		p.data[i] = zero
	}
	clear(p.entityToIndex)
	clear(p.indexToEntity)
	p.size = 0
}

// Each visits live components in slot order.
func (p *Pool[T]) Each(fn func(id int, c *T)) {
	for i := 0; i < p.size; i++ {
		fn(p.indexToEntity[i], &p.data[i])
	}
}
