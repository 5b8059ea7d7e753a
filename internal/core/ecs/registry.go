package ecs

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"go.uber.org/zap"
)

// Registry owns entity lifecycle, component pools, per-entity signatures,
// systems, and the tag/group indices. Single-goroutine access only.
//
// Structural changes are deferred: CreateEntity and KillEntity only queue the
// entity, and system match lists change at the next Update. Component storage
// and signatures change immediately.
type Registry struct {
	log *zap.Logger

	numEntities int
	freeIDs     []int
	alive       []bool
	signatures  []Signature

	pendingAdd  map[int]Entity
	pendingKill map[int]Entity
	dirty       map[int]Entity // active entities whose signature changed since the last flush

	types        *componentTypes
	pools        []Removable
	poolCapacity int

	systems     map[reflect.Type]Matcher
	systemOrder []reflect.Type

	entityPerTag     map[string]Entity
	tagPerEntity     map[int]string
	entitiesPerGroup map[string]map[int]Entity
	groupPerEntity   map[int]string
}

type Option func(*Registry)

// WithPoolCapacity sets the initial slot count of newly created pools.
func WithPoolCapacity(n int) Option {
	return func(r *Registry) { r.poolCapacity = n }
}

func NewRegistry(log *zap.Logger, opts ...Option) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		log:              log,
		freeIDs:          make([]int, 0, 64),
		alive:            make([]bool, 0, 256),
		signatures:       make([]Signature, 0, 256),
		pendingAdd:       make(map[int]Entity),
		pendingKill:      make(map[int]Entity),
		dirty:            make(map[int]Entity),
		types:            newComponentTypes(),
		pools:            make([]Removable, 0, MaxComponents),
		poolCapacity:     defaultPoolCapacity,
		systems:          make(map[reflect.Type]Matcher),
		entityPerTag:     make(map[string]Entity),
		tagPerEntity:     make(map[int]string),
		entitiesPerGroup: make(map[string]map[int]Entity),
		groupPerEntity:   make(map[int]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ── Entities ───────────────────────────────────────────────────────

// CreateEntity allocates an id, reusing the oldest freed one first. The
// entity can take components right away but joins systems at the next Update.
func (r *Registry) CreateEntity() Entity {
	var id int
	if len(r.freeIDs) == 0 {
		id = r.numEntities
		r.numEntities++
		if id >= len(r.signatures) {
			r.signatures = append(r.signatures, 0)
			r.alive = append(r.alive, false)
		}
	} else {
		id = r.freeIDs[0]
		r.freeIDs = r.freeIDs[1:]
		r.log.Debug("entity id reused", zap.Int("entity", id))
	}
	r.alive[id] = true
	e := Entity{id: id, registry: r}
	r.pendingAdd[id] = e
	return e
}

// EntityFromID returns a handle for a live id.
func (r *Registry) EntityFromID(id int) (Entity, bool) {
	if id < 0 || id >= len(r.alive) || !r.alive[id] {
		return Entity{}, false
	}
	return Entity{id: id, registry: r}, true
}

// KillEntity queues e for destruction at the next Update. Killing an entity
// twice, or one that is not alive, has no effect.
func (r *Registry) KillEntity(e Entity) {
	if !r.IsAlive(e) {
		r.log.Debug("kill of dead entity ignored", zap.Int("entity", e.id))
		return
	}
	r.pendingKill[e.id] = Entity{id: e.id, registry: r}
}

func (r *Registry) IsAlive(e Entity) bool {
	return e.id >= 0 && e.id < len(r.alive) && r.alive[e.id]
}

func (r *Registry) IsPendingAdd(e Entity) bool {
	_, ok := r.pendingAdd[e.id]
	return ok
}

func (r *Registry) IsPendingKill(e Entity) bool {
	_, ok := r.pendingKill[e.id]
	return ok
}

// NumEntities is the number of ids ever allocated (the id high-water mark).
func (r *Registry) NumEntities() int { return r.numEntities }

// NumLive is the number of entities created and not yet destroyed by a flush.
func (r *Registry) NumLive() int { return r.numEntities - len(r.freeIDs) }

func (r *Registry) EntitySignature(e Entity) Signature {
	if e.id < 0 || e.id >= len(r.signatures) {
		return 0
	}
	return r.signatures[e.id]
}

// Update is the per-frame flush. Pending entities are matched against every
// system, active entities whose components changed are re-matched, and
// pending kills are removed from systems, pools, and the tag/group indices
// before their ids are freed.
func (r *Registry) Update() {
	for _, id := range sortedKeys(r.pendingAdd) {
		r.addEntityToSystems(r.pendingAdd[id])
	}
	clear(r.pendingAdd)

	for _, id := range sortedKeys(r.dirty) {
		if _, killed := r.pendingKill[id]; killed {
			continue
		}
		r.refreshEntityInSystems(r.dirty[id])
	}
	clear(r.dirty)

	for _, id := range sortedKeys(r.pendingKill) {
		r.destroyEntity(r.pendingKill[id])
	}
	clear(r.pendingKill)
}

func (r *Registry) destroyEntity(e Entity) {
	r.removeEntityFromSystems(e)
	r.signatures[e.id].Reset()
	for _, p := range r.pools {
		if p != nil {
			p.RemoveEntityFromPool(e.id)
		}
	}
	r.RemoveEntityTag(e)
	r.RemoveEntityGroup(e)
	r.alive[e.id] = false
	r.freeIDs = append(r.freeIDs, e.id)
}

func (r *Registry) markDirty(e Entity) {
	if _, pending := r.pendingAdd[e.id]; pending {
		return
	}
	if r.IsAlive(e) {
		r.dirty[e.id] = Entity{id: e.id, registry: r}
	}
}

func sortedKeys(m map[int]Entity) []int {
	return slices.Sorted(maps.Keys(m))
}

// ── Systems ────────────────────────────────────────────────────────

func (r *Registry) addEntityToSystems(e Entity) {
	sig := r.signatures[e.id]
	for _, t := range r.systemOrder {
		s := r.systems[t]
		if sig.Contains(s.ComponentSignature()) {
			s.AddEntityToSystem(e)
		}
	}
}

func (r *Registry) removeEntityFromSystems(e Entity) {
	for _, t := range r.systemOrder {
		r.systems[t].RemoveEntityFromSystem(e)
	}
}

func (r *Registry) refreshEntityInSystems(e Entity) {
	sig := r.signatures[e.id]
	for _, t := range r.systemOrder {
		s := r.systems[t]
		match := sig.Contains(s.ComponentSignature())
		switch {
		case match && !s.HasEntity(e):
			s.AddEntityToSystem(e)
		case !match && s.HasEntity(e):
			s.RemoveEntityFromSystem(e)
		}
	}
}

// AddSystem registers s under its type, replacing any system of the same
// type. Entities already active are matched immediately; pending ones wait
// for the next Update like any other.
func AddSystem[S Matcher](r *Registry, s S) S {
	t := reflect.TypeFor[S]()
	if _, ok := r.systems[t]; !ok {
		r.systemOrder = append(r.systemOrder, t)
	}
	r.systems[t] = s
	for id, alive := range r.alive {
		if !alive {
			continue
		}
		if _, pending := r.pendingAdd[id]; pending {
			continue
		}
		if r.signatures[id].Contains(s.ComponentSignature()) {
			s.AddEntityToSystem(Entity{id: id, registry: r})
		}
	}
	r.log.Debug("system added", zap.Stringer("system", t), zap.Int("entities", len(s.SystemEntities())))
	return s
}

func RemoveSystem[S Matcher](r *Registry) {
	t := reflect.TypeFor[S]()
	if _, ok := r.systems[t]; !ok {
		return
	}
	delete(r.systems, t)
	r.systemOrder = slices.DeleteFunc(r.systemOrder, func(o reflect.Type) bool { return o == t })
	r.log.Debug("system removed", zap.Stringer("system", t))
}

func HasSystem[S Matcher](r *Registry) bool {
	_, ok := r.systems[reflect.TypeFor[S]()]
	return ok
}

// GetSystem returns the system registered under S. It panics if there is none.
func GetSystem[S Matcher](r *Registry) S {
	t := reflect.TypeFor[S]()
	s, ok := r.systems[t]
	if !ok {
		panic(fmt.Sprintf("ecs: get system %s: %v", t, ErrUnknownSystem))
	}
	return s.(S)
}

// Systems returns every registered system in registration order.
func (r *Registry) Systems() []Matcher {
	out := make([]Matcher, 0, len(r.systemOrder))
	for _, t := range r.systemOrder {
		out = append(out, r.systems[t])
	}
	return out
}

// ── Components ─────────────────────────────────────────────────────

func componentID[T any](r *Registry) ComponentID {
	return r.types.id(reflect.TypeFor[T]())
}

// ComponentTypeID returns the id r assigned to T, allocating one on first use.
func ComponentTypeID[T any](r *Registry) ComponentID {
	return componentID[T](r)
}

// ComponentName returns the Go type name behind id.
func (r *Registry) ComponentName(id ComponentID) string {
	return r.types.name(id)
}

func poolOf[T any](r *Registry, id ComponentID) *Pool[T] {
	if int(id) >= len(r.pools) {
		r.pools = append(r.pools, make([]Removable, int(id)+1-len(r.pools))...)
	}
	if r.pools[id] == nil {
		r.pools[id] = NewPool[T](r.poolCapacity)
	}
	return r.pools[id].(*Pool[T])
}

// ComponentPool returns the pool holding every T.
func ComponentPool[T any](r *Registry) *Pool[T] {
	return poolOf[T](r, componentID[T](r))
}

// ── Tags and groups ────────────────────────────────────────────────

// TagEntity gives e the tag, replacing e's previous tag. A tag names one
// entity: the last entity tagged wins and the previous holder loses the tag.
func (r *Registry) TagEntity(e Entity, tag string) {
	if old, ok := r.tagPerEntity[e.id]; ok && old != tag {
		delete(r.entityPerTag, old)
	}
	if prev, ok := r.entityPerTag[tag]; ok && prev.id != e.id {
		delete(r.tagPerEntity, prev.id)
	}
	r.entityPerTag[tag] = Entity{id: e.id, registry: r}
	r.tagPerEntity[e.id] = tag
}

func (r *Registry) EntityHasTag(e Entity, tag string) bool {
	t, ok := r.tagPerEntity[e.id]
	return ok && t == tag
}

// EntityTag returns e's tag, if it has one.
func (r *Registry) EntityTag(e Entity) (string, bool) {
	t, ok := r.tagPerEntity[e.id]
	return t, ok
}

func (r *Registry) EntityByTag(tag string) (Entity, error) {
	e, ok := r.entityPerTag[tag]
	if !ok {
		return Entity{}, fmt.Errorf("entity by tag %q: %w", tag, ErrTagNotFound)
	}
	return e, nil
}

func (r *Registry) RemoveEntityTag(e Entity) {
	if tag, ok := r.tagPerEntity[e.id]; ok {
		delete(r.entityPerTag, tag)
		delete(r.tagPerEntity, e.id)
	}
}

// GroupEntity moves e into group, leaving any group it was in before.
func (r *Registry) GroupEntity(e Entity, group string) {
	if old, ok := r.groupPerEntity[e.id]; ok {
		if old == group {
			return
		}
		r.leaveGroup(e.id, old)
	}
	members, ok := r.entitiesPerGroup[group]
	if !ok {
		members = make(map[int]Entity)
		r.entitiesPerGroup[group] = members
	}
	members[e.id] = Entity{id: e.id, registry: r}
	r.groupPerEntity[e.id] = group
}

func (r *Registry) EntityBelongsToGroup(e Entity, group string) bool {
	g, ok := r.groupPerEntity[e.id]
	return ok && g == group
}

// EntityGroup returns e's group, if it has one.
func (r *Registry) EntityGroup(e Entity) (string, bool) {
	g, ok := r.groupPerEntity[e.id]
	return g, ok
}

// EntitiesByGroup returns the members of group ordered by id. An unknown
// group yields an empty slice.
func (r *Registry) EntitiesByGroup(group string) []Entity {
	members := r.entitiesPerGroup[group]
	out := make([]Entity, 0, len(members))
	for _, id := range sortedKeys(members) {
		out = append(out, members[id])
	}
	return out
}

func (r *Registry) RemoveEntityGroup(e Entity) {
	if group, ok := r.groupPerEntity[e.id]; ok {
		r.leaveGroup(e.id, group)
		delete(r.groupPerEntity, e.id)
	}
}

func (r *Registry) leaveGroup(id int, group string) {
	members := r.entitiesPerGroup[group]
	delete(members, id)
	if len(members) == 0 {
		delete(r.entitiesPerGroup, group)
	}
}
