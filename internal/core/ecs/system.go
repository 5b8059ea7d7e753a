package ecs

import "slices"

// Matcher is what the Registry needs from a registered system: its required
// signature and its match list. Concrete systems get it by embedding System.
type Matcher interface {
	ComponentSignature() Signature
	AddEntityToSystem(e Entity)
	RemoveEntityFromSystem(e Entity)
	HasEntity(e Entity) bool
	SystemEntities() []Entity
}

// System holds a required-component signature and the entities that matched
// it as of the last flush. Embed it in concrete systems.
type System struct {
	signature Signature
	entities  []Entity
	members   map[int]struct{}
}

// RequireComponent adds T to the signature of s. Call it while constructing
// the system, before the system is added to r.
func RequireComponent[T any](r *Registry, s *System) {
	s.signature.Set(componentID[T](r))
}

func (s *System) ComponentSignature() Signature { return s.signature }

func (s *System) AddEntityToSystem(e Entity) {
	if s.members == nil {
		s.members = make(map[int]struct{})
	}
	if _, ok := s.members[e.id]; ok {
		return
	}
	s.members[e.id] = struct{}{}
	s.entities = append(s.entities, e)
}

func (s *System) RemoveEntityFromSystem(e Entity) {
	if _, ok := s.members[e.id]; !ok {
		return
	}
	delete(s.members, e.id)
	s.entities = slices.DeleteFunc(s.entities, func(o Entity) bool { return o.id == e.id })
}

func (s *System) HasEntity(e Entity) bool {
	_, ok := s.members[e.id]
	return ok
}

// SystemEntities returns a copy of the match list, so kills and creations
// issued while iterating it never change what the caller sees.
func (s *System) SystemEntities() []Entity {
	return slices.Clone(s.entities)
}

func (s *System) NumEntities() int { return len(s.entities) }
