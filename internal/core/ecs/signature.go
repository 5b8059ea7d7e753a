package ecs

import "math/bits"

// MaxComponents is the number of distinct component types a Registry can hold.
// It is the bit width of Signature.
const MaxComponents = 32

// ComponentID is the small integer assigned to a component type on first use.
type ComponentID uint8

// Signature is a fixed-width bitset of component types. Bit i set means
// component type i is present (entity) or required (system).
type Signature uint32

func (s *Signature) Set(id ComponentID)   { *s |= 1 << id }
func (s *Signature) Unset(id ComponentID) { *s &^= 1 << id }
func (s *Signature) Reset()               { *s = 0 }

func (s Signature) Test(id ComponentID) bool { return s&(1<<id) != 0 }
func (s Signature) Count() int               { return bits.OnesCount32(uint32(s)) }
func (s Signature) IsEmpty() bool            { return s == 0 }

// Contains reports whether every bit set in sub is also set in s, i.e. an
// entity with signature s satisfies a system requiring sub.
func (s Signature) Contains(sub Signature) bool {
	return s&sub == sub
}
