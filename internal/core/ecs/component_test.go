package ecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSetOverwritesInPlace(t *testing.T) {
	p := NewPool[int](4)
	p.Set(7, 1)
	p.Set(7, 5)

	assert.Equal(t, 1, p.Size())
	assert.Equal(t, 5, *p.Get(7))
}

func TestPoolSwapRemove(t *testing.T) {
	p := NewPool[int](4)
	p.Set(1, 1)
	p.Set(2, 2)
	p.Set(3, 3)

	p.Remove(1)

	require.Equal(t, 2, p.Size())
	assert.False(t, p.Has(1))
	assert.Equal(t, 2, *p.Get(2))
	assert.Equal(t, 3, *p.Get(3))
	// entity 3 moved into the freed slot 0
	assert.Equal(t, 0, p.entityToIndex[3])
	assert.Equal(t, 3, p.indexToEntity[0])
}

func TestPoolGrowsByDoubling(t *testing.T) {
	p := NewPool[string](2)
	p.Set(0, "a")
	p.Set(1, "b")
	require.Equal(t, 2, p.Cap())

	p.Set(2, "c")
	assert.Equal(t, 4, p.Cap())
	assert.Equal(t, 3, p.Size())
	assert.Equal(t, "a", *p.Get(0))
	assert.Equal(t, "c", *p.Get(2))
}

func TestPoolRemoveMissingPanics(t *testing.T) {
	p := NewPool[int](1)
	assert.Panics(t, func() { p.Remove(9) })
	assert.Panics(t, func() { p.Get(9) })
	assert.NotPanics(t, func() { p.RemoveEntityFromPool(9) })
}

func TestPoolLookupAndClear(t *testing.T) {
	p := NewPool[int](1)
	p.Set(3, 30)

	v, ok := p.Lookup(3)
	require.True(t, ok)
	*v = 31
	assert.Equal(t, 31, *p.Get(3))

	_, ok = p.Lookup(4)
	assert.False(t, ok)

	p.Clear()
	assert.True(t, p.IsEmpty())
	assert.False(t, p.Has(3))
}

// Random Set/Remove sequences against a map model keep the prefix packed.
func TestPoolPackingInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := NewPool[int](1)
	model := map[int]int{}

	for step := 0; step < 5000; step++ {
		id := rng.Intn(64)
		if _, ok := model[id]; ok && rng.Intn(3) == 0 {
			p.Remove(id)
			delete(model, id)
			continue
		}
		v := rng.Int()
		p.Set(id, v)
		model[id] = v
	}

	require.Equal(t, len(model), p.Size())
	seen := map[int]bool{}
	for slot := 0; slot < p.Size(); slot++ {
		id, ok := p.indexToEntity[slot]
		require.True(t, ok, "slot %d has no owner", slot)
		require.False(t, seen[id], "entity %d in two slots", id)
		seen[id] = true
		assert.Equal(t, slot, p.entityToIndex[id])
		assert.Equal(t, model[id], p.data[slot])
	}
	assert.Len(t, p.entityToIndex, len(model))
}

func TestPoolEachVisitsLiveSlots(t *testing.T) {
	p := NewPool[int](2)
	p.Set(10, 1)
	p.Set(11, 2)
	p.Set(12, 3)
	p.Remove(11)

	sum := 0
	ids := []int{}
	p.Each(func(id int, c *int) {
		sum += *c
		ids = append(ids, id)
	})
	assert.Equal(t, 4, sum)
	assert.ElementsMatch(t, []int{10, 12}, ids)
}

func TestComponentTypeIDsAreStablePerRegistry(t *testing.T) {
	r := NewRegistry(nil)
	a := ComponentTypeID[position](r)
	b := ComponentTypeID[velocity](r)

	assert.Equal(t, ComponentID(0), a)
	assert.Equal(t, ComponentID(1), b)
	assert.Equal(t, a, ComponentTypeID[position](r))
	assert.Equal(t, "ecs.velocity", r.ComponentName(b))

	// a second registry starts from zero again
	r2 := NewRegistry(nil)
	assert.Equal(t, ComponentID(0), ComponentTypeID[velocity](r2))
}

func TestComponentTypeCapacityPanics(t *testing.T) {
	ct := newComponentTypes()
	types := []any{
		[1]byte{}, [2]byte{}, [3]byte{}, [4]byte{}, [5]byte{}, [6]byte{}, [7]byte{}, [8]byte{},
		[9]byte{}, [10]byte{}, [11]byte{}, [12]byte{}, [13]byte{}, [14]byte{}, [15]byte{}, [16]byte{},
		[17]byte{}, [18]byte{}, [19]byte{}, [20]byte{}, [21]byte{}, [22]byte{}, [23]byte{}, [24]byte{},
		[25]byte{}, [26]byte{}, [27]byte{}, [28]byte{}, [29]byte{}, [30]byte{}, [31]byte{}, [32]byte{},
	}
	for _, v := range types {
		ct.id(reflectTypeOf(v))
	}
	assert.Panics(t, func() { ct.id(reflectTypeOf([33]byte{})) })
}
