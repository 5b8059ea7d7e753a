package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ N int }
type pong struct{}

func TestEmitRunsHandlersInOrder(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(p *ping) { order = append(order, "first") })
	Subscribe(b, func(p *ping) { order = append(order, "second") })
	Subscribe(b, func(p *pong) { order = append(order, "pong") })

	Emit(b, ping{N: 1})

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, EmittedCount[ping](b))
	assert.Zero(t, EmittedCount[pong](b))
}

func TestEmitSharesOneEventValue(t *testing.T) {
	b := NewBus()
	var seen []int
	Subscribe(b, func(p *ping) { p.N++ })
	Subscribe(b, func(p *ping) { seen = append(seen, p.N) })

	ev := ping{N: 10}
	Emit(b, ev)
	Emit(b, ev)

	assert.Equal(t, []int{11, 11}, seen, "each Emit builds a fresh value")
	assert.Equal(t, 10, ev.N)
}

func TestDuplicateSubscriptionRunsTwice(t *testing.T) {
	b := NewBus()
	calls := 0
	h := func(*ping) { calls++ }
	Subscribe(b, h)
	Subscribe(b, h)

	Emit(b, ping{})
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, SubscriberCount[ping](b))
}

func TestClearSubscribers(t *testing.T) {
	b := NewBus()
	calls := 0
	Subscribe(b, func(*ping) { calls++ })
	Subscribe(b, func(*pong) { calls++ })

	b.ClearSubscribers()
	Emit(b, ping{})
	Emit(b, pong{})

	assert.Zero(t, calls)
	assert.Zero(t, SubscriberCount[ping](b))
}

func TestSubscribeDuringDispatchWaitsForNextEmit(t *testing.T) {
	b := NewBus()
	late := 0
	Subscribe(b, func(*ping) {
		Subscribe(b, func(*ping) { late++ })
	})

	Emit(b, ping{})
	require.Zero(t, late)
	Emit(b, ping{})
	assert.Equal(t, 1, late)
}

func TestNestedEmit(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(*ping) {
		got = append(got, "ping")
		Emit(b, pong{})
	})
	Subscribe(b, func(*pong) { got = append(got, "pong") })

	Emit(b, ping{})
	assert.Equal(t, []string{"ping", "pong"}, got)
}
