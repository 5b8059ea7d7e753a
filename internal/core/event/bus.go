package event

import "reflect"

// Bus is a synchronous, type-keyed event bus. Emit runs every handler for the
// event type before it returns. Subscriptions are meant to be cleared and
// re-established once per frame by the EventSubscription system.
//
// Not safe for concurrent use; the game loop is single-goroutine.
type Bus struct {
	handlers map[reflect.Type][]any
	emitted  map[reflect.Type]int
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]any),
		emitted:  make(map[reflect.Type]int),
	}
}

// Subscribe appends fn to the handlers for events of type T. Subscribing the
// same function twice makes it run twice per Emit.
func Subscribe[T any](b *Bus, fn func(*T)) {
	t := reflect.TypeFor[T]()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Emit delivers ev to every handler subscribed to T, in subscription order.
// All handlers share one copy of the event, so a handler sees changes made
// to it by handlers that ran before.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeFor[T]()
	b.emitted[t]++
	// handlers subscribed during dispatch wait for the next Emit
	hs := b.handlers[t]
	for _, h := range hs {
		h.(func(*T))(&ev)
	}
}

// ClearSubscribers drops every subscription of every event type.
func (b *Bus) ClearSubscribers() {
	clear(b.handlers)
}

// SubscriberCount returns how many handlers are registered for T.
func SubscriberCount[T any](b *Bus) int {
	return len(b.handlers[reflect.TypeFor[T]()])
}

// EmittedCount returns how many T events were emitted over the bus lifetime.
func EmittedCount[T any](b *Bus) int {
	return b.emitted[reflect.TypeFor[T]()]
}
