package system

import (
	"time"

	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// Subscriber is a system that reacts to bus events.
type Subscriber interface {
	SubscribeToEvents(bus *event.Bus)
}

// EventSubscriptionSystem clears the bus and lets every subscriber register
// again, so handlers of removed systems never outlive a frame.
// Phase 1 (PreUpdate), after the flush.
type EventSubscriptionSystem struct {
	bus  *event.Bus
	subs []Subscriber
}

func NewEventSubscriptionSystem(bus *event.Bus, subs ...Subscriber) *EventSubscriptionSystem {
	return &EventSubscriptionSystem{bus: bus, subs: subs}
}

// Add registers another subscriber. It takes effect at the next Resubscribe.
func (s *EventSubscriptionSystem) Add(sub Subscriber) {
	s.subs = append(s.subs, sub)
}

func (s *EventSubscriptionSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventSubscriptionSystem) Update(_ time.Duration) {
	s.Resubscribe()
}

// Resubscribe rebuilds the bus subscriptions. The game also calls it once
// before the first frame so input polled in frame one has listeners.
func (s *EventSubscriptionSystem) Resubscribe() {
	s.bus.ClearSubscribers()
	for _, sub := range s.subs {
		sub.SubscribeToEvents(s.bus)
	}
}
