// Package input turns terminal events into bus events once per frame.
package input

import "github.com/gdamore/tcell/v2"

// Source yields the events that arrived since the previous Poll. Poll never
// blocks.
type Source interface {
	Poll() []tcell.Event
}

// ScreenSource reads a tcell screen on a background goroutine and buffers
// events for the frame loop.
type ScreenSource struct {
	events chan tcell.Event
}

func NewScreenSource(s tcell.Screen) *ScreenSource {
	src := &ScreenSource{events: make(chan tcell.Event, 100)}
	go func() {
		defer close(src.events)
		for {
			ev := s.PollEvent()
			if ev == nil {
				// screen finalised
				return
			}
			src.events <- ev
		}
	}()
	return src
}

func (s *ScreenSource) Poll() []tcell.Event {
	var out []tcell.Event
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Queue is a Source fed by the caller. Headless runs and tests use it.
type Queue struct {
	pending []tcell.Event
}

// PushKey queues a key press. For printable keys pass tcell.KeyRune and r.
func (q *Queue) PushKey(k tcell.Key, r rune) {
	q.pending = append(q.pending, tcell.NewEventKey(k, r, tcell.ModNone))
}

func (q *Queue) Push(ev tcell.Event) {
	q.pending = append(q.pending, ev)
}

func (q *Queue) Poll() []tcell.Event {
	out := q.pending
	q.pending = nil
	return out
}
