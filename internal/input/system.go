package input

import (
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
)

// Controls are the loop-level actions bound to keys.
type Controls interface {
	Quit()
	ToggleDebug()
	Resize()
}

// System drains the input source each frame. Esc and Ctrl-C quit, p toggles
// debug drawing, space emits ShootProjectileEvent, and every key press is
// also emitted as a KeyPressedEvent.
// Phase 0 (Input).
type System struct {
	src Source
	bus *event.Bus
	ctl Controls
	log *zap.Logger
}

func NewSystem(src Source, bus *event.Bus, ctl Controls, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{src: src, bus: bus, ctl: ctl, log: log}
}

func (s *System) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *System) Update(_ time.Duration) {
	for _, ev := range s.src.Poll() {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			s.handleKey(ev)
		case *tcell.EventResize:
			s.ctl.Resize()
		}
	}
}

func (s *System) handleKey(ev *tcell.EventKey) {
	sym := Symbol(ev)
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
		s.log.Info("quit requested", zap.String("key", sym))
		s.ctl.Quit()
		return
	case sym == "p":
		s.ctl.ToggleDebug()
	case sym == " ":
		event.Emit(s.bus, event.ShootProjectileEvent{})
	}
	event.Emit(s.bus, event.KeyPressedEvent{Symbol: sym})
}

var keyNames = map[tcell.Key]string{
	tcell.KeyUp:     "up",
	tcell.KeyDown:   "down",
	tcell.KeyLeft:   "left",
	tcell.KeyRight:  "right",
	tcell.KeyEnter:  "enter",
	tcell.KeyTab:    "tab",
	tcell.KeyEscape: "esc",
	tcell.KeyCtrlC:  "ctrl-c",
}

// Symbol names a key press: the lowercased rune for printable keys,
// otherwise a short name.
func Symbol(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return strings.ToLower(string(ev.Rune()))
	}
	if name, ok := keyNames[ev.Key()]; ok {
		return name
	}
	return strings.ToLower(ev.Name())
}
