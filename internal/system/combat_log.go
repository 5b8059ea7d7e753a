package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/persist"
)

// CombatLogWriter stores a batch of kill records.
type CombatLogWriter interface {
	WriteKills(ctx context.Context, records []persist.KillRecord) error
}

// CombatLogSystem collects kills from the bus and writes them in batches
// every interval frames. With a nil writer kills are only logged.
// Phase 5 (Persist).
type CombatLogSystem struct {
	registry  *ecs.Registry
	clock     coresys.Clock
	writer    CombatLogWriter
	log       *zap.Logger
	pending   []persist.KillRecord
	damage    map[int]int // damage taken per entity since spawn
	tickCount int
	frame     uint64
	interval  int // flush every N frames
	written   int
}

func NewCombatLogSystem(r *ecs.Registry, clock coresys.Clock, writer CombatLogWriter, log *zap.Logger, intervalFrames int) *CombatLogSystem {
	if log == nil {
		log = zap.NewNop()
	}
	if intervalFrames <= 0 {
		intervalFrames = 1
	}
	return &CombatLogSystem{
		registry: r,
		clock:    clock,
		writer:   writer,
		log:      log,
		damage:   make(map[int]int),
		interval: intervalFrames,
	}
}

func (s *CombatLogSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *CombatLogSystem) SubscribeToEvents(bus *event.Bus) {
	event.Subscribe(bus, s.onDamage)
	event.Subscribe(bus, s.onKilled)
}

func (s *CombatLogSystem) onDamage(ev *event.DamageEvent) {
	s.damage[ev.Target.ID()] += ev.Amount
}

func (s *CombatLogSystem) onKilled(ev *event.EntityKilledEvent) {
	e := ev.Entity
	rec := persist.KillRecord{
		Frame:  s.frame,
		Victim: e.ID(),
		Killer: ev.By.ID(),
		Damage: s.damage[e.ID()],
		At:     s.clock.Now(),
	}
	// tag and group are still readable: kills only apply at the next flush
	rec.VictimTag, _ = s.registry.EntityTag(e)
	rec.VictimGroup, _ = s.registry.EntityGroup(e)
	delete(s.damage, e.ID())
	s.pending = append(s.pending, rec)
	s.log.Info("kill recorded",
		zap.Uint64("frame", rec.Frame),
		zap.Int("victim", rec.Victim),
		zap.String("tag", rec.VictimTag),
		zap.String("group", rec.VictimGroup),
		zap.Int("damage", rec.Damage),
	)
}

func (s *CombatLogSystem) Update(_ time.Duration) {
	s.pruneDamage()
	s.frame++
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// pruneDamage drops damage of entities that went away without a kill
// event (scripts, expiry). It runs before the cleanup flush frees their ids.
func (s *CombatLogSystem) pruneDamage() {
	for id := range s.damage {
		e, ok := s.registry.EntityFromID(id)
		if !ok || s.registry.IsPendingKill(e) {
			delete(s.damage, id)
		}
	}
}

// Flush writes every pending record immediately. Called on shutdown so no
// kill is lost.
func (s *CombatLogSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	if s.writer == nil {
		s.pending = s.pending[:0]
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.writer.WriteKills(ctx, s.pending); err != nil {
		// keep the batch for the next attempt
		s.log.Error("combat log write failed", zap.Int("pending", len(s.pending)), zap.Error(err))
		return
	}
	s.written += len(s.pending)
	s.log.Debug("combat log flushed", zap.Int("records", len(s.pending)))
	s.pending = s.pending[:0]
}

// Pending returns how many records await the next flush.
func (s *CombatLogSystem) Pending() int { return len(s.pending) }

// Written returns how many records reached the writer.
func (s *CombatLogSystem) Written() int { return s.written }
