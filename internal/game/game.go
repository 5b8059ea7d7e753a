// Package game wires the registry, event bus, systems and level into a
// frame loop.
package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/core/event"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/input"
	"github.com/l1jgo/chopper/internal/level"
	"github.com/l1jgo/chopper/internal/render"
	"github.com/l1jgo/chopper/internal/scripting"
	"github.com/l1jgo/chopper/internal/system"
)

// Options are the game settings taken from config.
type Options struct {
	FPS           int
	Level         string
	ScriptDir     string // helper lua loaded before the level, optional
	Debug         bool
	MaxFrames     uint64 // 0 = until quit
	FlushInterval int    // frames between combat log writes
}

// Deps are the collaborators the driver chooses: terminal or headless
// rendering and input, real or manual clock, database or no combat log.
type Deps struct {
	Renderer  render.Renderer
	Input     input.Source
	Clock     coresys.Clock
	Assets    *asset.Store
	CombatLog system.CombatLogWriter // nil = log kills only
}

// Game owns the world of one level and runs its frames.
type Game struct {
	opts Options
	deps Deps
	log  *zap.Logger

	registry *ecs.Registry
	bus      *event.Bus
	runner   *coresys.Runner
	engine   *scripting.Engine
	camera   *render.Camera
	pacer    *coresys.Pacer

	subs      *system.EventSubscriptionSystem
	combatLog *system.CombatLogSystem

	start   time.Time
	debug   bool
	running bool
}

func New(opts Options, deps Deps, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = coresys.RealClock{}
	}
	if deps.Assets == nil {
		deps.Assets = asset.NewStore(log)
	}
	if deps.Input == nil {
		deps.Input = &input.Queue{}
	}
	registry := ecs.NewRegistry(log)
	w, h := deps.Renderer.Size()
	return &Game{
		opts:     opts,
		deps:     deps,
		log:      log,
		registry: registry,
		bus:      event.NewBus(),
		runner:   coresys.NewRunner(),
		engine:   scripting.NewEngine(registry, log),
		camera:   render.NewCamera(w, h),
		start:    deps.Clock.Now(),
		debug:    opts.Debug,
	}
}

// Setup runs the helper scripts, loads the level, spawns it and registers
// every system.
func (g *Game) Setup() error {
	if g.opts.ScriptDir != "" {
		if err := g.engine.LoadDir(g.opts.ScriptDir); err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
	}
	desc, err := level.Load(g.opts.Level, g.engine)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}
	sp := &level.Spawner{Registry: g.registry, Assets: g.deps.Assets, Log: g.log}
	res, err := sp.Spawn(desc, g.deps.Clock.Now())
	if err != nil {
		return fmt.Errorf("spawn level %s: %w", g.opts.Level, err)
	}
	g.camera.SetMapSize(res.MapWidth, res.MapHeight)

	g.registerSystems()
	// activate the level so input polled in the first frame reaches it
	g.registry.Update()
	g.subs.Resubscribe()
	g.pacer = coresys.NewPacer(g.deps.Clock, g.opts.FPS)
	g.log.Info("game ready",
		zap.String("level", g.opts.Level),
		zap.Int("systems", len(g.runner.Systems())),
		zap.Int("fps", g.opts.FPS),
	)
	return nil
}

// matched is a system that is both run by the runner and matched by the
// registry.
type matched interface {
	ecs.Matcher
	coresys.System
}

func add[S matched](g *Game, s S) S {
	ecs.AddSystem(g.registry, s)
	g.runner.Register(s)
	return s
}

func (g *Game) registerSystems() {
	r, clock, rnd := g.registry, g.deps.Clock, g.deps.Renderer

	g.runner.Register(input.NewSystem(g.deps.Input, g.bus, g, g.log))

	g.runner.Register(system.NewFlushSystem(r, coresys.PhasePreUpdate))
	g.subs = system.NewEventSubscriptionSystem(g.bus)
	g.runner.Register(g.subs)

	add(g, system.NewMovementSystem(r))
	add(g, system.NewAnimationSystem(r, clock))
	kb := add(g, system.NewKeyboardControlSystem(r))
	emit := add(g, system.NewProjectileEmitSystem(r, clock))
	dmg := add(g, system.NewDamageSystem(r, g.log))
	add(g, system.NewScriptSystem(r, g.engine, clock, g.start, g.log))

	add(g, system.NewCollisionSystem(r, g.bus))
	add(g, system.NewCameraMovementSystem(r, g.camera))
	add(g, system.NewProjectileLifecycleSystem(r, clock))

	add(g, system.NewRenderSystem(r, rnd, g.deps.Assets, g.camera, g.log))
	add(g, system.NewRenderTextSystem(r, rnd, g.deps.Assets, g.camera))
	add(g, system.NewRenderHealthBarSystem(r, rnd, g.camera))
	add(g, system.NewDebugCollisionSystem(r, rnd, g.camera, g))
	g.runner.Register(system.NewPresentSystem(rnd, g.log))

	g.combatLog = system.NewCombatLogSystem(r, clock, g.deps.CombatLog, g.log, g.opts.FlushInterval)
	g.runner.Register(g.combatLog)

	g.runner.Register(system.NewFlushSystem(r, coresys.PhaseCleanup))

	g.subs.Add(kb)
	g.subs.Add(emit)
	g.subs.Add(dmg)
	g.subs.Add(g.combatLog)
}

// Run executes frames until Quit, ctx is done, or MaxFrames is reached,
// then flushes the combat log.
func (g *Game) Run(ctx context.Context) error {
	if g.pacer == nil {
		return fmt.Errorf("game: Run before Setup")
	}
	g.running = true
	defer g.combatLog.Flush()

	for g.running {
		select {
		case <-ctx.Done():
			g.log.Info("game loop stopped", zap.Error(ctx.Err()))
			return nil
		default:
		}
		g.Frame()
		if g.opts.MaxFrames > 0 && g.runner.Frames() >= g.opts.MaxFrames {
			g.log.Info("frame limit reached", zap.Uint64("frames", g.runner.Frames()))
			break
		}
	}
	return nil
}

// Frame waits out the frame budget and runs one tick.
func (g *Game) Frame() {
	g.runner.Tick(g.pacer.Frame())
}

// Quit ends Run after the current frame.
func (g *Game) Quit() { g.running = false }

func (g *Game) ToggleDebug() {
	g.debug = !g.debug
	g.log.Debug("debug overlay", zap.Bool("on", g.debug))
}

// Resize refits the camera to the renderer after a terminal resize.
func (g *Game) Resize() {
	w, h := g.deps.Renderer.Size()
	g.camera.View.W, g.camera.View.H = w, h
	g.camera.Clamp()
}

func (g *Game) Debug() bool { return g.debug }

func (g *Game) Registry() *ecs.Registry   { return g.registry }
func (g *Game) Bus() *event.Bus           { return g.bus }
func (g *Game) Camera() *render.Camera    { return g.camera }
func (g *Game) Frames() uint64            { return g.runner.Frames() }
func (g *Game) Kills() int                { return event.EmittedCount[event.EntityKilledEvent](g.bus) }
func (g *Game) Engine() *scripting.Engine { return g.engine }

// Close releases the script VM.
func (g *Game) Close() {
	g.engine.Close()
}
