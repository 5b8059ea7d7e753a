package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/input"
	"github.com/l1jgo/chopper/internal/render"
)

const duel = `
assets:
  - { type: texture, id: chopper-image, file: chopper.png }
  - { type: texture, id: tank-image, file: tank.png }
  - { type: texture, id: bullet-texture, file: bullet.png }
entities:
  - tag: player
    components:
      transform: { position: { x: 0, y: 0 } }
      rigidbody: {}
      sprite: { texture_asset_id: chopper-image, width: 10, height: 10 }
      boxcollider: { width: 10, height: 10 }
      health: {}
      keyboard_controller:
        up_velocity: { x: 0, y: -50 }
        right_velocity: { x: 50, y: 0 }
        down_velocity: { x: 0, y: 50 }
        left_velocity: { x: -50, y: 0 }
      camera_follow: {}
  - group: enemies
    components:
      transform: { position: { x: 100, y: 0 } }
      rigidbody: {}
      sprite: { texture_asset_id: tank-image, width: 10, height: 10 }
      boxcollider: { width: 10, height: 10 }
      health: {}
      projectile_emitter:
        projectile_velocity: { x: -100, y: 0 }
        repeat_frequency: 0.1
        projectile_duration: 5
        hit_percentage_damage: 50
`

type harness struct {
	game  *Game
	rec   *render.Recorder
	queue *input.Queue
	clock *coresys.ManualClock
}

func newHarness(t *testing.T, maxFrames uint64) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(duel), 0o644))

	h := &harness{
		rec:   render.NewRecorder(200, 100, true),
		queue: &input.Queue{},
		clock: coresys.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	h.game = New(Options{FPS: 10, Level: path, MaxFrames: maxFrames, FlushInterval: 1},
		Deps{Renderer: h.rec, Input: h.queue, Clock: h.clock}, nil)
	t.Cleanup(h.game.Close)
	require.NoError(t, h.game.Setup())
	return h
}

func TestHostileFireKillsPlayer(t *testing.T) {
	h := newHarness(t, 40)
	require.NoError(t, h.game.Run(context.Background()))

	assert.Equal(t, uint64(40), h.game.Frames())
	assert.Equal(t, 4*time.Second, h.clock.Slept(), "each frame sleeps off a 100ms budget")
	assert.Equal(t, 1, h.game.Kills())
	_, err := h.game.Registry().EntityByTag("player")
	assert.ErrorIs(t, err, ecs.ErrTagNotFound)
	assert.Len(t, h.game.Registry().EntitiesByGroup("enemies"), 1)
	assert.Equal(t, 40, h.rec.Frames)
}

func TestKeyPressSteersPlayer(t *testing.T) {
	h := newHarness(t, 1)
	h.queue.PushKey(tcell.KeyRune, 'd')
	require.NoError(t, h.game.Run(context.Background()))

	player, err := h.game.Registry().EntityByTag("player")
	require.NoError(t, err)
	assert.Equal(t, component.Vec2{X: 50}, ecs.GetComponent[component.RigidBody](player).Velocity)
	assert.Equal(t, 10, ecs.GetComponent[component.Sprite](player).Src.Y)
	assert.InDelta(t, 5, ecs.GetComponent[component.Transform](player).Position.X, 1e-9)
}

func TestEscapeQuits(t *testing.T) {
	h := newHarness(t, 0)
	h.queue.PushKey(tcell.KeyEscape, 0)
	require.NoError(t, h.game.Run(context.Background()))
	assert.Equal(t, uint64(1), h.game.Frames())
}

func TestDebugToggleDrawsColliders(t *testing.T) {
	h := newHarness(t, 1)
	assert.False(t, h.game.Debug())
	h.queue.PushKey(tcell.KeyRune, 'p')
	require.NoError(t, h.game.Run(context.Background()))

	assert.True(t, h.game.Debug())
	assert.Len(t, h.rec.OfKind(render.CmdRect), 2)
	assert.NotEmpty(t, h.rec.Sprites())
}

func TestCancelledContextStopsBeforeFirstFrame(t *testing.T) {
	h := newHarness(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.game.Run(ctx))
	assert.Zero(t, h.game.Frames())
}

func TestRunBeforeSetupFails(t *testing.T) {
	g := New(Options{Level: "missing.yaml"}, Deps{Renderer: render.NewRecorder(10, 10, false)}, nil)
	defer g.Close()
	assert.Error(t, g.Run(context.Background()))
	assert.Error(t, g.Setup())
}

func TestBundledLevelRunsWithHelperScripts(t *testing.T) {
	t.Chdir("../..")
	clock := coresys.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	g := New(Options{FPS: 10, Level: "assets/scripts/Level1.lua", ScriptDir: "assets/scripts/lib", MaxFrames: 5},
		Deps{Renderer: render.NewRecorder(800, 600, false), Clock: clock}, nil)
	defer g.Close()
	require.NoError(t, g.Setup())
	require.NoError(t, g.Run(context.Background()))

	_, err := g.Registry().EntityByTag("player")
	require.NoError(t, err, "entity [0] of the level is the player")

	var patrolling []ecs.Entity
	for _, e := range g.Registry().EntitiesByGroup("enemies") {
		if ecs.HasComponent[component.Script](e) {
			patrolling = append(patrolling, e)
		}
	}
	require.Len(t, patrolling, 1, "patrol script must not be detached")
	pos := ecs.GetComponent[component.Transform](patrolling[0]).Position
	assert.Greater(t, pos.X, 116.0)
	assert.Equal(t, 465.0, pos.Y)
}

func TestBrokenHelperScriptFailsSetup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`function (`), 0o644))
	path := filepath.Join(t.TempDir(), "duel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(duel), 0o644))

	g := New(Options{FPS: 10, Level: path, ScriptDir: dir},
		Deps{Renderer: render.NewRecorder(10, 10, false), Clock: coresys.NewManualClock(time.Time{})}, nil)
	defer g.Close()
	err := g.Setup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load scripts")
}
