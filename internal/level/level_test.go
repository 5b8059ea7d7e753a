package level

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/scripting"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const luaLevel = `
Level = {
  assets = {
    [0] = { type = "texture", id = "tilemap-image", file = "jungle.png" },
    { type = "texture", id = "chopper-image", file = "chopper.png" },
    { type = "font", id = "charriot", file = "charriot.ttf", font_size = 14 },
  },
  tilemap = {
    map_file = "%MAP%",
    texture_asset_id = "tilemap-image",
    num_rows = 2, num_cols = 3, tile_size = 32, scale = 2.0,
  },
  entities = {
    [0] = {
      tag = "player",
      components = {
        transform = { position = { x = 10, y = 20 }, scale = { x = 1, y = 1 } },
        rigidbody = { velocity = { x = 0, y = 0 } },
        sprite = { texture_asset_id = "chopper-image", width = 32, height = 32 },
        animation = { num_frames = 2, speed_rate = 10 },
        boxcollider = { width = 32, height = 25, offset = { x = 0, y = 5 } },
        health = {},
        projectile_emitter = { projectile_velocity = { x = 200, y = 200 }, repeat_frequency = 0.5, friendly = true },
        keyboard_controller = {
          up_velocity = { x = 0, y = -80 }, right_velocity = { x = 80, y = 0 },
          down_velocity = { x = 0, y = 80 }, left_velocity = { x = -80, y = 0 },
        },
        camera_follow = { follow = true },
      },
    },
    {
      group = "enemies",
      components = {
        transform = { position = { x = 300, y = 40 } },
        health = { health_percentage = 60 },
        on_update_script = {
          [0] = function(entity, delta, elapsed) set_velocity(entity, 1, 0) end,
        },
      },
    },
  },
}
`

func TestLoadLuaLevelAndSpawn(t *testing.T) {
	dir := t.TempDir()
	mapFile := writeFile(t, dir, "jungle.map", "21,00,13\n01,02,10\n")
	levelFile := writeFile(t, dir, "level.lua", strings.ReplaceAll(luaLevel, "%MAP%", mapFile))

	r := ecs.NewRegistry(nil)
	engine := scripting.NewEngine(r, nil)
	defer engine.Close()

	d, err := Load(levelFile, engine)
	require.NoError(t, err)
	require.Len(t, d.Assets, 3)
	assert.Equal(t, "tilemap-image", d.Assets[0].ID)
	assert.Equal(t, 14, d.Assets[2].FontSize)
	require.Len(t, d.Entities, 2)

	store := asset.NewStore(nil)
	sp := &Spawner{Registry: r, Assets: store}
	res, err := sp.Spawn(d, start)
	require.NoError(t, err)
	r.Update()

	assert.Equal(t, Result{MapWidth: 192, MapHeight: 128, Tiles: 6, Entities: 2}, res)
	assert.Equal(t, 3, store.Count())

	tiles := r.EntitiesByGroup("tiles")
	require.Len(t, tiles, 6)
	tr := ecs.GetComponent[component.Transform](tiles[4])
	assert.Equal(t, component.Vec2{X: 64, Y: 64}, tr.Position)
	assert.Equal(t, component.Vec2{X: 2, Y: 2}, tr.Scale)
	sp0 := ecs.GetComponent[component.Sprite](tiles[0])
	assert.Equal(t, component.Rect{X: 32, Y: 64, W: 32, H: 32}, sp0.Src, "tile 21 is row 2 col 1")
	assert.Equal(t, 0, sp0.ZIndex)

	player, err := r.EntityByTag("player")
	require.NoError(t, err)
	assert.Equal(t, 1, ecs.GetComponent[component.Sprite](player).ZIndex)
	assert.Equal(t, 100, ecs.GetComponent[component.Health](player).Percent)
	anim := ecs.GetComponent[component.Animation](player)
	assert.Equal(t, 2, anim.NumFrames)
	assert.True(t, anim.Loop)
	assert.Equal(t, start, anim.StartTime)
	em := ecs.GetComponent[component.ProjectileEmitter](player)
	assert.Equal(t, 500*time.Millisecond, em.RepeatFrequency)
	assert.Equal(t, 10*time.Second, em.ProjectileDuration)
	assert.Equal(t, 10, em.HitPercentDamage)
	assert.True(t, em.Friendly)
	assert.Equal(t, component.Vec2{X: -80}, ecs.GetComponent[component.KeyboardControlled](player).Left)
	assert.True(t, ecs.HasComponent[component.CameraFollow](player))
	assert.Equal(t, component.Vec2{Y: 5}, ecs.GetComponent[component.BoxCollider](player).Offset)

	enemies := r.EntitiesByGroup("enemies")
	require.Len(t, enemies, 1)
	enemy := enemies[0]
	assert.Equal(t, 60, ecs.GetComponent[component.Health](enemy).Percent)
	assert.Equal(t, component.Vec2{X: 1, Y: 1}, ecs.GetComponent[component.Transform](enemy).Scale)
	require.True(t, ecs.HasComponent[component.Script](enemy))

	ecs.AddComponent(enemy, component.RigidBody{})
	require.NoError(t, engine.CallUpdate(ecs.GetComponent[component.Script](enemy).OnUpdate, enemy, 0.016, 16))
	assert.Equal(t, component.Vec2{X: 1}, ecs.GetComponent[component.RigidBody](enemy).Velocity)
}

func TestLoadLuaWithoutLevelTable(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "empty.lua", "x = 1")
	engine := scripting.NewEngine(ecs.NewRegistry(nil), nil)
	defer engine.Close()

	_, err := LoadLua(p, engine)
	assert.ErrorIs(t, err, ErrNoLevel)
}

const yamlLevel = `
assets:
  - { type: texture, id: tank-image, file: tank.png }
  - { type: font, id: arial, file: arial.ttf, font_size: 10 }
entities:
  - tag: boss
    group: enemies
    components:
      transform: { position: { x: 5, y: 6 } }
      sprite: { texture_asset_id: tank-image, width: 32, height: 32 }
      projectile_emitter: { projectile_velocity: { x: 0, y: 100 } }
      health: {}
      rigidbody: { velocity: { x: 1, y: 0 } }
      on_update_script: |
        function(entity, delta, elapsed) set_velocity(entity, -1, 0) end
  - components:
      text_label: { text: "CHOPPER 1.0", font_id: arial, color: "#00ff00", position: { x: 10, y: 10 } }
`

func TestLoadYAMLLevel(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "level.yaml", yamlLevel)

	r := ecs.NewRegistry(nil)
	engine := scripting.NewEngine(r, nil)
	defer engine.Close()

	d, err := Load(p, engine)
	require.NoError(t, err)
	require.Len(t, d.Entities, 2)
	boss := d.Entities[0].Components
	assert.Equal(t, 1, boss.Sprite.ZIndex)
	assert.Equal(t, XY{1, 1}, boss.Transform.Scale)
	assert.Equal(t, 1.0, boss.ProjectileEmitter.RepeatFrequency)
	assert.Equal(t, 100, boss.Health.HealthPercentage)
	require.NotNil(t, boss.OnUpdate)

	res, err := (&Spawner{Registry: r, Assets: asset.NewStore(nil)}).Spawn(d, start)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Entities)
	assert.Zero(t, res.MapWidth)

	e, err := r.EntityByTag("boss")
	require.NoError(t, err)
	require.NoError(t, engine.CallUpdate(ecs.GetComponent[component.Script](e).OnUpdate, e, 0, 0))
	assert.Equal(t, component.Vec2{X: -1}, ecs.GetComponent[component.RigidBody](e).Velocity)

	label, ok := r.EntityFromID(e.ID() + 1)
	require.True(t, ok)
	tl := ecs.GetComponent[component.TextLabel](label)
	assert.Equal(t, component.ColorGreen, tl.Color)
	assert.True(t, tl.Fixed)
}

func TestLoadYAMLScriptNeedsEngine(t *testing.T) {
	p := writeFile(t, t.TempDir(), "level.yml", yamlLevel)
	_, err := LoadYAML(p, nil)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("level.json", nil)
	assert.Error(t, err)
}

func TestSpawnRejectsUnknownAssetType(t *testing.T) {
	d := &Description{Assets: []AssetSpec{{Type: "sound", ID: "boom"}}}
	_, err := (&Spawner{Registry: ecs.NewRegistry(nil), Assets: asset.NewStore(nil)}).Spawn(d, start)
	assert.Error(t, err)
}

func TestParseTilemap(t *testing.T) {
	tiles, err := ParseTilemap(strings.NewReader("21,00\n\n13,02,\n"), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]Tile{{{2, 1}, {0, 0}}, {{1, 3}, {0, 2}}}, tiles)

	_, err = ParseTilemap(strings.NewReader("21,00\n"), 2, 2)
	assert.Error(t, err, "missing row")

	_, err = ParseTilemap(strings.NewReader("21\n00\n"), 2, 2)
	assert.Error(t, err, "short row")

	_, err = ParseTilemap(strings.NewReader("2x,00\n00,00\n"), 2, 2)
	assert.Error(t, err, "bad digit")
}

func TestBundledLevelsParse(t *testing.T) {
	engine := scripting.NewEngine(ecs.NewRegistry(nil), nil)
	defer engine.Close()

	d, err := Load("../../assets/scripts/Level1.lua", engine)
	require.NoError(t, err)
	assert.Len(t, d.Assets, 7)
	require.NotNil(t, d.Tilemap)
	assert.Equal(t, 25, d.Tilemap.NumCols)
	require.Len(t, d.Entities, 5)
	assert.Equal(t, "player", d.Entities[0].Tag)
	assert.NotNil(t, d.Entities[4].Components.OnUpdate)

	f, err := os.Open("../../assets/tilemaps/jungle.map")
	require.NoError(t, err)
	defer f.Close()
	tiles, err := ParseTilemap(f, d.Tilemap.NumRows, d.Tilemap.NumCols)
	require.NoError(t, err)
	assert.Len(t, tiles, 20)

	d, err = Load("../../assets/levels/duel.yaml", engine)
	require.NoError(t, err)
	assert.Len(t, d.Entities, 3)
	assert.NotNil(t, d.Entities[1].Components.OnUpdate)
}

func TestReadLevelKeepsZeroIndexedEntries(t *testing.T) {
	engine := scripting.NewEngine(ecs.NewRegistry(nil), nil)
	defer engine.Close()
	require.NoError(t, engine.DoString(`
		Level = {
			assets = { [0] = { type = "texture", id = "a" }, { type = "texture", id = "b" } },
			entities = {
				[0] = { tag = "player", components = {
					on_update_script = { [0] = function(entity) end },
				} },
				{ group = "enemies" },
			},
		}
	`))
	d, err := readLevel(engine.Global("Level"))
	require.NoError(t, err)

	require.Len(t, d.Assets, 2)
	assert.Equal(t, "a", d.Assets[0].ID)
	assert.Equal(t, "b", d.Assets[1].ID)
	require.Len(t, d.Entities, 2)
	assert.Equal(t, "player", d.Entities[0].Tag)
	assert.NotNil(t, d.Entities[0].Components.OnUpdate)
	assert.Equal(t, "enemies", d.Entities[1].Group)
}
