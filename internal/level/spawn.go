package level

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
)

// Result summarises a spawned level.
type Result struct {
	MapWidth  int
	MapHeight int
	Tiles     int
	Entities  int
}

// Spawner turns a Description into entities, assets and map bounds.
type Spawner struct {
	Registry *ecs.Registry
	Assets   *asset.Store
	Log      *zap.Logger
}

// Spawn registers the level's assets, lays out its tilemap and creates its
// entities. now seeds emitter and animation timers.
func (s *Spawner) Spawn(d *Description, now time.Time) (Result, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	var res Result

	for _, a := range d.Assets {
		switch a.Type {
		case "texture":
			s.Assets.AddTexture(a.ID, a.File)
		case "font":
			s.Assets.AddFont(a.ID, a.File, a.FontSize)
		default:
			return res, fmt.Errorf("asset %q: unknown type %q", a.ID, a.Type)
		}
	}

	if m := d.Tilemap; m != nil {
		n, err := s.spawnTilemap(m)
		if err != nil {
			return res, err
		}
		res.Tiles = n
		res.MapWidth = int(float64(m.NumCols*m.TileSize) * m.Scale)
		res.MapHeight = int(float64(m.NumRows*m.TileSize) * m.Scale)
	}

	for i := range d.Entities {
		if err := s.spawnEntity(&d.Entities[i], now); err != nil {
			return res, fmt.Errorf("entity %d: %w", i, err)
		}
		res.Entities++
	}

	log.Info("level spawned",
		zap.Int("assets", len(d.Assets)),
		zap.Int("tiles", res.Tiles),
		zap.Int("entities", res.Entities),
		zap.Int("map_w", res.MapWidth),
		zap.Int("map_h", res.MapHeight),
	)
	return res, nil
}

func (s *Spawner) spawnTilemap(m *TilemapSpec) (int, error) {
	f, err := os.Open(m.MapFile)
	if err != nil {
		return 0, fmt.Errorf("open tilemap: %w", err)
	}
	defer f.Close()

	tiles, err := ParseTilemap(f, m.NumRows, m.NumCols)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.MapFile, err)
	}
	size := float64(m.TileSize) * m.Scale
	for y, row := range tiles {
		for x, t := range row {
			e := s.Registry.CreateEntity()
			e.Group("tiles")
			ecs.AddComponent(e, component.Transform{
				Position: component.Vec2{X: float64(x) * size, Y: float64(y) * size},
				Scale:    component.Vec2{X: m.Scale, Y: m.Scale},
			})
			ecs.AddComponent(e, component.NewSprite(m.TextureAssetID, m.TileSize, m.TileSize,
				t.Col*m.TileSize, t.Row*m.TileSize, 0, false))
		}
	}
	return m.NumRows * m.NumCols, nil
}

func (s *Spawner) spawnEntity(spec *EntitySpec, now time.Time) error {
	e := s.Registry.CreateEntity()
	if spec.Tag != "" {
		e.Tag(spec.Tag)
	}
	if spec.Group != "" {
		e.Group(spec.Group)
	}

	c := &spec.Components
	if v := c.Transform; v != nil {
		ecs.AddComponent(e, component.Transform{
			Position: vec(v.Position),
			Scale:    vec(v.Scale),
			Rotation: v.Rotation,
		})
	}
	if v := c.RigidBody; v != nil {
		ecs.AddComponent(e, component.RigidBody{Velocity: vec(v.Velocity)})
	}
	if v := c.Sprite; v != nil {
		ecs.AddComponent(e, component.NewSprite(v.TextureAssetID, v.Width, v.Height,
			v.SrcRectX, v.SrcRectY, v.ZIndex, v.Fixed))
	}
	if v := c.Animation; v != nil {
		ecs.AddComponent(e, component.Animation{
			NumFrames: v.NumFrames,
			FrameRate: v.SpeedRate,
			Loop:      v.ShouldLoop,
			StartTime: now,
		})
	}
	if v := c.BoxCollider; v != nil {
		ecs.AddComponent(e, component.BoxCollider{
			Width:  v.Width,
			Height: v.Height,
			Offset: vec(v.Offset),
		})
	}
	if v := c.Health; v != nil {
		ecs.AddComponent(e, component.Health{Percent: v.HealthPercentage})
	}
	if v := c.ProjectileEmitter; v != nil {
		ecs.AddComponent(e, component.ProjectileEmitter{
			Velocity:           vec(v.ProjectileVelocity),
			RepeatFrequency:    seconds(v.RepeatFrequency),
			ProjectileDuration: seconds(v.ProjectileDuration),
			HitPercentDamage:   v.HitPercentageDamage,
			Friendly:           v.Friendly,
			LastEmission:       now,
		})
	}
	if c.CameraFollow != nil {
		ecs.AddComponent(e, component.CameraFollow{})
	}
	if v := c.KeyboardController; v != nil {
		ecs.AddComponent(e, component.KeyboardControlled{
			Up:    vec(v.UpVelocity),
			Right: vec(v.RightVelocity),
			Down:  vec(v.DownVelocity),
			Left:  vec(v.LeftVelocity),
		})
	}
	if v := c.TextLabel; v != nil {
		col, err := asset.ParseColor(v.Color)
		if err != nil {
			return fmt.Errorf("text_label: %w", err)
		}
		ecs.AddComponent(e, component.TextLabel{
			Position: vec(v.Position),
			Text:     v.Text,
			FontID:   v.FontID,
			Color:    col,
			Fixed:    v.Fixed,
		})
	}
	if c.OnUpdate != nil {
		ecs.AddComponent(e, component.Script{OnUpdate: c.OnUpdate})
	}
	return nil
}

func vec(v XY) component.Vec2 { return component.Vec2{X: v.X, Y: v.Y} }

func seconds(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }
