package level

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/chopper/internal/scripting"
)

// ErrNoLevel is returned when a Lua level file does not define the Level table.
var ErrNoLevel = errors.New("level: script does not define a Level table")

// LoadLua runs a Lua level file in the engine's VM and reads the global
// Level table. Update scripts stay bound to that VM.
func LoadLua(path string, engine *scripting.Engine) (*Description, error) {
	if err := engine.DoFile(path); err != nil {
		return nil, err
	}
	t := engine.Global("Level")
	if t == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLevel)
	}
	return readLevel(t)
}

func readLevel(t *lua.LTable) (*Description, error) {
	d := &Description{}
	for _, a := range scripting.Array(scripting.Table(t, "assets")) {
		d.Assets = append(d.Assets, AssetSpec{
			Type:     scripting.String(a, "type", ""),
			ID:       scripting.String(a, "id", ""),
			File:     scripting.String(a, "file", ""),
			FontSize: scripting.Int(a, "font_size", 0),
		})
	}
	if m := scripting.Table(t, "tilemap"); m != nil {
		d.Tilemap = &TilemapSpec{
			MapFile:        scripting.String(m, "map_file", ""),
			TextureAssetID: scripting.String(m, "texture_asset_id", ""),
			NumRows:        scripting.Int(m, "num_rows", 0),
			NumCols:        scripting.Int(m, "num_cols", 0),
			TileSize:       scripting.Int(m, "tile_size", 0),
			Scale:          scripting.Float(m, "scale", 1),
		}
	}
	for i, e := range scripting.Array(scripting.Table(t, "entities")) {
		spec := EntitySpec{
			Tag:   scripting.String(e, "tag", ""),
			Group: scripting.String(e, "group", ""),
		}
		if c := scripting.Table(e, "components"); c != nil {
			comps, err := readComponents(c)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", i, err)
			}
			spec.Components = comps
		}
		d.Entities = append(d.Entities, spec)
	}
	return d, nil
}

func readComponents(c *lua.LTable) (ComponentsSpec, error) {
	var s ComponentsSpec
	if t := scripting.Table(c, "transform"); t != nil {
		v := defaultTransform()
		v.Position = readXY(t, "position", v.Position)
		v.Scale = readXY(t, "scale", v.Scale)
		v.Rotation = scripting.Float(t, "rotation", v.Rotation)
		s.Transform = &v
	}
	if t := scripting.Table(c, "rigidbody"); t != nil {
		s.RigidBody = &RigidBodySpec{Velocity: readXY(t, "velocity", XY{})}
	}
	if t := scripting.Table(c, "sprite"); t != nil {
		v := defaultSprite()
		v.TextureAssetID = scripting.String(t, "texture_asset_id", "")
		v.Width = scripting.Int(t, "width", 0)
		v.Height = scripting.Int(t, "height", 0)
		v.SrcRectX = scripting.Int(t, "src_rect_x", 0)
		v.SrcRectY = scripting.Int(t, "src_rect_y", 0)
		v.ZIndex = scripting.Int(t, "z_index", v.ZIndex)
		v.Fixed = scripting.Bool(t, "fixed", false)
		s.Sprite = &v
	}
	if t := scripting.Table(c, "animation"); t != nil {
		v := defaultAnimation()
		v.NumFrames = scripting.Int(t, "num_frames", v.NumFrames)
		v.SpeedRate = scripting.Int(t, "speed_rate", v.SpeedRate)
		v.ShouldLoop = scripting.Bool(t, "should_loop", v.ShouldLoop)
		s.Animation = &v
	}
	if t := scripting.Table(c, "boxcollider"); t != nil {
		s.BoxCollider = &BoxColliderSpec{
			Width:  scripting.Int(t, "width", 0),
			Height: scripting.Int(t, "height", 0),
			Offset: readXY(t, "offset", XY{}),
		}
	}
	if t := scripting.Table(c, "health"); t != nil {
		v := defaultHealth()
		v.HealthPercentage = scripting.Int(t, "health_percentage", v.HealthPercentage)
		s.Health = &v
	}
	if t := scripting.Table(c, "projectile_emitter"); t != nil {
		v := defaultEmitter()
		v.ProjectileVelocity = readXY(t, "projectile_velocity", XY{})
		v.RepeatFrequency = scripting.Float(t, "repeat_frequency", v.RepeatFrequency)
		v.ProjectileDuration = scripting.Float(t, "projectile_duration", v.ProjectileDuration)
		v.HitPercentageDamage = scripting.Int(t, "hit_percentage_damage", v.HitPercentageDamage)
		v.Friendly = scripting.Bool(t, "friendly", v.Friendly)
		s.ProjectileEmitter = &v
	}
	if scripting.Table(c, "camera_follow") != nil {
		s.CameraFollow = &CameraFollowSpec{}
	}
	if t := scripting.Table(c, "keyboard_controller"); t != nil {
		s.KeyboardController = &KeyboardSpec{
			UpVelocity:    readXY(t, "up_velocity", XY{}),
			RightVelocity: readXY(t, "right_velocity", XY{}),
			DownVelocity:  readXY(t, "down_velocity", XY{}),
			LeftVelocity:  readXY(t, "left_velocity", XY{}),
		}
	}
	if t := scripting.Table(c, "text_label"); t != nil {
		v := defaultTextLabel()
		v.Position = readXY(t, "position", XY{})
		v.Text = scripting.String(t, "text", "")
		v.FontID = scripting.String(t, "font_id", "")
		v.Color = scripting.String(t, "color", "")
		v.Fixed = scripting.Bool(t, "fixed", v.Fixed)
		s.TextLabel = &v
	}
	switch v := c.RawGetString("on_update_script").(type) {
	case *lua.LFunction:
		s.OnUpdate = v
	case *lua.LTable:
		fn, ok := scripting.Index(v, 0).(*lua.LFunction)
		if !ok {
			fn, ok = scripting.Index(v, 1).(*lua.LFunction)
		}
		if !ok {
			return s, errors.New("on_update_script holds no function")
		}
		s.OnUpdate = fn
	case *lua.LNilType:
	default:
		return s, fmt.Errorf("on_update_script: unexpected %s", v.Type())
	}
	return s, nil
}

func readXY(t *lua.LTable, key string, fallback XY) XY {
	v := scripting.Table(t, key)
	if v == nil {
		return fallback
	}
	return XY{
		X: scripting.Float(v, "x", fallback.X),
		Y: scripting.Float(v, "y", fallback.Y),
	}
}
