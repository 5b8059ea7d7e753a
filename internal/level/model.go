// Package level reads level descriptions (Lua or YAML) and spawns them into
// a registry through the same entity API any other caller uses.
package level

import (
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// Description is one level: the assets it needs, an optional tilemap, and
// its entities in creation order.
type Description struct {
	Assets   []AssetSpec  `yaml:"assets"`
	Tilemap  *TilemapSpec `yaml:"tilemap"`
	Entities []EntitySpec `yaml:"entities"`
}

type AssetSpec struct {
	Type     string `yaml:"type"` // "texture" or "font"
	ID       string `yaml:"id"`
	File     string `yaml:"file"`
	FontSize int    `yaml:"font_size"`
}

type TilemapSpec struct {
	MapFile        string  `yaml:"map_file"`
	TextureAssetID string  `yaml:"texture_asset_id"`
	NumRows        int     `yaml:"num_rows"`
	NumCols        int     `yaml:"num_cols"`
	TileSize       int     `yaml:"tile_size"`
	Scale          float64 `yaml:"scale"`
}

type EntitySpec struct {
	Tag        string         `yaml:"tag"`
	Group      string         `yaml:"group"`
	Components ComponentsSpec `yaml:"components"`
}

// ComponentsSpec lists the components of one entity. A nil field means the
// entity does not get that component.
type ComponentsSpec struct {
	Transform          *TransformSpec         `yaml:"transform"`
	RigidBody          *RigidBodySpec         `yaml:"rigidbody"`
	Sprite             *SpriteSpec            `yaml:"sprite"`
	Animation          *AnimationSpec         `yaml:"animation"`
	BoxCollider        *BoxColliderSpec       `yaml:"boxcollider"`
	Health             *HealthSpec            `yaml:"health"`
	ProjectileEmitter  *ProjectileEmitterSpec `yaml:"projectile_emitter"`
	CameraFollow       *CameraFollowSpec      `yaml:"camera_follow"`
	KeyboardController *KeyboardSpec          `yaml:"keyboard_controller"`
	TextLabel          *TextLabelSpec         `yaml:"text_label"`
	OnUpdateScript     string                 `yaml:"on_update_script"` // Lua function expression, YAML only
	OnUpdate           *lua.LFunction         `yaml:"-"`
}

type XY struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TransformSpec struct {
	Position XY      `yaml:"position"`
	Scale    XY      `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
}

type RigidBodySpec struct {
	Velocity XY `yaml:"velocity"`
}

type SpriteSpec struct {
	TextureAssetID string `yaml:"texture_asset_id"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	SrcRectX       int    `yaml:"src_rect_x"`
	SrcRectY       int    `yaml:"src_rect_y"`
	ZIndex         int    `yaml:"z_index"`
	Fixed          bool   `yaml:"fixed"`
}

type AnimationSpec struct {
	NumFrames  int  `yaml:"num_frames"`
	SpeedRate  int  `yaml:"speed_rate"`
	ShouldLoop bool `yaml:"should_loop"`
}

type BoxColliderSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Offset XY  `yaml:"offset"`
}

type HealthSpec struct {
	HealthPercentage int `yaml:"health_percentage"`
}

// ProjectileEmitterSpec times are in seconds.
type ProjectileEmitterSpec struct {
	ProjectileVelocity  XY      `yaml:"projectile_velocity"`
	RepeatFrequency     float64 `yaml:"repeat_frequency"`
	ProjectileDuration  float64 `yaml:"projectile_duration"`
	HitPercentageDamage int     `yaml:"hit_percentage_damage"`
	Friendly            bool    `yaml:"friendly"`
}

type CameraFollowSpec struct{}

type KeyboardSpec struct {
	UpVelocity    XY `yaml:"up_velocity"`
	RightVelocity XY `yaml:"right_velocity"`
	DownVelocity  XY `yaml:"down_velocity"`
	LeftVelocity  XY `yaml:"left_velocity"`
}

type TextLabelSpec struct {
	Position XY     `yaml:"position"`
	Text     string `yaml:"text"`
	FontID   string `yaml:"font_id"`
	Color    string `yaml:"color"` // #rrggbb
	Fixed    bool   `yaml:"fixed"`
}

// Defaults for fields a level may leave out. The YAML decoder starts from
// these; the Lua reader falls back to them.

func defaultTransform() TransformSpec { return TransformSpec{Scale: XY{1, 1}} }
func defaultSprite() SpriteSpec       { return SpriteSpec{ZIndex: 1} }
func defaultAnimation() AnimationSpec { return AnimationSpec{NumFrames: 1, SpeedRate: 1, ShouldLoop: true} }
func defaultHealth() HealthSpec       { return HealthSpec{HealthPercentage: 100} }
func defaultTextLabel() TextLabelSpec { return TextLabelSpec{Fixed: true} }

func defaultEmitter() ProjectileEmitterSpec {
	return ProjectileEmitterSpec{RepeatFrequency: 1, ProjectileDuration: 10, HitPercentageDamage: 10}
}

func (s *TransformSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain TransformSpec
	p := plain(defaultTransform())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = TransformSpec(p)
	return nil
}

func (s *SpriteSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain SpriteSpec
	p := plain(defaultSprite())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = SpriteSpec(p)
	return nil
}

func (s *AnimationSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain AnimationSpec
	p := plain(defaultAnimation())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = AnimationSpec(p)
	return nil
}

func (s *HealthSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain HealthSpec
	p := plain(defaultHealth())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = HealthSpec(p)
	return nil
}

func (s *ProjectileEmitterSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain ProjectileEmitterSpec
	p := plain(defaultEmitter())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = ProjectileEmitterSpec(p)
	return nil
}

func (s *TextLabelSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain TextLabelSpec
	p := plain(defaultTextLabel())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = TextLabelSpec(p)
	return nil
}
