package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
)

const entityTypeName = "entity"

// bind registers the entity userdata type and the global component helpers.
//
//	entity:get_id()  entity:destroy()  entity:has_tag(t)  entity:belongs_to_group(g)
//	set_position(e, x, y)  get_position(e) -> x, y
//	set_velocity(e, x, y)  get_velocity(e) -> x, y
//	set_rotation(e, deg)   set_projectile_velocity(e, x, y)
//	entity_by_tag(t) -> entity or nil
func (e *Engine) bind() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"get_id": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkEntity(L, 1).ID()))
			return 1
		},
		"destroy": func(L *lua.LState) int {
			checkEntity(L, 1).Kill()
			return 0
		},
		"has_tag": func(L *lua.LState) int {
			L.Push(lua.LBool(checkEntity(L, 1).HasTag(L.CheckString(2))))
			return 1
		},
		"belongs_to_group": func(L *lua.LState) int {
			L.Push(lua.LBool(checkEntity(L, 1).BelongsToGroup(L.CheckString(2))))
			return 1
		},
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkEntity(L, 1).Equal(checkEntity(L, 2))))
		return 1
	}))

	for name, fn := range map[string]lua.LGFunction{
		"set_position":            e.setPosition,
		"get_position":            e.getPosition,
		"set_velocity":            e.setVelocity,
		"get_velocity":            e.getVelocity,
		"set_rotation":            e.setRotation,
		"set_projectile_velocity": e.setProjectileVelocity,
		"entity_by_tag":           e.entityByTag,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func (e *Engine) entityValue(ent ecs.Entity) lua.LValue {
	ud := e.vm.NewUserData()
	ud.Value = ent
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(entityTypeName))
	return ud
}

func checkEntity(L *lua.LState, n int) ecs.Entity {
	ud := L.CheckUserData(n)
	ent, ok := ud.Value.(ecs.Entity)
	if !ok {
		L.ArgError(n, "entity expected")
	}
	return ent
}

// lookup fetches T for a script helper. A missing component is logged
// and the call does nothing, so one bad script cannot stop the frame.
func lookup[T any](e *Engine, L *lua.LState, fn string) (*T, bool) {
	ent := checkEntity(L, 1)
	c, ok := ecs.LookupComponent[T](ent)
	if !ok {
		var zero T
		e.log.Error("lua helper on entity without component",
			zap.String("func", fn), zap.Int("entity", ent.ID()), zap.String("component", typeName(zero)))
	}
	return c, ok
}

func (e *Engine) setPosition(L *lua.LState) int {
	if tr, ok := lookup[component.Transform](e, L, "set_position"); ok {
		tr.Position = component.Vec2{X: float64(L.CheckNumber(2)), Y: float64(L.CheckNumber(3))}
	}
	return 0
}

func (e *Engine) getPosition(L *lua.LState) int {
	tr, ok := lookup[component.Transform](e, L, "get_position")
	if !ok {
		return 0
	}
	L.Push(lua.LNumber(tr.Position.X))
	L.Push(lua.LNumber(tr.Position.Y))
	return 2
}

func (e *Engine) setVelocity(L *lua.LState) int {
	if rb, ok := lookup[component.RigidBody](e, L, "set_velocity"); ok {
		rb.Velocity = component.Vec2{X: float64(L.CheckNumber(2)), Y: float64(L.CheckNumber(3))}
	}
	return 0
}

func (e *Engine) getVelocity(L *lua.LState) int {
	rb, ok := lookup[component.RigidBody](e, L, "get_velocity")
	if !ok {
		return 0
	}
	L.Push(lua.LNumber(rb.Velocity.X))
	L.Push(lua.LNumber(rb.Velocity.Y))
	return 2
}

func (e *Engine) setRotation(L *lua.LState) int {
	if tr, ok := lookup[component.Transform](e, L, "set_rotation"); ok {
		tr.Rotation = float64(L.CheckNumber(2))
	}
	return 0
}

func (e *Engine) setProjectileVelocity(L *lua.LState) int {
	if pe, ok := lookup[component.ProjectileEmitter](e, L, "set_projectile_velocity"); ok {
		pe.Velocity = component.Vec2{X: float64(L.CheckNumber(2)), Y: float64(L.CheckNumber(3))}
	}
	return 0
}

func (e *Engine) entityByTag(L *lua.LState) int {
	ent, err := e.registry.EntityByTag(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(e.entityValue(ent))
	return 1
}
