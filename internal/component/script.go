package component

import lua "github.com/yuin/gopher-lua"

// Script holds a Lua function called every frame as fn(entity, delta, elapsed).
type Script struct {
	OnUpdate *lua.LFunction
}
