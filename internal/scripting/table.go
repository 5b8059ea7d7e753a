package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Field helpers for walking script-defined tables. A missing or nil field
// yields the fallback.

func Int(t *lua.LTable, key string, fallback int) int {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return fallback
}

func Float(t *lua.LTable, key string, fallback float64) float64 {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(v)
	}
	return fallback
}

func String(t *lua.LTable, key, fallback string) string {
	if v, ok := t.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return fallback
}

func Bool(t *lua.LTable, key string, fallback bool) bool {
	if v, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(v)
	}
	return fallback
}

// Table returns the sub-table at key, or nil.
func Table(t *lua.LTable, key string) *lua.LTable {
	if t == nil {
		return nil
	}
	v, _ := t.RawGetString(key).(*lua.LTable)
	return v
}

// Function returns the function at key, or nil.
func Function(t *lua.LTable, key string) *lua.LFunction {
	v, _ := t.RawGetString(key).(*lua.LFunction)
	return v
}

// Index reads t[i]. RawGetInt only sees the array part, which never holds
// keys below 1, so integer keys go through RawGet.
func Index(t *lua.LTable, i int) lua.LValue {
	return t.RawGet(lua.LNumber(i))
}

// Array returns the tables stored at consecutive integer keys. Level files
// index from 0, so a table that has key 0 is read from 0, otherwise from 1.
func Array(t *lua.LTable) []*lua.LTable {
	if t == nil {
		return nil
	}
	start := 1
	if Index(t, 0) != lua.LNil {
		start = 0
	}
	var out []*lua.LTable
	for i := start; ; i++ {
		v, ok := Index(t, i).(*lua.LTable)
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
