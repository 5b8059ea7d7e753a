package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/core/ecs"
)

// Engine wraps a single gopher-lua VM shared by level scripts and per-entity
// update scripts. Single-goroutine access only (game loop).
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	registry *ecs.Registry
}

// NewEngine creates a Lua VM with the standard libraries and the entity
// bindings for r.
func NewEngine(r *ecs.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	e := &Engine{vm: vm, log: log, registry: r}
	e.bind()
	return e
}

// VM exposes the underlying state for table walking.
func (e *Engine) VM() *lua.LState { return e.vm }

// DoFile runs a script file in the shared VM.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run lua chunk: %w", err)
	}
	return nil
}

// CompileFunction evaluates a Lua function expression such as
// "function(entity, delta, elapsed) ... end" and returns the function.
func (e *Engine) CompileFunction(src string) (*lua.LFunction, error) {
	fn, err := e.vm.LoadString("return " + src)
	if err != nil {
		return nil, fmt.Errorf("compile lua function: %w", err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("compile lua function: %w", err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	f, ok := ret.(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("compile lua function: got %s", ret.Type())
	}
	return f, nil
}

// LoadDir runs every .lua file in dir in name order. A missing dir is skipped.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Global returns the named global table, or nil if it is absent or not a table.
func (e *Engine) Global(name string) *lua.LTable {
	t, _ := e.vm.GetGlobal(name).(*lua.LTable)
	return t
}

// CallUpdate runs an entity update script as fn(entity, delta, elapsed)
// where delta is in seconds and elapsed in milliseconds.
func (e *Engine) CallUpdate(fn *lua.LFunction, ent ecs.Entity, delta float64, elapsedMs int64) error {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, e.entityValue(ent), lua.LNumber(delta), lua.LNumber(elapsedMs)); err != nil {
		return fmt.Errorf("entity %d update script: %w", ent.ID(), err)
	}
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
