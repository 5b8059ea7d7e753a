package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/chopper/internal/component"
	"github.com/l1jgo/chopper/internal/core/ecs"
	"github.com/l1jgo/chopper/internal/scripting"
)

func TestScriptSystemRunsAndDetachesFailingScripts(t *testing.T) {
	w := newWorld()
	engine := scripting.NewEngine(w.reg, nil)
	defer engine.Close()
	s := ecs.AddSystem(w.reg, NewScriptSystem(w.reg, engine, w.clock, epoch, nil))

	move, err := engine.CompileFunction(`function(entity, delta, elapsed)
		set_velocity(entity, delta * 100, elapsed)
	end`)
	require.NoError(t, err)
	broken, err := engine.CompileFunction(`function(entity) error("boom") end`)
	require.NoError(t, err)

	good := w.spawn(component.Vec2{}, with(component.RigidBody{}), with(component.Script{OnUpdate: move}))
	bad := w.spawn(component.Vec2{}, with(component.Script{OnUpdate: broken}))
	w.reg.Update()

	w.clock.Advance(1500 * time.Millisecond)
	s.Update(500 * time.Millisecond)
	assert.Equal(t, component.Vec2{X: 50, Y: 1500}, ecs.GetComponent[component.RigidBody](good).Velocity)
	assert.False(t, ecs.HasComponent[component.Script](bad))

	w.reg.Update()
	assert.False(t, s.HasEntity(bad))
	assert.True(t, s.HasEntity(good))
}
