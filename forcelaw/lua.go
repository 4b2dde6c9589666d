package forcelaw

import (
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
	lua "github.com/yuin/gopher-lua"
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/ode"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Lua is a force law whose per-body contribution is computed by a Lua
// script: for every body it targets, the script's "force" global
// function is called with the body's pose/velocity/mass and returns a
// force vector (and optional torque). Grounded on the teacher's
// ScriptEngine.Execute (a pooled *lua.LState, register-then-call), but
// retargeted from dispatching game-object effects to computing a force.
//
// Unlike the teacher's Execute, a returned state is Put back on the pool
// instead of Closed, so the pool actually amortizes *lua.LState setup
// cost across evaluate() calls instead of recreating it every time.
type Lua struct {
	Logger runtime.Logger
	Script string // Lua source defining a global "force(x,y,vx,vy,theta,omega,mass)" function

	Targets []*body.Polygon

	pool sync.Pool
	once sync.Once
}

func NewLua(script string, targets []*body.Polygon) *Lua {
	return &Lua{Script: script, Targets: targets}
}

func (l *Lua) initPool() {
	l.pool = sync.Pool{
		New: func() any {
			L := lua.NewState(lua.Options{SkipOpenLibs: false})
			if err := L.DoString(l.Script); err != nil {
				if l.Logger != nil {
					l.Logger.Error("forcelaw.Lua: script load failed: %v", err)
				}
			}
			return L
		},
	}
}

func (l *Lua) CalculateForces(bodies []*body.Polygon) []ode.Force {
	l.once.Do(l.initPool)

	L := l.pool.Get().(*lua.LState)
	defer l.pool.Put(L)

	fn := L.GetGlobal("force")
	if fn.Type() != lua.LTFunction {
		if l.Logger != nil {
			l.Logger.Error("forcelaw.Lua: script does not define a global 'force' function")
		}
		return nil
	}

	out := make([]ode.Force, 0, len(l.Targets))
	for _, b := range l.Targets {
		if b.IsInfiniteMass() {
			continue
		}
		err := L.CallByParam(lua.P{Fn: fn, NRet: 3, Protect: true},
			lua.LNumber(b.X), lua.LNumber(b.Y),
			lua.LNumber(b.Vx), lua.LNumber(b.Vy),
			lua.LNumber(b.Angle), lua.LNumber(b.Omega),
			lua.LNumber(b.Mass))
		if err != nil {
			if l.Logger != nil {
				l.Logger.Error("forcelaw.Lua: script error for body %q: %v", b.Name, err)
			}
			continue
		}

		torque := toFloat(L.Get(-1))
		fy := toFloat(L.Get(-2))
		fx := toFloat(L.Get(-3))
		L.Pop(3)

		out = append(out, ode.Force{
			Body:             b,
			ApplicationPoint: vec2.Vector2{X: b.X, Y: b.Y},
			Vector:           vec2.Vector2{X: fx, Y: fy},
			Torque:           torque,
		})
	}
	return out
}

func toFloat(v lua.LValue) float64 {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0
	}
	return float64(n)
}
