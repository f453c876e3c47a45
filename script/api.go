package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gordonklaus/synth"
)

const (
	synthType   = "synth"
	nodeType    = "synth.node"
	triggerType = "synth.trigger"
)

type node struct {
	s  *synth.Synth
	id synth.NodeID
}

type trigger struct {
	s  *synth.Synth
	id synth.TriggerID
}

func (h *Host) newState() *lua.LState {
	L := lua.NewState()

	mt := L.NewTypeMetatable(synthType)
	methods := L.SetFuncs(L.NewTable(), synthMethods)
	L.SetFuncs(methods, map[string]lua.LGFunction{
		"reverb": func(L *lua.LState) int {
			s := checkSynth(L)
			h.addHook(s, synth.NewReverb(float64(L.OptNumber(2, .2)), float64(L.OptNumber(3, 4))))
			return 0
		},
		"echo": func(L *lua.LState) int {
			s := checkSynth(L)
			h.addHook(s, synth.NewEcho(float64(L.CheckNumber(2)), float64(L.OptNumber(3, .5))))
			return 0
		},
		"cycle": h.cycle,
	})
	L.SetField(mt, "__index", methods)

	mt = L.NewTypeMetatable(nodeType)
	L.SetFuncs(mt, map[string]lua.LGFunction{
		"__add": binary((*synth.Synth).Add),
		"__sub": binary((*synth.Synth).Subtract),
		"__mul": binary((*synth.Synth).Multiply),
		"__div": binary((*synth.Synth).Divide),
		"__pow": binary((*synth.Synth).Pow),
		"__unm": func(L *lua.LState) int {
			n := checkNode(L, 1)
			return pushNode(L, n.s, n.s.Negate(n.id))
		},
	})

	L.NewTypeMetatable(triggerType)

	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(func(L *lua.LState) int {
		ud := L.NewUserData()
		ud.Value = h.e.NewSynth()
		L.SetMetatable(ud, L.GetTypeMetatable(synthType))
		L.Push(ud)
		return 1
	}))
	L.SetField(mod, "global", lua.LString(synth.GlobalTriggerName))
	L.SetGlobal("synth", mod)

	L.SetGlobal("after", L.NewFunction(func(L *lua.LState) int {
		t := float64(L.CheckNumber(1))
		fn := L.CheckFunction(2)
		h.sched.add(t, func() error {
			return h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
		})
		return 0
	}))
	return L
}

type effect interface {
	synth.Initer
	Process(s *synth.Synth, buf []float64, stereo *[2]float64)
}

// addHook appends an effect to the post-processing of s.
func (h *Host) addHook(s *synth.Synth, fx effect) {
	synth.Init(fx, h.e.Params())
	s.AddPostProcess(fx.Process)
}

// cycle implements s:cycle(name, rate, values): a control that steps
// through values, rate times per second of Update time, until s is deleted.
func (h *Host) cycle(L *lua.LState) int {
	s := checkSynth(L)
	name := L.CheckString(2)
	rate := float64(L.CheckNumber(3))
	if rate <= 0 {
		L.ArgError(3, "rate must be positive")
	}
	var values []float64
	L.CheckTable(4).ForEach(func(_, v lua.LValue) {
		if x, ok := v.(lua.LNumber); ok {
			values = append(values, float64(x))
		}
	})
	if len(values) == 0 {
		L.ArgError(4, "no numbers to cycle through")
	}
	_, id := s.Control(name, values[0])
	i := 0
	var next func() error
	next = func() error {
		if st := s.State(); st == synth.DeletionRequested || st == synth.DeletionScheduled {
			return nil
		}
		i = (i + 1) % len(values)
		s.SetControl(name, values[i], 0)
		h.sched.add(1/rate, next)
		return nil
	}
	h.sched.add(1/rate, next)
	return pushNode(L, s, id)
}

var synthMethods = map[string]lua.LGFunction{
	"sin": oscillator((*synth.Synth).Sine),
	"tri": oscillator((*synth.Synth).Triangle),
	"saw": oscillator((*synth.Synth).Saw),
	"sqr": func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, s.Square(input(L, s, 2), optInput(L, s, 3, 0), optInput(L, s, 4, 1)))
	},
	"noise": func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, s.Noise())
	},
	"time": func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, s.Time())
	},
	"fade": func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, s.Fade(input(L, s, 2), checkTrigger(L, s, 3)))
	},
	"adsr": func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, s.ADSR(input(L, s, 2), input(L, s, 3), input(L, s, 4), input(L, s, 5), input(L, s, 6), checkTrigger(L, s, 7)))
	},
	"lowpass":  method((*synth.Synth).LowPass),
	"highpass": method((*synth.Synth).HighPass),
	"add":      method((*synth.Synth).Add),
	"sub":      method((*synth.Synth).Subtract),
	"mul":      method((*synth.Synth).Multiply),
	"div":      method((*synth.Synth).Divide),
	"pow":      method((*synth.Synth).Pow),
	"neg": func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, s.Negate(input(L, s, 2)))
	},
	"control": func(L *lua.LState) int {
		s := checkSynth(L)
		_, id := s.Control(L.CheckString(2), float64(L.OptNumber(3, 0)))
		return pushNode(L, s, id)
	},
	"trigger": func(L *lua.LState) int {
		s := checkSynth(L)
		ud := L.NewUserData()
		ud.Value = &trigger{s, s.Trigger(L.CheckString(2))}
		L.SetMetatable(ud, L.GetTypeMetatable(triggerType))
		L.Push(ud)
		return 1
	},
	"output": func(L *lua.LState) int {
		s := checkSynth(L)
		n := checkNode(L, 2)
		if n.s != s {
			L.ArgError(2, "node belongs to another synth")
		}
		s.SetOutput(n.id)
		return 0
	},
	"set": func(L *lua.LState) int {
		s := checkSynth(L)
		s.SetControl(L.CheckString(2), float64(L.CheckNumber(3)), float64(L.OptNumber(4, 0)))
		return 0
	},
	"trip": func(L *lua.LState) int {
		s := checkSynth(L)
		s.TripTrigger(L.OptString(2, synth.GlobalTriggerName))
		return 0
	},
	"gain": func(L *lua.LState) int {
		checkSynth(L).SetGain(float64(L.CheckNumber(2)))
		return 0
	},
	"pan": func(L *lua.LState) int {
		checkSynth(L).SetPan(float64(L.CheckNumber(2)))
		return 0
	},
	"delete": func(L *lua.LState) int {
		checkSynth(L).RequestDeletion()
		return 0
	},
}

type (
	osc func(s *synth.Synth, freq, phaseOffset synth.Input) synth.NodeID
	op  func(s *synth.Synth, x, y synth.Input) synth.NodeID
)

func oscillator(f osc) lua.LGFunction {
	return func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, f(s, input(L, s, 2), optInput(L, s, 3, 0)))
	}
}

func method(f op) lua.LGFunction {
	return func(L *lua.LState) int {
		s := checkSynth(L)
		return pushNode(L, s, f(s, input(L, s, 2), input(L, s, 3)))
	}
}

// binary implements an arithmetic metamethod, where either operand may be
// a number.
func binary(f op) lua.LGFunction {
	return func(L *lua.LState) int {
		var s *synth.Synth
		for i := 1; i <= 2; i++ {
			if ud, ok := L.Get(i).(*lua.LUserData); ok {
				if n, ok := ud.Value.(*node); ok {
					s = n.s
					break
				}
			}
		}
		if s == nil {
			L.RaiseError("node expected")
		}
		return pushNode(L, s, f(s, input(L, s, 1), input(L, s, 2)))
	}
}

func checkSynth(L *lua.LState) *synth.Synth {
	if s, ok := L.CheckUserData(1).Value.(*synth.Synth); ok {
		return s
	}
	L.ArgError(1, "synth expected")
	return nil
}

func checkNode(L *lua.LState, i int) *node {
	if n, ok := L.CheckUserData(i).Value.(*node); ok {
		return n
	}
	L.ArgError(i, "node expected")
	return nil
}

// checkTrigger accepts a trigger of s, a trigger name or nil for the global
// trigger.
func checkTrigger(L *lua.LState, s *synth.Synth, i int) synth.TriggerID {
	switch v := L.Get(i).(type) {
	case *lua.LNilType:
		return synth.GlobalTrigger
	case lua.LString:
		if string(v) == synth.GlobalTriggerName {
			return synth.GlobalTrigger
		}
		return s.Trigger(string(v))
	case *lua.LUserData:
		if t, ok := v.Value.(*trigger); ok {
			if t.s != s {
				L.ArgError(i, "trigger belongs to another synth")
			}
			return t.id
		}
	}
	L.ArgError(i, "trigger expected")
	return 0
}

func input(L *lua.LState, s *synth.Synth, i int) synth.Input {
	switch v := L.Get(i).(type) {
	case lua.LNumber:
		return synth.Const(v)
	case *lua.LUserData:
		if n, ok := v.Value.(*node); ok {
			if n.s != s {
				L.ArgError(i, "node belongs to another synth")
			}
			return n.id
		}
	}
	L.ArgError(i, "number or node expected")
	return nil
}

func optInput(L *lua.LState, s *synth.Synth, i int, def float64) synth.Input {
	if L.Get(i) == lua.LNil {
		return synth.Const(def)
	}
	return input(L, s, i)
}

func pushNode(L *lua.LState, s *synth.Synth, id synth.NodeID) int {
	ud := L.NewUserData()
	ud.Value = &node{s, id}
	L.SetMetatable(ud, L.GetTypeMetatable(nodeType))
	L.Push(ud)
	return 1
}
