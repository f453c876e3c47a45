// Package script builds synths from Lua scripts.
//
// A script sees a global table synth with a function new, which registers
// a synth with the engine and returns it, and a field global naming the
// global trigger.  Graphs are built with methods on the returned object:
//
//	local s = synth.new()
//	local f = s:control("freq", 220)
//	s:output(s:sin(f) * s:adsr(.01, .1, .5, .7, .3))
//
// If the script defines update(dt) it is called from each Host.Update, and
// if it defines midi(kind, channel, a, b) it is called for each message
// passed to Host.MIDI.  The global function after(seconds, f) calls f once
// that much Update time has passed.
//
// Besides graph building, a synth object has methods reverb(size, decay)
// and echo(delay, feedback) that add effects to its post-processing, and
// cycle(name, rate, values), which returns a control stepping through
// values rate times per second.
//
// A Host and its Lua state must only be used from one goroutine.
package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/gordonklaus/synth"
	"github.com/gordonklaus/synth/midi"
)

type Host struct {
	e     *synth.Engine
	L     *lua.LState
	path  string
	sched schedule
}

func New(e *synth.Engine) *Host {
	return &Host{e: e}
}

// Load runs the script at path in a fresh Lua state.  Synths left over from
// a previous load are not touched; callers reloading a script should first
// call Engine.DestroyAll.
func (h *Host) Load(path string) error {
	h.Close()
	h.path = path
	h.L = h.newState()
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// LoadString is like Load for a script held in memory.
func (h *Host) LoadString(name, src string) error {
	h.Close()
	h.path = name
	h.L = h.newState()
	fn, err := h.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	h.L.Push(fn)
	if err := h.L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Update runs functions passed to after that have come due and then calls
// the script's update function, if any.
func (h *Host) Update(dt float64) error {
	if err := h.sched.step(dt); err != nil {
		return fmt.Errorf("script %s: after: %w", h.path, err)
	}
	return h.call("update", lua.LNumber(dt))
}

// MIDI passes msg to the script's midi function, if any.
func (h *Host) MIDI(msg midi.Message) error {
	return h.call("midi", lua.LString(msg.Kind.String()), lua.LNumber(msg.Channel), lua.LNumber(msg.A), lua.LNumber(msg.B))
}

func (h *Host) call(name string, args ...lua.LValue) error {
	if h.L == nil {
		return nil
	}
	fn, ok := h.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		return fmt.Errorf("script %s: %s: %w", h.path, name, err)
	}
	return nil
}

func (h *Host) Close() {
	if h.L != nil {
		h.L.Close()
		h.L = nil
	}
	h.sched = schedule{}
}
