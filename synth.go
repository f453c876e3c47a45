package synth

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

type State uint8

const (
	Stopped State = iota
	Playing
	DeletionRequested
	DeletionScheduled
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case DeletionRequested:
		return "deletion requested"
	case DeletionScheduled:
		return "deletion scheduled"
	}
	return "unknown"
}

// A SynthHook post-processes a synth's mono chunk before it is mixed.  It may
// modify buf and the per-channel coefficients, both of which start at 1.
// It runs with s locked and so must not call s's methods.
type SynthHook func(s *Synth, buf []float64, stereo *[2]float64)

// A Synth owns a graph of nodes together with the controls and triggers that
// drive it.  All methods are safe for concurrent use with rendering.
type Synth struct {
	mu sync.Mutex

	nodes    []node
	controls []Control
	triggers []Trigger
	global   Trigger
	output   NodeID

	time, dt float64
	frame    uint64
	rand     *rand.Rand
	tables   *Wavetables
	guard    cycleGuard

	state       State
	gain        ramp
	pan         ramp
	stereo      [2]float64
	postProcess SynthHook
}

// A ramp moves x linearly to target over one rendered chunk.
type ramp struct{ x, target float64 }

func (r *ramp) set(x float64) { r.target = x }

func newSynth(t *Wavetables, dt float64) *Synth {
	return &Synth{
		global: Trigger{Name: GlobalTriggerName, armed: true},
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		tables: t,
		dt:     dt,
		gain:   ramp{target: 1},
	}
}

func (s *Synth) newNode(kind NodeType, in ...Input) NodeID {
	n := node{kind: kind}
	for i, x := range in {
		n.in[i] = x.input()
	}
	switch kind {
	case Fade, ADSR:
		n.phase = math.NaN()
	}
	s.nodes = append(s.nodes, n)
	s.guard.grow(len(s.nodes))
	return NodeID(len(s.nodes) - 1)
}

func (s *Synth) add(kind NodeType, in ...Input) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newNode(kind, in...)
}

func (s *Synth) Sine(freq, phaseOffset Input) NodeID { return s.add(Sine, freq, phaseOffset) }
func (s *Synth) Triangle(freq, phaseOffset Input) NodeID {
	return s.add(Triangle, freq, phaseOffset)
}
func (s *Synth) Square(freq, phaseOffset, duty Input) NodeID {
	return s.add(Square, freq, phaseOffset, duty)
}
func (s *Synth) Saw(freq, phaseOffset Input) NodeID { return s.add(Saw, freq, phaseOffset) }
func (s *Synth) Noise() NodeID                      { return s.add(Noise) }
func (s *Synth) Time() NodeID                       { return s.add(Time) }

// Fade ramps from 0 to 1 over duration seconds each time trigger is tripped.
func (s *Synth) Fade(duration Input, trigger TriggerID) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newNode(Fade, duration)
	s.nodes[id].trigger = trigger
	return id
}

// ADSR is an attack-decay-sustain-release envelope; attack, decay, sustain
// and release are durations in seconds and level is the sustain level.
func (s *Synth) ADSR(attack, decay, sustain, level, release Input, trigger TriggerID) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newNode(ADSR, attack, decay, sustain, level, release)
	s.nodes[id].trigger = trigger
	return id
}

func (s *Synth) Add(x, y Input) NodeID      { return s.add(Add, x, y) }
func (s *Synth) Subtract(x, y Input) NodeID { return s.add(Subtract, x, y) }
func (s *Synth) Multiply(x, y Input) NodeID { return s.add(Multiply, x, y) }
func (s *Synth) Divide(x, y Input) NodeID   { return s.add(Divide, x, y) }
func (s *Synth) Pow(x, y Input) NodeID      { return s.add(Pow, x, y) }
func (s *Synth) Negate(x Input) NodeID      { return s.add(Negate, x) }

func (s *Synth) LowPass(x, freq Input) NodeID  { return s.add(LowPass, x, freq) }
func (s *Synth) HighPass(x, freq Input) NodeID { return s.add(HighPass, x, freq) }

// Control adds a named control with an initial value and returns it along with
// a node that outputs its current value.  If the name is taken, the existing
// control is kept, x is ignored and a new node reading it is returned.
func (s *Synth) Control(name string, x float64) (ControlID, NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := ControlID(len(s.controls))
	for i := range s.controls {
		if s.controls[i].Name == name {
			c = ControlID(i)
			break
		}
	}
	if int(c) == len(s.controls) {
		s.controls = append(s.controls, newControl(name, x))
	}
	id := s.newNode(ControlValue)
	s.nodes[id].control = c
	return c, id
}

// Trigger returns the trigger with the given name, adding it if needed.
func (s *Synth) Trigger(name string) TriggerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.triggers {
		if s.triggers[i].Name == name {
			return TriggerID(i)
		}
	}
	s.triggers = append(s.triggers, Trigger{Name: name})
	return TriggerID(len(s.triggers) - 1)
}

// SetOutput makes id the synth's output and starts it playing.
func (s *Synth) SetOutput(id NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = id
	if s.state == Stopped {
		s.state = Playing
	}
}

// SetControl ramps the named control to x over ramp seconds.  Unknown names
// are ignored.
func (s *Synth) SetControl(name string, x, ramp float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.controls {
		if s.controls[i].Name == name {
			s.controls[i].set(x, ramp)
			return
		}
	}
}

// TripTrigger arms the named trigger for the next sample.  Unknown names are
// ignored.
func (s *Synth) TripTrigger(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.triggers {
		if s.triggers[i].Name == name {
			s.triggers[i].armed = true
			return
		}
	}
	if name == GlobalTriggerName {
		s.global.armed = true
	}
}

// SetPan sets the stereo position, -1 (left) to 1 (right), reached over the
// next rendered chunk.
func (s *Synth) SetPan(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pan.set(x)
}

// SetGain sets the gain reached over the next rendered chunk.
func (s *Synth) SetGain(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gain.set(x)
}

func (s *Synth) SetPostProcess(h SynthHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postProcess = h
}

// AddPostProcess appends h to the synth's post-process hook.
func (s *Synth) AddPostProcess(h SynthHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.postProcess == nil {
		s.postProcess = h
		return
	}
	s.postProcess = ChainHooks(s.postProcess, h)
}

// RequestDeletion fades the synth out; once silent it is removed by the
// next Engine.Update.
func (s *Synth) RequestDeletion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Stopped:
		s.state = DeletionScheduled
	case Playing:
		s.state = DeletionRequested
	}
}

func (s *Synth) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Synth) Gain() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gain.x
}

func (s *Synth) Pan() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pan.x
}

func (s *Synth) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

func (s *Synth) ControlValue(c ControlID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls[c].value
}
