package synth

import "math"

// eval returns node id's output for the current frame, computing it (and,
// recursively, its inputs) at most once per frame.
func (s *Synth) eval(id NodeID) float64 {
	n := &s.nodes[id]
	s.guard.enter(id)
	if n.frame != s.frame {
		n.frame = s.frame
		s.update(n)
	}
	s.guard.leave(id)
	return n.output
}

func (s *Synth) in(n *node, i int) float64 {
	p := &n.in[i]
	if p.isNode {
		return s.eval(p.node)
	}
	return p.value
}

func (s *Synth) triggered(t TriggerID) bool {
	if t == GlobalTrigger {
		return s.global.armed
	}
	return s.triggers[t].armed
}

func (s *Synth) update(n *node) {
	dt := s.dt
	switch n.kind {
	case Sine, Triangle, Saw:
		freq, offset := s.in(n, 0), s.in(n, 1)
		var table Wavetable
		switch n.kind {
		case Sine:
			table = s.tables.Sine
		case Triangle:
			table = s.tables.Triangle
		case Saw:
			table = s.tables.Saw
		}
		n.output = table.At(n.phase + offset)
		n.phase = wrap(n.phase + freq*dt)
	case Square:
		freq, offset, duty := s.in(n, 0), s.in(n, 1), s.in(n, 2)
		n.output = square(n.phase+offset, duty)
		n.phase = wrap(n.phase + freq*dt)
	case Noise:
		n.output = s.rand.Float64() - .5
	case Time:
		n.output = s.time

	case Fade:
		duration := s.in(n, 0)
		n.fade(duration, dt, s.triggered(n.trigger))
	case ADSR:
		a, d, sus, lvl, r := s.in(n, 0), s.in(n, 1), s.in(n, 2), s.in(n, 3), s.in(n, 4)
		n.adsr(a, d, sus, lvl, r, dt, s.triggered(n.trigger))

	case Add:
		n.output = s.in(n, 0) + s.in(n, 1)
	case Subtract:
		n.output = s.in(n, 0) - s.in(n, 1)
	case Multiply:
		n.output = s.in(n, 0) * s.in(n, 1)
	case Divide:
		n.output = s.in(n, 0) / s.in(n, 1)
	case Pow:
		n.output = math.Pow(s.in(n, 0), s.in(n, 1))
	case Negate:
		n.output = -s.in(n, 0)

	case LowPass:
		n.lowPass(s.in(n, 0), s.in(n, 1), dt)
	case HighPass:
		n.highPass(s.in(n, 0), s.in(n, 1), dt)

	case ControlValue:
		n.output = s.controls[n.control].value
	}
}

// step evaluates the output node for one frame and then advances time,
// disarms every trigger and moves every control along its ramp.
func (s *Synth) step() float64 {
	s.frame++
	x := s.eval(s.output)
	s.time += s.dt
	for i := range s.triggers {
		s.triggers[i].armed = false
	}
	s.global.armed = false
	for i := range s.controls {
		s.controls[i].step(s.dt)
	}
	return x
}
