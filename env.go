package synth

import "math"

// Envelope phases start as NaN, meaning the envelope has never been
// triggered; it outputs zero until it is.

// fade is a linear 0→1 ramp over duration seconds.
func (n *node) fade(duration, dt float64, triggered bool) {
	if triggered {
		n.phase = 0
	}
	if math.IsNaN(n.phase) {
		n.output = 0
		return
	}
	n.output = n.phase
	n.phase = clamp(n.phase+dt/duration, 0, 1)
}

// adsr's phase is the time in seconds since the envelope was (re)triggered.
// A retrigger during the envelope restarts the attack at the level the
// envelope has already reached.
func (n *node) adsr(attack, decay, sustain, level, release, dt float64, triggered bool) {
	if triggered {
		if n.phase >= 0 && n.phase < attack+decay+sustain+release {
			n.phase = n.output * attack
		} else {
			n.phase = 0
		}
	}
	if math.IsNaN(n.phase) {
		n.output = 0
		return
	}

	t := n.phase
	n.phase += dt
	n.output = adsrLevel(t, attack, decay, sustain, level, release)
}

func adsrLevel(t, attack, decay, sustain, level, release float64) float64 {
	if t < attack {
		return t / attack
	}
	t -= attack
	if t < decay {
		return 1 - t/decay*(1-level)
	}
	t -= decay
	if t < sustain {
		return level
	}
	t -= sustain
	if t < release {
		return (1 - t/release) * level
	}
	return 0
}
