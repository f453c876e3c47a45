package synth

import "math"

// One-pole filters in RC form; both keep their output in node.output and the
// high-pass keeps its previous input in node.phase.

func (n *node) lowPass(x, freq, dt float64) {
	a := dt / (dt + 1/(2*math.Pi*freq))
	n.output = lerp(n.output, x, a)
}

func (n *node) highPass(x, freq, dt float64) {
	rc := 1 / (2 * math.Pi * freq)
	a := rc / (rc + dt)
	n.output = a * (n.output + x - n.phase)
	n.phase = x
}
