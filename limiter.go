package synth

import "math"

// A Normalizer keeps the mix of an unknown number of synths in range.  It
// removes DC, follows the signal envelope with a fast attack and a slow
// release, and scales by 0.7/envelope before hard clipping to [-1, 1].  The
// envelope never drops below 1, so quiet signals are only attenuated by 0.7.
type Normalizer struct {
	attack, release float64
	dcRate          float64
	dc, env         float64
}

const (
	normalizerAttackTime  = .005
	normalizerReleaseTime = .2
)

func (n *Normalizer) InitAudio(p Params) {
	n.attack = math.Exp(-1 / (normalizerAttackTime * p.SampleRate))
	n.release = math.Exp(-1 / (normalizerReleaseTime * p.SampleRate))
	n.dcRate = .5 / p.SampleRate
	n.dc = 0
	n.env = 1
}

func (n *Normalizer) Normalize(x float64) float64 {
	n.dc = lerp(n.dc, x, n.dcRate)
	x -= n.dc
	abs := math.Abs(x)
	if abs > n.env {
		n.env = lerp(n.env, abs, 1-n.attack)
	} else {
		n.env = lerp(n.env, abs, 1-n.release)
	}
	n.env = math.Max(n.env, 1)
	return clamp(x*.7/n.env, -1, 1)
}

func (n *Normalizer) Process(buf []float32) {
	for i, x := range buf {
		buf[i] = float32(n.Normalize(float64(x)))
	}
}
