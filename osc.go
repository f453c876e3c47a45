package synth

import "math"

// A Wavetable holds one period of a waveform sampled at SampleRate points.
type Wavetable []float64

func (w Wavetable) At(phase float64) float64 {
	x := wrap(phase) * float64(len(w))
	i := int(x)
	frac := x - float64(i)
	i %= len(w)
	return lerp(w[i], w[(i+1)%len(w)], frac)
}

type Wavetables struct {
	Sine, Triangle, Saw Wavetable
}

func (t *Wavetables) InitAudio(p Params) {
	n := int(p.SampleRate)
	t.Sine = make(Wavetable, n)
	t.Triangle = make(Wavetable, n)
	t.Saw = make(Wavetable, n)
	for i := 0; i < n; i++ {
		ph := float64(i) / float64(n)
		t.Sine[i] = math.Sin(2 * math.Pi * ph)
		if ph <= .5 {
			t.Triangle[i] = (ph - .25) * 4
		} else {
			t.Triangle[i] = (.75 - ph) * 4
		}
		t.Saw[i] = 2*ph - 1
	}
}

func square(phase, duty float64) float64 {
	if wrap(phase) < clamp(duty/2, 0, 1) {
		return -1
	}
	return 1
}

func wrap(x float64) float64 { return x - math.Floor(x) }

func lerp(a, b, x float64) float64 { return a*(1-x) + b*x }

func clamp(x, min, max float64) float64 { return math.Max(min, math.Min(max, x)) }
