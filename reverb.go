package synth

import (
	"math"
	"math/rand"
	"time"
)

// A Reverb feeds a synth's output through a chain of delay lines whose taps
// wander randomly.  Its Process method is a SynthHook.
type Reverb struct {
	size, decayTime float64

	sampleRate float64
	streams    []*grainStream
	rand       *rand.Rand
}

// NewReverb returns a Reverb; size scales how fast taps move and decayTime
// is the time in seconds for the tail to fall by 40dB.
func NewReverb(size, decayTime float64) *Reverb {
	return &Reverb{size: size, decayTime: decayTime}
}

func (r *Reverb) InitAudio(p Params) {
	r.sampleRate = p.SampleRate
	r.streams = r.streams[:0]
	for i := 0; i < 10; i++ {
		s := &grainStream{buf: make([]float64, int(p.SampleRate)), t: 1}
		s.dcFilter.InitAudio(p)
		r.streams = append(r.streams, s)
	}
	r.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (r *Reverb) Process(s *Synth, buf []float64, stereo *[2]float64) {
	for i, x := range buf {
		buf[i] = r.reverb(x)
	}
}

func (r *Reverb) reverb(dry float64) float64 {
	wet := 0.0
	x := dry
	for _, s := range r.streams {
		if s.t >= 1 {
			s.t -= 1
			s.a1, s.i1 = s.a2, s.i2
			delay := math.Exp2(r.rand.Float64() - 2.5)
			s.dt = 1 / math.Exp2(r.rand.Float64()) / r.size / r.sampleRate
			s.a2 = math.Pow(.01, delay/r.decayTime)
			s.i2 = (s.i - int(delay*r.sampleRate) + len(s.buf)) % len(s.buf)
		}
		sin2 := math.Sin(math.Pi / 2 * s.t)
		sin2 *= sin2
		y := s.dcFilter.Filter(s.a1*(1-sin2)*s.buf[s.i1] + s.a2*sin2*s.buf[s.i2])
		s.i1 = (s.i1 + 1) % len(s.buf)
		s.i2 = (s.i2 + 1) % len(s.buf)
		s.t += s.dt
		s.buf[s.i] = x + y
		s.i = (s.i + 1) % len(s.buf)
		x = y // feed wet output into next stream's input
		wet += y
	}
	return (wet + dry) / 2
}

type grainStream struct {
	buf      []float64
	i        int
	t, dt    float64
	a1, a2   float64
	i1, i2   int
	dcFilter dcFilter
}

// dcFilter is a 10Hz one-pole high-pass.
type dcFilter struct {
	a, x, y float64
}

func (f *dcFilter) InitAudio(p Params) {
	rc := 1 / (2 * math.Pi * 10)
	f.a = rc / (rc + 1/p.SampleRate)
}

func (f *dcFilter) Filter(x float64) float64 {
	f.y = f.a * (f.y + x - f.x)
	f.x = x
	return f.y
}
