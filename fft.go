package synth

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/ktye/fft"
)

// A Spectrum analyses rendered output block by block.  Write is meant to be
// installed as a BufferHook; Peak and Magnitudes may be called from any
// goroutine.
type Spectrum struct {
	sampleRate float64
	channels   int

	fft fft.FFT
	env []float64
	buf []complex128
	i   int

	mu  sync.Mutex
	mag []float64
}

// NewSpectrum returns a Spectrum over blocks of size frames, which must be
// a power of two.
func NewSpectrum(size int, p Params) (*Spectrum, error) {
	p = p.withDefaults()
	f, err := fft.New(size)
	if err != nil {
		return nil, err
	}
	env := make([]float64, size)
	for i := range env {
		env[i] = (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
	}
	return &Spectrum{
		sampleRate: p.SampleRate,
		channels:   p.Channels,
		fft:        f,
		env:        env,
		buf:        make([]complex128, size),
		mag:        make([]float64, size/2),
	}, nil
}

func (s *Spectrum) Write(buf []float32) {
	for j := 0; j+s.channels <= len(buf); j += s.channels {
		x := 0.0
		for c := 0; c < s.channels; c++ {
			x += float64(buf[j+c])
		}
		s.buf[s.i] = complex(x/float64(s.channels)*s.env[s.i], 0)
		s.i++
		if s.i == len(s.buf) {
			s.i = 0
			s.analyse()
		}
	}
}

func (s *Spectrum) analyse() {
	out := s.fft.Transform(s.buf)
	s.mu.Lock()
	for k := range s.mag {
		s.mag[k] = cmplx.Abs(out[k]) / float64(len(out))
	}
	s.mu.Unlock()
}

// Peak returns the frequency and magnitude of the strongest bin of the last
// analysed block, ignoring DC.
func (s *Spectrum) Peak() (freq, mag float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := 0
	for i := 1; i < len(s.mag); i++ {
		if s.mag[i] > mag {
			k, mag = i, s.mag[i]
		}
	}
	return float64(k) * s.sampleRate / float64(len(s.buf)), mag
}

// Magnitudes appends the magnitudes of the last analysed block to dst.
func (s *Spectrum) Magnitudes(dst []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(dst, s.mag...)
}
