package synth

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	const rate, freq = 48000, 440
	s := newTestSynth(rate)
	s.SetOutput(s.Sine(Const(freq), Const(0)))
	for n := 0; n < 2000; n++ {
		want := math.Sin(2 * math.Pi * freq * float64(n) / rate)
		if got := s.step(); math.Abs(got-want) > 1e-6 {
			t.Fatalf("sample %d: expected %f, got %f", n, want, got)
		}
	}
}

func TestWaveforms(t *testing.T) {
	for _, test := range []struct {
		name string
		osc  func(s *Synth) NodeID
		want []float64
	}{
		{"triangle", func(s *Synth) NodeID { return s.Triangle(Const(1), Const(0)) }, []float64{-1, 0, 1, 0, -1}},
		{"saw", func(s *Synth) NodeID { return s.Saw(Const(1), Const(0)) }, []float64{-1, -.5, 0, .5, -1}},
		{"square", func(s *Synth) NodeID { return s.Square(Const(1), Const(0), Const(1)) }, []float64{-1, -1, 1, 1, -1}},
		{"square full duty", func(s *Synth) NodeID { return s.Square(Const(1), Const(0), Const(4)) }, []float64{-1, -1, -1, -1, -1}},
		{"square zero duty", func(s *Synth) NodeID { return s.Square(Const(1), Const(0), Const(-1)) }, []float64{1, 1, 1, 1, 1}},
		{"sine offset", func(s *Synth) NodeID { return s.Sine(Const(1), Const(-.25)) }, []float64{-1, 0, 1, 0, -1}},
	} {
		s := newTestSynth(4)
		s.SetOutput(test.osc(s))
		for n, want := range test.want {
			if got := s.step(); math.Abs(got-want) > 1e-9 {
				t.Errorf("%s: sample %d: expected %g, got %g", test.name, n, want, got)
			}
		}
	}
}

func TestFrequencyModulation(t *testing.T) {
	s := newTestSynth(4)
	_, freq := s.Control("freq", 1)
	s.SetOutput(s.Saw(freq, Const(0)))
	s.step()
	s.SetControl("freq", 2, 0) // takes effect after the next sample
	s.step()
	s.step()
	if got := s.step(); got != -1 {
		t.Errorf("expected -1, got %g", got)
	}
}

func TestNoise(t *testing.T) {
	s := newTestSynth(48000)
	s.SetOutput(s.Noise())
	min, max := 1.0, -1.0
	for n := 0; n < 10000; n++ {
		x := s.step()
		min, max = math.Min(min, x), math.Max(max, x)
	}
	if min < -.5 || max > .5 {
		t.Errorf("noise out of range [%g, %g]", min, max)
	}
	if max-min < .9 {
		t.Errorf("noise range [%g, %g] is suspiciously narrow", min, max)
	}
}

func TestTime(t *testing.T) {
	s := newTestSynth(100)
	s.SetOutput(s.Time())
	for n := 0; n < 50; n++ {
		if got, want := s.step(), float64(n)/100; math.Abs(got-want) > 1e-9 {
			t.Fatalf("sample %d: expected %g, got %g", n, want, got)
		}
	}
}

func BenchmarkSine(b *testing.B) {
	s := newTestSynth(96000)
	s.SetOutput(s.Sine(Const(1234), Const(0)))
	for i := 0; i < b.N; i++ {
		s.step()
	}
}

func BenchmarkSaw(b *testing.B) {
	s := newTestSynth(96000)
	s.SetOutput(s.Saw(Const(1234), Const(0)))
	for i := 0; i < b.N; i++ {
		s.step()
	}
}
