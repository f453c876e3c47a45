package synth

import (
	"math"
	"testing"
)

func TestEcho(t *testing.T) {
	e := NewEcho(.5, .5)
	Init(e, Params{SampleRate: 4})
	buf := []float64{1, 0, 0, 0, 0, 0, 0}
	e.Process(nil, buf, nil)
	for i, want := range []float64{1, 0, 1, 0, .5, 0, .25} {
		if buf[i] != want {
			t.Errorf("sample %d: expected %g, got %g", i, want, buf[i])
		}
	}
}

func TestReverb(t *testing.T) {
	r := NewReverb(.2, 4)
	Init(r, Params{SampleRate: 8000})
	buf := make([]float64, 8000)
	buf[0] = 1
	r.Process(nil, buf, nil)
	if buf[0] != .5 {
		t.Errorf("expected half the dry signal first, got %g", buf[0])
	}
	tail := 0.0
	for i, x := range buf {
		if math.IsNaN(x) || math.Abs(x) > 10 {
			t.Fatalf("sample %d: %g", i, x)
		}
		if i > 0 {
			tail += math.Abs(x)
		}
	}
	if tail == 0 {
		t.Error("expected a reverb tail")
	}
}

func TestChainHooks(t *testing.T) {
	e := newTestEngine(2)
	s := constSynth(e, .25)
	double := func(s *Synth, buf []float64, stereo *[2]float64) {
		for i := range buf {
			buf[i] *= 2
		}
	}
	s.SetPostProcess(ChainHooks(double, double))
	mix := capture(e)
	out := make([]float32, 2*testChunk)
	e.Render(out)
	e.Render(out)
	if x := (*mix)[0]; x != 1 {
		t.Errorf("expected 1, got %g", x)
	}
}

func BenchmarkReverb(b *testing.B) {
	r := NewReverb(.2, 4)
	Init(r, Params{SampleRate: 48000})
	buf := make([]float64, 256)
	for i := 0; i < b.N; i++ {
		r.Process(nil, buf, nil)
	}
}

func TestAddPostProcess(t *testing.T) {
	e := newTestEngine(2)
	s := constSynth(e, .25)
	var order []string
	hook := func(name string, k float64) SynthHook {
		return func(s *Synth, buf []float64, stereo *[2]float64) {
			order = append(order, name)
			for i := range buf {
				buf[i] = buf[i]*k + 1
			}
		}
	}
	s.AddPostProcess(hook("a", 2))
	s.AddPostProcess(hook("b", 4))
	mix := capture(e)
	out := make([]float32, 2*testChunk)
	e.Render(out)
	e.Render(out)
	// (.25*2+1)*4+1
	if x := (*mix)[0]; x != 7 {
		t.Errorf("expected 7, got %g", x)
	}
	if len(order) != 4 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected hooks in order a, b per chunk, got %v", order)
	}
}
