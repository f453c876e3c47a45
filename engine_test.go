package synth

import (
	"math"
	"sync"
	"testing"
)

const testChunk = 256

func newTestEngine(channels int) *Engine {
	return NewEngine(Params{SampleRate: 48000, BufferSize: testChunk, Channels: channels})
}

func constSynth(e *Engine, x float64) *Synth {
	s := e.NewSynth()
	s.SetOutput(s.Add(Const(x), Const(0)))
	return s
}

// capture records the mix before normalization.
func capture(e *Engine) *[]float32 {
	var mix []float32
	e.SetPostProcessHook(func(buf []float32) { mix = append(mix[:0], buf...) })
	return &mix
}

func TestMixTwoSynths(t *testing.T) {
	e := newTestEngine(2)
	constSynth(e, .5)
	constSynth(e, .5)
	mix := capture(e)
	out := make([]float32, 2*testChunk)

	e.Render(out) // gain fades in over the first chunk
	e.Render(out)
	for i, x := range *mix {
		if x != 1 {
			t.Fatalf("sample %d: expected 1, got %g", i, x)
		}
	}
	for i, x := range out {
		if x < -1 || x > 1 {
			t.Fatalf("sample %d: normalized output %g out of range", i, x)
		}
	}
}

func TestFadeIn(t *testing.T) {
	e := newTestEngine(2)
	constSynth(e, 1)
	mix := capture(e)
	e.Render(make([]float32, 2*testChunk))
	m := *mix
	if m[0] != 0 {
		t.Errorf("expected first sample silent, got %g", m[0])
	}
	for i := 2; i < len(m); i += 2 {
		if m[i] <= m[i-2] {
			t.Fatalf("frame %d: gain not increasing (%g after %g)", i/2, m[i], m[i-2])
		}
	}
}

func TestStoppedSynthIsSilent(t *testing.T) {
	e := newTestEngine(2)
	s := e.NewSynth()
	s.Add(Const(1), Const(0))
	mix := capture(e)
	e.Render(make([]float32, 2*testChunk))
	for i, x := range *mix {
		if x != 0 {
			t.Fatalf("sample %d: expected silence, got %g", i, x)
		}
	}
	if s.State() != Stopped {
		t.Errorf("expected stopped, got %s", s.State())
	}
}

func TestDeletion(t *testing.T) {
	e := newTestEngine(2)
	s := constSynth(e, .5)
	mix := capture(e)
	out := make([]float32, 2*testChunk)
	e.Render(out)
	e.Render(out)
	if g := s.Gain(); g != 1 {
		t.Fatalf("expected gain 1, got %g", g)
	}

	s.RequestDeletion()
	if s.State() != DeletionRequested {
		t.Fatalf("expected deletion requested, got %s", s.State())
	}
	e.Render(out)
	m := *mix
	for i := 2; i < len(m); i += 2 {
		if m[i] > m[i-2] {
			t.Fatalf("frame %d: gain increased during fade out", i/2)
		}
	}
	if last := m[len(m)-2]; last != 0 {
		t.Errorf("expected fade to end silent, got %g", last)
	}
	if s.State() != DeletionScheduled {
		t.Fatalf("expected deletion scheduled, got %s", s.State())
	}

	e.Render(out)
	for i, x := range *mix {
		if x != 0 {
			t.Fatalf("sample %d: expected scheduled synth to be silent, got %g", i, x)
		}
	}
	if e.Len() != 1 {
		t.Fatalf("expected synth to stay registered until Update, have %d", e.Len())
	}
	if n := e.Update(); n != 1 || e.Len() != 0 {
		t.Errorf("expected Update to remove 1 synth, removed %d leaving %d", n, e.Len())
	}
}

func TestDeleteStoppedSynth(t *testing.T) {
	e := newTestEngine(2)
	s := e.NewSynth()
	s.RequestDeletion()
	if n := e.Update(); n != 1 {
		t.Errorf("expected a synth that never played to be removed at once, removed %d", n)
	}
}

func TestDestroyAll(t *testing.T) {
	e := newTestEngine(2)
	a, b := constSynth(e, .5), constSynth(e, .25)
	out := make([]float32, 2*testChunk)
	e.Render(out)
	e.DestroyAll()
	e.Render(out)
	if a.State() != DeletionScheduled || b.State() != DeletionScheduled {
		t.Fatalf("expected both scheduled, got %s and %s", a.State(), b.State())
	}
	e.Update()
	if e.Len() != 0 || e.Synth(0) != nil {
		t.Errorf("expected empty registry, have %d", e.Len())
	}
}

func TestPan(t *testing.T) {
	e := newTestEngine(2)
	s := constSynth(e, .5)
	mix := capture(e)
	out := make([]float32, 2*testChunk)
	s.SetPan(-1)
	e.Render(out)
	e.Render(out)
	m := *mix
	for i := 0; i < len(m); i += 2 {
		if m[i] != .5 || m[i+1] != 0 {
			t.Fatalf("frame %d: expected (.5, 0), got (%g, %g)", i/2, m[i], m[i+1])
		}
	}
	if p := s.Pan(); p != -1 {
		t.Errorf("expected pan -1, got %g", p)
	}
}

func TestSynthPostProcess(t *testing.T) {
	e := newTestEngine(2)
	s := constSynth(e, .5)
	s.SetPostProcess(func(s *Synth, buf []float64, stereo *[2]float64) {
		for i := range buf {
			buf[i] *= 2
		}
		stereo[1] = .5
	})
	calls := 0
	e.SetSynthPostProcessHook(func(s *Synth, buf []float64, stereo *[2]float64) { calls++ })
	mix := capture(e)
	out := make([]float32, 2*testChunk)
	e.Render(out)
	e.Render(out)
	m := *mix
	if m[0] != 1 || m[1] != .5 {
		t.Errorf("expected (1, .5), got (%g, %g)", m[0], m[1])
	}
	if calls != 2 {
		t.Errorf("expected engine hook called once per chunk, got %d", calls)
	}
}

func TestMono(t *testing.T) {
	e := newTestEngine(1)
	s := constSynth(e, .5)
	s.SetPan(1)
	mix := capture(e)
	out := make([]float32, testChunk)
	e.Render(out)
	e.Render(out)
	for i, x := range *mix {
		if x != .25 {
			t.Fatalf("sample %d: expected .25, got %g", i, x)
		}
	}
}

func TestPostNormalizeHook(t *testing.T) {
	e := newTestEngine(2)
	constSynth(e, 4)
	var final []float32
	e.SetPostNormalizeHook(func(buf []float32) { final = append(final[:0], buf...) })
	out := make([]float32, 2*testChunk)
	for i := 0; i < 10; i++ {
		e.Render(out)
	}
	for i := range out {
		if out[i] != final[i] {
			t.Fatalf("sample %d: hook saw %g, device got %g", i, final[i], out[i])
		}
		if math.Abs(float64(out[i])) > 1 {
			t.Fatalf("sample %d: %g not normalized", i, out[i])
		}
	}
}

func TestLargerChunkThanBufferSize(t *testing.T) {
	e := newTestEngine(2)
	constSynth(e, .5)
	mix := capture(e)
	e.Render(make([]float32, 8*testChunk))
	if len(*mix) != 8*testChunk {
		t.Errorf("expected %d samples, got %d", 8*testChunk, len(*mix))
	}
}

func TestConcurrentMutation(t *testing.T) {
	e := newTestEngine(2)
	s := e.NewSynth()
	_, freq := s.Control("freq", 220)
	trig := s.Trigger("hit")
	s.SetOutput(s.Multiply(s.Sine(freq, Const(0)), s.Fade(Const(.1), trig)))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.SetControl("freq", float64(100+i), .01)
			s.TripTrigger("hit")
			s.SetGain(float64(i%2) / 2)
			s.Add(freq, Const(1))
			constSynth(e, .1).RequestDeletion()
			e.Update()
		}
	}()
	out := make([]float32, 2*testChunk)
	for i := 0; i < 200; i++ {
		e.Render(out)
	}
	wg.Wait()
}

func BenchmarkRender(b *testing.B) {
	e := newTestEngine(2)
	for i := 0; i < 8; i++ {
		s := e.NewSynth()
		s.SetOutput(s.Multiply(s.Saw(Const(110*float64(i+1)), Const(0)), s.Fade(Const(1), GlobalTrigger)))
	}
	out := make([]float32, 2*testChunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Render(out)
	}
}

func TestEmptyRender(t *testing.T) {
	e := newTestEngine(2)
	s := constSynth(e, .5)
	out := make([]float32, 2*testChunk)
	e.Render(out)
	s.RequestDeletion()
	e.Render(nil)
	e.Render(make([]float32, 1))
	if st := s.State(); st != DeletionRequested {
		t.Fatalf("expected empty chunks to leave the fade pending, got %s", st)
	}
	if g := s.Gain(); g != 1 {
		t.Fatalf("expected gain 1, got %g", g)
	}
	mix := capture(e)
	e.Render(out)
	if m := *mix; m[0] != .5 || math.IsNaN(float64(m[len(m)-2])) {
		t.Errorf("expected an audible fade from .5, got %g to %g", m[0], m[len(m)-2])
	}
	if st := s.State(); st != DeletionScheduled {
		t.Errorf("expected deletion scheduled after the fade, got %s", st)
	}
}
