package synth

import (
	"math"
	"testing"
)

func TestMeter(t *testing.T) {
	m := NewMeter(.01)
	m.InitAudio(Params{SampleRate: 1000, Channels: 1})
	buf := make([]float32, 10)
	for i := range buf {
		buf[i] = .5
	}
	buf[3] = -.8
	m.Write(buf)

	want := math.Sqrt((9*.25 + .64) / 10)
	if rms := m.RMS(); math.Abs(rms-want) > 1e-6 {
		t.Errorf("expected RMS %g, got %g", want, rms)
	}
	if p := m.Peak(); math.Abs(p-.8) > 1e-6 {
		t.Errorf("expected peak .8, got %g", p)
	}
	if p := m.Peak(); p != 0 {
		t.Errorf("expected peak reset after reading, got %g", p)
	}

	for i := range buf {
		buf[i] = 0
	}
	m.Write(buf)
	if rms := m.RMS(); rms > 1e-6 {
		t.Errorf("expected RMS to fall to 0 once the window passes, got %g", rms)
	}
}
