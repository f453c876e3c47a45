package synth

import (
	"math"
	"sync"
)

// A Meter tracks the RMS level over a sliding window and the peak level of
// rendered output.  Write is meant to be installed as a BufferHook.
type Meter struct {
	windowSize float64

	mu   sync.Mutex
	buf  []float64
	i    int
	sum  float64
	peak float64
}

func NewMeter(windowSize float64) *Meter {
	return &Meter{windowSize: windowSize}
}

func (m *Meter) InitAudio(p Params) {
	p = p.withDefaults()
	n := int(p.SampleRate * m.windowSize * float64(p.Channels))
	if n < 1 {
		n = 1
	}
	m.mu.Lock()
	m.buf = make([]float64, n)
	m.i, m.sum, m.peak = 0, 0, 0
	m.mu.Unlock()
}

func (m *Meter) Write(x []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range x {
		sq := float64(x) * float64(x)
		m.sum += sq - m.buf[m.i]
		m.buf[m.i] = sq
		m.i = (m.i + 1) % len(m.buf)
		m.peak = math.Max(m.peak, math.Abs(float64(x)))
	}
}

func (m *Meter) RMS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return math.Sqrt(math.Max(0, m.sum) / float64(len(m.buf)))
}

// Peak returns the largest absolute sample seen since the last call.
func (m *Meter) Peak() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.peak
	m.peak = 0
	return p
}
