// Package play connects a Renderer to the default audio output device.
//
// The portaudio backend is used by default; build with -tags oto to use
// github.com/ebitengine/oto/v3 instead.
package play

import (
	"encoding/binary"
	"errors"
	"log"
	"math"
	"sync"
)

// A Renderer fills interleaved output buffers.  Render is called from the
// device's callback and must not block.
type Renderer interface {
	Render(out []float32)
}

type Config struct {
	SampleRate      float64
	FramesPerBuffer int
	Channels        int
}

func (c Config) withDefaults() Config {
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.FramesPerBuffer == 0 {
		c.FramesPerBuffer = 256
	}
	if c.Channels != 1 {
		c.Channels = 2
	}
	return c
}

// ErrNoStereo is returned by Start when the default output device cannot
// provide the requested number of channels.
var ErrNoStereo = errors.New("play: default output device has too few channels")

type backend interface {
	close() error
}

type Player struct {
	cfg Config

	once    sync.Once
	backend backend
	err     error
}

// Start opens the default output device and begins calling r.Render.
func Start(r Renderer, cfg Config) (*Player, error) {
	cfg = cfg.withDefaults()
	b, err := open(r, cfg)
	if err != nil {
		return nil, err
	}
	return &Player{cfg: cfg, backend: b}, nil
}

func (p *Player) Config() Config { return p.cfg }

// Close stops the device.  It is safe to call more than once.
func (p *Player) Close() error {
	p.once.Do(func() {
		p.err = p.backend.close()
		if p.err != nil {
			log.Println(p.err)
		}
	})
	return p.err
}

// A reader adapts a Renderer to the io.Reader of little-endian float32
// samples that pull-based backends consume.
type reader struct {
	r        Renderer
	channels int
	buf      []float32
}

func newReader(r Renderer, cfg Config) *reader {
	return &reader{r: r, channels: cfg.Channels, buf: make([]float32, cfg.FramesPerBuffer*cfg.Channels)}
}

// Read renders whole frames only, so it may return fewer bytes than len(p).
func (r *reader) Read(p []byte) (int, error) {
	n := len(p) / 4 / r.channels * r.channels
	if n > len(r.buf) {
		r.buf = make([]float32, n)
	}
	buf := r.buf[:n]
	r.r.Render(buf)
	putFloat32s(p, buf)
	return 4 * n, nil
}

func putFloat32s(dst []byte, src []float32) {
	for i, x := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(x))
	}
}
