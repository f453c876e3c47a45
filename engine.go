package synth

import (
	"sync"
)

// A BufferHook sees an interleaved output buffer during rendering.
type BufferHook func(buf []float32)

// An Engine owns every live synth and mixes them into the output.  Synths
// are removed only by Update, never while rendering.
type Engine struct {
	params Params

	mu     sync.Mutex
	synths []*Synth

	// render state, touched only by Render
	dsp          engineDSP
	playing      []*Synth
	intermediate []float64

	hookMu        sync.Mutex
	postProcess   BufferHook
	postNormalize BufferHook
	synthHook     SynthHook
}

type engineDSP struct {
	Tables     Wavetables
	Normalizer Normalizer
}

func NewEngine(p Params) *Engine {
	e := &Engine{}
	e.InitAudio(p)
	return e
}

func (e *Engine) InitAudio(p Params) {
	p = p.withDefaults()
	e.params = p
	Init(&e.dsp, p)
	e.intermediate = make([]float64, p.BufferSize)
	e.playing = make([]*Synth, 0, 16)
}

func (e *Engine) Params() Params { return e.params }

// NewSynth registers an empty synth.  It starts playing once it has an
// output node.
func (e *Engine) NewSynth() *Synth {
	s := newSynth(&e.dsp.Tables, 1/e.params.SampleRate)
	e.mu.Lock()
	e.synths = append(e.synths, s)
	e.mu.Unlock()
	return s
}

// Synth returns the i'th live synth, or nil.
func (e *Engine) Synth(i int) *Synth {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.synths) {
		return nil
	}
	return e.synths[i]
}

func (e *Engine) Synths() []*Synth {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Synth(nil), e.synths...)
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.synths)
}

// DestroyAll requests deletion of every synth.
func (e *Engine) DestroyAll() {
	for _, s := range e.Synths() {
		s.RequestDeletion()
	}
}

// Update removes synths that have finished fading out.  It must not be
// called from the audio callback.
func (e *Engine) Update() (removed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	live := e.synths[:0]
	for _, s := range e.synths {
		if s.State() == DeletionScheduled {
			removed++
			continue
		}
		live = append(live, s)
	}
	for i := len(live); i < len(e.synths); i++ {
		e.synths[i] = nil
	}
	e.synths = live
	return removed
}

// SetPostProcessHook sets a hook that sees the mix before normalization.
func (e *Engine) SetPostProcessHook(h BufferHook) {
	e.hookMu.Lock()
	e.postProcess = h
	e.hookMu.Unlock()
}

// SetPostNormalizeHook sets a hook that sees the final output, e.g. for
// recording.
func (e *Engine) SetPostNormalizeHook(h BufferHook) {
	e.hookMu.Lock()
	e.postNormalize = h
	e.hookMu.Unlock()
}

// SetSynthPostProcessHook sets a hook applied to every synth's chunk after
// the synth's own post-process hook.
func (e *Engine) SetSynthPostProcessHook(h SynthHook) {
	e.hookMu.Lock()
	e.synthHook = h
	e.hookMu.Unlock()
}

// Render fills out, which holds interleaved frames for Params.Channels
// channels, with the normalized mix of every playing synth.  It is the only
// method called by the audio device.
func (e *Engine) Render(out []float32) {
	for i := range out {
		out[i] = 0
	}
	ch := e.params.Channels
	frames := len(out) / ch
	if frames == 0 {
		return
	}
	if frames > len(e.intermediate) {
		e.intermediate = make([]float64, frames)
	}
	buf := e.intermediate[:frames]

	e.hookMu.Lock()
	postProcess, postNormalize, synthHook := e.postProcess, e.postNormalize, e.synthHook
	e.hookMu.Unlock()

	e.mu.Lock()
	e.playing = append(e.playing[:0], e.synths...)
	e.mu.Unlock()

	for i, s := range e.playing {
		s.mix(buf, out, ch, synthHook)
		e.playing[i] = nil
	}

	if postProcess != nil {
		postProcess(out)
	}
	e.dsp.Normalizer.Process(out)
	if postNormalize != nil {
		postNormalize(out)
	}
}
