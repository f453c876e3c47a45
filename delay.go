package synth

// An Echo repeats a synth's output after a fixed delay, each repeat scaled
// by feedback.  Its Process method is a SynthHook.
type Echo struct {
	delay, feedback float64
	buf             []float64
	i               int
}

func NewEcho(delay, feedback float64) *Echo {
	return &Echo{delay: delay, feedback: feedback}
}

func (e *Echo) InitAudio(p Params) {
	n := int(e.delay * p.SampleRate)
	if n < 1 {
		n = 1
	}
	e.buf = make([]float64, n)
	e.i = 0
}

func (e *Echo) Process(s *Synth, buf []float64, stereo *[2]float64) {
	for i, x := range buf {
		y := e.buf[e.i]
		e.buf[e.i] = x + y*e.feedback
		e.i = (e.i + 1) % len(e.buf)
		buf[i] = x + y
	}
}

// ChainHooks returns a SynthHook that runs hooks in order.
func ChainHooks(hooks ...SynthHook) SynthHook {
	return func(s *Synth, buf []float64, stereo *[2]float64) {
		for _, h := range hooks {
			h(s, buf, stereo)
		}
	}
}
