package synth

// deletionGain is the gain a synth being deleted ramps towards over its
// last chunk.  It is below zero so that silence is reached before the end.
const deletionGain = -.1

// mix renders one chunk of s into buf and adds it, panned and gained, into
// the interleaved out.
func (s *Synth) mix(buf []float64, out []float32, channels int, hook SynthHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(buf) == 0 || s.state != Playing && s.state != DeletionRequested {
		return
	}

	for i := range buf {
		buf[i] = s.step()
	}

	s.stereo = [2]float64{1, 1}
	if s.postProcess != nil {
		s.postProcess(s, buf, &s.stereo)
	}
	if hook != nil {
		hook(s, buf, &s.stereo)
	}
	stereo := s.stereo

	n := float64(len(buf))
	pan := s.pan.x
	panStep := (s.pan.target - pan) / n
	gain := s.gain.x
	gainTarget := s.gain.target
	if s.state == DeletionRequested {
		gainTarget = deletionGain
	}
	gainStep := (gainTarget - gain) / n

	j := 0
	for _, x := range buf {
		g := clamp(gain, 0, 1)
		l := x * stereo[0] * clamp(1-pan, 0, 1) * g
		r := x * stereo[1] * clamp(1+pan, 0, 1) * g
		if channels == 1 {
			out[j] += float32((l + r) / 2)
			j++
		} else {
			out[j] += float32(l)
			out[j+1] += float32(r)
			j += channels
		}
		pan += panStep
		gain += gainStep
	}

	s.pan.x = s.pan.target
	s.gain.x = gainTarget
	if s.state == DeletionRequested {
		s.state = DeletionScheduled
	}
}
