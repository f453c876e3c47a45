// Command beep plays a saw-wave beep for each key pressed in the terminal.
// Esc or Ctrl-C quits.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/gordonklaus/synth"
	"github.com/gordonklaus/synth/play"
)

func main() {
	p := synth.Params{SampleRate: 48000, BufferSize: 256, Channels: 2}
	e := synth.NewEngine(p)
	pl, err := play.Start(e, play.Config{SampleRate: p.SampleRate, FramesPerBuffer: p.BufferSize, Channels: p.Channels})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer pl.Close()

	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer term.Restore(fd, old)

	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buf); err != nil {
				return
			}
			keys <- buf[0]
		}
	}()

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case k, ok := <-keys:
			if !ok || k == 3 || k == 27 {
				return
			}
			if p, ok := keyPitch[k]; ok {
				beep(e, p)
			}
		case <-tick.C:
			e.Update()
		}
	}
}

func beep(e *synth.Engine, pitch float64) {
	s := e.NewSynth()
	freq := pitchToFreq(pitch)
	env := s.ADSR(synth.Const(.01), synth.Const(.2), synth.Const(.1), synth.Const(.5), synth.Const(1.5), synth.GlobalTrigger)
	saw := s.LowPass(s.Saw(synth.Const(freq), synth.Const(0)), synth.Const(4*freq))
	s.SetOutput(s.Multiply(saw, env))
	s.SetPostProcess(distort)
	s.SetGain(.5)
	time.AfterFunc(2*time.Second, s.RequestDeletion)
}

func distort(s *synth.Synth, buf []float64, stereo *[2]float64) {
	for i, x := range buf {
		y := math.Abs(x) + 1
		y *= y
		buf[i] = math.Copysign((y-1)/y, x)
	}
}

func pitchToFreq(pitch float64) float64 { return 512 * math.Pow(2, pitch/12) }

var keyPitch = map[byte]float64{
	'z':  -12,
	's':  -11,
	'x':  -10,
	'd':  -9,
	'c':  -8,
	'v':  -7,
	'g':  -6,
	'b':  -5,
	'h':  -4,
	'n':  -3,
	'j':  -2,
	'm':  -1,
	',':  0,
	'l':  1,
	'.':  2,
	';':  3,
	'/':  4,
	'q':  0,
	'2':  1,
	'w':  2,
	'3':  3,
	'e':  4,
	'r':  5,
	'5':  6,
	't':  7,
	'6':  8,
	'y':  9,
	'7':  10,
	'u':  11,
	'i':  12,
	'9':  13,
	'o':  14,
	'0':  15,
	'p':  16,
	'[':  17,
	'=':  18,
	']':  19,
	'\\': 21,
}
