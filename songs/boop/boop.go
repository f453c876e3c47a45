// Command boop plays a drone of sine beats at just-intonation ratios.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gordonklaus/synth"
	"github.com/gordonklaus/synth/play"
)

var (
	seed   = flag.Int64("seed", math.MinInt64, "seed for random phases")
	random = flag.Bool("random", false, "randomly choose seed for random phases")
)

func main() {
	flag.Parse()
	if *random {
		*seed = time.Now().UnixNano()
		fmt.Println("seed =", *seed)
	}
	if *seed != math.MinInt64 {
		*random = true
	}
	rnd := rand.New(rand.NewSource(*seed))

	p := synth.Params{SampleRate: 48000, BufferSize: 512, Channels: 2}
	e := synth.NewEngine(p)
	s := e.NewSynth()
	sum := s.Add(synth.Const(0), synth.Const(0))
	for xy := 1; xy <= 60; xy++ {
		for x := 2; x <= int(math.Sqrt(float64(xy))); x++ {
			if y := xy / x; x*y == xy && relPrime(x, y) {
				x, y, xy := float64(x), float64(y), float64(xy)
				c := math.Exp(-xy * math.Log2(y/x) / 12)
				f := y / x
				phase := 0.0
				if *random {
					phase = rnd.Float64()
				}
				sum = s.Add(sum, sineBeat(s, .5*c, 128*f, 1/xy, phase, .1/f))
			}
		}
	}
	s.SetOutput(sum)

	pl, err := play.Start(e, play.Config{SampleRate: p.SampleRate, FramesPerBuffer: p.BufferSize, Channels: p.Channels})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer pl.Close()
	fmt.Println("Press Enter to stop.")
	fmt.Scanln()
}

func relPrime(x, y int) bool {
	for i := 2; i < x && i < y; i++ {
		if x%i == 0 && y%i == 0 {
			return false
		}
	}
	return true
}

// sineBeat is a sine pulsing with a Gaussian-shaped envelope.
func sineBeat(s *synth.Synth, amp, sineFreq, beatFreq, beatPhase, beatWidth float64) synth.NodeID {
	sine := s.Sine(synth.Const(sineFreq), synth.Const(0))
	return s.Multiply(s.Multiply(sine, synth.Const(amp)), normalOsc(s, beatFreq/2, beatPhase, math.Log(beatWidth)))
}

func normalOsc(s *synth.Synth, freq, phase, width float64) synth.NodeID {
	x := s.Multiply(s.Sine(synth.Const(freq), synth.Const(phase)), synth.Const(width))
	return s.Pow(synth.Const(math.E), s.Negate(s.Multiply(x, x)))
}
