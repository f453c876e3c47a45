// Command synthplay plays a Lua synth script, reloading it whenever it
// changes.  In a terminal, space trips the global trigger of every synth
// and q or Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gordonklaus/synth"
	"github.com/gordonklaus/synth/midi"
	"github.com/gordonklaus/synth/play"
	"github.com/gordonklaus/synth/record"
	"github.com/gordonklaus/synth/script"
)

var (
	scriptPath = flag.String("script", "scripts/demo.lua", "Lua script to play")
	rate       = flag.Float64("rate", 48000, "sample rate")
	buffer     = flag.Int("buffer", 256, "frames per buffer")
	channels   = flag.Int("channels", 2, "output channels (1 or 2)")
	recordPath = flag.String("record", "", "also write output to this WAV file")
	midiPath   = flag.String("midi", "", "read MIDI from this device, e.g. /dev/midi2")
	spectrum   = flag.Bool("spectrum", false, "log the dominant frequency and level once a second")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

var logger *slog.Logger

var errQuit = errors.New("quit")

func main() {
	flag.Parse()
	initLogger(*debug)
	if err := run(); err != nil {
		logger.Error("synthplay failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := synth.NewEngine(synth.Params{SampleRate: *rate, BufferSize: *buffer, Channels: *channels})
	p := e.Params()
	logger.Info("synthplay starting", "script", *scriptPath, "rate", p.SampleRate, "buffer", p.BufferSize, "channels", p.Channels)

	g, ctx := errgroup.WithContext(ctx)
	var hooks []synth.BufferHook

	if *recordPath != "" {
		rec, err := record.Create(*recordPath, p.SampleRate, p.Channels)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("closing recording", "err", err)
			}
			logger.Info("recorded", "path", *recordPath, "frames", rec.Frames(), "dropped", rec.Dropped())
		}()
		hooks = append(hooks, rec.Hook)
		g.Go(func() error { return rec.Run(ctx) })
	}

	if *spectrum {
		sp, err := synth.NewSpectrum(4096, p)
		if err != nil {
			return err
		}
		m := synth.NewMeter(.3)
		m.InitAudio(p)
		hooks = append(hooks, sp.Write, m.Write)
		g.Go(func() error { return report(ctx, sp, m) })
	}
	e.SetPostNormalizeHook(chain(hooks))

	var midiIn *midi.Reader
	if *midiPath != "" {
		r, err := midi.Open(*midiPath)
		if err != nil {
			return err
		}
		defer r.Close()
		midiIn = r
		g.Go(func() error { return r.Run(ctx) })
	}

	host := script.New(e)
	defer host.Close()
	if err := host.Load(*scriptPath); err != nil {
		logger.Error("loading script", "err", err)
	}
	changed := make(chan struct{}, 1)
	g.Go(func() error { return script.Watch(ctx, *scriptPath, changed) })

	pl, err := play.Start(e, play.Config{SampleRate: p.SampleRate, FramesPerBuffer: p.BufferSize, Channels: p.Channels})
	if err != nil {
		return err
	}
	defer pl.Close()

	keys, restore := readKeys()
	defer restore()

	g.Go(func() error {
		tick := time.NewTicker(time.Millisecond)
		defer tick.Stop()
		last := time.Now()
		var lastErr string
		logErr := func(msg string, err error) {
			if err == nil {
				lastErr = ""
				return
			}
			if err.Error() != lastErr {
				lastErr = err.Error()
				logger.Error(msg, "err", err)
			}
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
				e.DestroyAll()
				if err := host.Load(*scriptPath); err != nil {
					logErr("reloading script", err)
				} else {
					lastErr = ""
					logger.Info("reloaded", "script", *scriptPath)
				}
			case k := <-keys:
				switch k {
				case ' ':
					for _, s := range e.Synths() {
						s.TripTrigger(synth.GlobalTriggerName)
					}
				case 'q', 3, 27:
					return errQuit
				}
			case now := <-tick.C:
				if n := e.Update(); n > 0 {
					logger.Debug("removed synths", "n", n, "live", e.Len())
				}
				for midiIn != nil {
					msg, ok := midiIn.Poll()
					if !ok {
						break
					}
					logger.Debug("midi", "msg", msg)
					logErr("script midi", host.MIDI(msg))
				}
				logErr("script update", host.Update(now.Sub(last).Seconds()))
				last = now
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func chain(hooks []synth.BufferHook) synth.BufferHook {
	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	}
	return func(buf []float32) {
		for _, h := range hooks {
			h(buf)
		}
	}
}

func report(ctx context.Context, sp *synth.Spectrum, m *synth.Meter) error {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			freq, mag := sp.Peak()
			logger.Info("spectrum", "freq", freq, "mag", mag, "rms", m.RMS(), "peak", m.Peak())
		}
	}
}
