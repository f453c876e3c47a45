// Package record writes rendered output to a 16-bit PCM WAV file.
package record

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/youpy/go-wav"
)

const queueLen = 64

// A Recorder takes buffers from the audio callback through Hook and writes
// them from its own goroutine (Run).
type Recorder struct {
	f          *os.File
	w          *wav.Writer
	sampleRate uint32
	channels   uint16

	pool    sync.Pool
	blocks  chan *[]float32
	dropped atomic.Int64

	samples []wav.Sample
	frames  atomic.Uint32
}

// Create creates the file at path and writes a provisional header.
func Create(path string, sampleRate float64, channels int) (*Recorder, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("record: unsupported channel count %d", channels)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	r := &Recorder{
		f:          f,
		sampleRate: uint32(sampleRate),
		channels:   uint16(channels),
		blocks:     make(chan *[]float32, queueLen),
	}
	r.pool.New = func() any { return new([]float32) }
	r.w = wav.NewWriter(f, 0, r.channels, r.sampleRate, 16)
	return r, nil
}

// Hook queues a copy of buf.  It never blocks; when the writer falls behind
// the buffer is dropped and counted.
func (r *Recorder) Hook(buf []float32) {
	b := r.pool.Get().(*[]float32)
	*b = append((*b)[:0], buf...)
	select {
	case r.blocks <- b:
	default:
		r.pool.Put(b)
		r.dropped.Add(1)
	}
}

// Dropped returns the number of buffers Hook has had to drop.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() uint32 { return r.frames.Load() }

// Run writes queued buffers until ctx is cancelled, then writes whatever is
// still queued.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case b := <-r.blocks:
			if err := r.write(b); err != nil {
				return err
			}
		case <-ctx.Done():
			for {
				select {
				case b := <-r.blocks:
					if err := r.write(b); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) write(b *[]float32) error {
	ch := int(r.channels)
	r.samples = r.samples[:0]
	for i := 0; i+ch <= len(*b); i += ch {
		var s wav.Sample
		for c := 0; c < ch; c++ {
			s.Values[c] = toInt16((*b)[i+c])
		}
		r.samples = append(r.samples, s)
	}
	r.pool.Put(b)
	if err := r.w.WriteSamples(r.samples); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	r.frames.Add(uint32(len(r.samples)))
	return nil
}

func toInt16(x float32) int {
	switch {
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}
	return int(x * 32767)
}

// Close rewrites the header with the final length and closes the file.  Run
// must have returned.
func (r *Recorder) Close() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		r.f.Close()
		return fmt.Errorf("record: %w", err)
	}
	wav.NewWriter(r.f, r.frames.Load(), r.channels, r.sampleRate, 16)
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}
