package midi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// A Reader parses messages from a byte stream on its own goroutine (Run)
// and queues them for Poll.
type Reader struct {
	rc io.ReadCloser

	closeOnce sync.Once
	closeErr  error

	mu    sync.Mutex
	queue []Message
	head  int
}

// Open opens a raw MIDI device or file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("midi: %w", err)
	}
	return NewReader(f), nil
}

func NewReader(rc io.ReadCloser) *Reader {
	return &Reader{rc: rc}
}

// Run reads until the stream ends, ctx is cancelled or the Reader is
// closed.  Only read errors are returned.
func (r *Reader) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer stop()

	var p parser
	buf := make([]byte, 256)
	for {
		n, err := r.rc.Read(buf)
		for _, c := range buf[:n] {
			raw, ok := p.feed(c)
			if !ok {
				continue
			}
			if msg, ok := classify(raw); ok {
				r.push(msg)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("midi: %w", err)
		}
	}
}

func (r *Reader) push(msg Message) {
	r.mu.Lock()
	if r.head > 0 && r.head == len(r.queue) {
		r.queue, r.head = r.queue[:0], 0
	}
	r.queue = append(r.queue, msg)
	r.mu.Unlock()
}

// Poll returns the oldest queued message, if any.
func (r *Reader) Poll() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.head == len(r.queue) {
		return Message{}, false
	}
	msg := r.queue[r.head]
	r.head++
	return msg, true
}

func (r *Reader) Close() error {
	r.closeOnce.Do(func() { r.closeErr = r.rc.Close() })
	return r.closeErr
}
