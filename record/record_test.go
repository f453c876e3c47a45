package record

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	r, err := Create(path, 48000, 2)
	if err != nil {
		t.Fatal(err)
	}
	buf := []float32{.5, -.5, 1, -1, 2, -2, 0, 0}
	for i := 0; i < 3; i++ {
		r.Hook(buf)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if n := r.Frames(); n != 12 {
		t.Errorf("expected 12 frames, got %d", n)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	const frames = 12
	if len(data) != 44+frames*4 {
		t.Fatalf("expected %d bytes, got %d", 44+frames*4, len(data))
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad header %q", data[:12])
	}
	if n := binary.LittleEndian.Uint32(data[40:44]); n != frames*4 {
		t.Errorf("expected data size %d, got %d", frames*4, n)
	}
	if n := binary.LittleEndian.Uint32(data[4:8]); n != 36+frames*4 {
		t.Errorf("expected RIFF size %d, got %d", 36+frames*4, n)
	}
	if n := binary.LittleEndian.Uint16(data[22:24]); n != 2 {
		t.Errorf("expected 2 channels, got %d", n)
	}
	for i, want := range []int16{16383, -16383, 32767, -32767, 32767, -32767, 0, 0} {
		if got := int16(binary.LittleEndian.Uint16(data[44+2*i:])); got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestDrop(t *testing.T) {
	r, err := Create(filepath.Join(t.TempDir(), "out.wav"), 48000, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	buf := make([]float32, 16)
	for i := 0; i < queueLen+3; i++ {
		r.Hook(buf)
	}
	if n := r.Dropped(); n != 3 {
		t.Errorf("expected 3 dropped buffers, got %d", n)
	}
}

func TestChannels(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "out.wav"), 48000, 6); err == nil {
		t.Error("expected error for 6 channels")
	}
}

func TestFramesWhileRunning(t *testing.T) {
	r, err := Create(filepath.Join(t.TempDir(), "out.wav"), 48000, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { r.Run(ctx); close(done) }()
	defer func() { cancel(); <-done }()

	r.Hook(make([]float32, 8))
	deadline := time.Now().Add(5 * time.Second)
	for r.Frames() != 4 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 4 frames, got %d", r.Frames())
		}
		time.Sleep(time.Millisecond)
	}
}

func BenchmarkHook(b *testing.B) {
	r, err := Create(filepath.Join(b.TempDir(), "out.wav"), 48000, 2)
	if err != nil {
		b.Fatal(err)
	}
	defer r.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { r.Run(ctx); close(done) }()
	buf := make([]float32, 512)
	for i := 0; i < b.N; i++ {
		r.Hook(buf)
	}
	cancel()
	<-done
}
