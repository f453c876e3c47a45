//go:build !oto

package play

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type portaudioBackend struct {
	stream *portaudio.Stream
}

func open(r Renderer, cfg Config) (backend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("play: initializing portaudio: %w", err)
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("play: %w", err)
	}
	if dev.MaxOutputChannels < cfg.Channels {
		portaudio.Terminate()
		return nil, ErrNoStereo
	}
	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, cfg.SampleRate, cfg.FramesPerBuffer, r.Render)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("play: opening stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("play: starting stream: %w", err)
	}
	return &portaudioBackend{stream}, nil
}

func (b *portaudioBackend) close() error {
	err := b.stream.Close()
	if err2 := portaudio.Terminate(); err == nil {
		err = err2
	}
	return err
}
