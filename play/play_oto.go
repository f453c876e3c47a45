//go:build oto

package play

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoBackend struct {
	player *oto.Player
}

func open(r Renderer, cfg Config) (backend, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(float64(cfg.FramesPerBuffer) / cfg.SampleRate * float64(time.Second)),
	})
	if err != nil {
		return nil, fmt.Errorf("play: creating oto context: %w", err)
	}
	<-ready
	p := ctx.NewPlayer(newReader(r, cfg))
	p.Play()
	return &otoBackend{p}, nil
}

func (b *otoBackend) close() error {
	return b.player.Close()
}
