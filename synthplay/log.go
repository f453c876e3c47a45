package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sync"
)

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger) // stdlib log.* now routes through slog
}

var stderr = &crlfWriter{w: os.Stderr}

// A crlfWriter ends lines with CRLF while the terminal is in raw mode.
type crlfWriter struct {
	mu  sync.Mutex
	w   io.Writer
	raw bool
}

func (c *crlfWriter) setRaw(raw bool) {
	c.mu.Lock()
	c.raw = raw
	c.mu.Unlock()
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.raw {
		return c.w.Write(p)
	}
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
