package main

import (
	"os"

	"golang.org/x/term"
)

// readKeys puts the terminal in raw mode and returns the bytes typed.  If
// stdin is not a terminal no keys are ever sent.
func readKeys() (<-chan byte, func()) {
	keys := make(chan byte)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return keys, func() {}
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		logger.Warn("keyboard input disabled", "err", err)
		return keys, func() {}
	}
	stderr.setRaw(true)
	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buf); err != nil {
				return
			}
			keys <- buf[0]
		}
	}()
	return keys, func() {
		stderr.setRaw(false)
		term.Restore(fd, old)
	}
}
