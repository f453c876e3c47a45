package script

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watch sends on changed, without blocking, whenever the file at path is
// written, created or renamed into place.  Bursts of events within 100ms
// are reported once.  Watch returns when ctx is cancelled.
func Watch(ctx context.Context, path string, changed chan<- struct{}) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	defer w.Close()
	// Editors often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("script: watching %s: %w", path, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == path && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Println("script: watch:", err)
		case <-timer.C:
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}
}
