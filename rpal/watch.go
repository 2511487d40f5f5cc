package rpal

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch re-runs run every time path is written to disk, until the caller's
// stop channel closes or an unrecoverable watcher error occurs (§4.10). This
// is file-triggered batch re-execution, not a REPL: there is no stdin
// command loop and no persistent machine state between runs — each trigger
// is a fresh LoadSource/Parse/Standardize/BuildControl/Run, same as a single
// non-watch invocation, just looped.
func Watch(path string, stop <-chan struct{}, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	run()
	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println("watch error:", err)
		}
	}
}
