package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ntx-trading/ntxlocale/i18n"
)

// inputWatcher calls onChange once a burst of changes to any of its files
// has settled. Parent directories are watched rather than the files, so
// editors that save by renaming a temp file are noticed too.
//
// onChange returns the files to watch from then on, or nil to keep the
// current set, so targets added to .ntxlocale.yaml are picked up without
// a restart.
type inputWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	onChange func(ctx context.Context) []string
}

// newInputWatcher starts watching the directories of files.
func newInputWatcher(files []string, debounce time.Duration, onChange func(ctx context.Context) []string) (*inputWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	iw := &inputWatcher{
		watcher:  watcher,
		dirs:     make(map[string]bool),
		debounce: debounce,
		onChange: onChange,
	}
	if err := iw.setFiles(files); err != nil {
		watcher.Close()
		return nil, err
	}
	return iw, nil
}

// setFiles replaces the watched files. Directories no longer holding a
// watched file are dropped.
func (iw *inputWatcher) setFiles(files []string) error {
	set := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		set[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if iw.dirs[dir] {
			continue
		}
		if err := iw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		iw.dirs[dir] = true
	}
	for dir := range iw.dirs {
		if !dirs[dir] {
			// The directory may already be gone.
			_ = iw.watcher.Remove(dir)
			delete(iw.dirs, dir)
		}
	}
	iw.files = set
	return nil
}

// Run blocks until ctx is done or the watcher is closed.
func (iw *inputWatcher) Run(ctx context.Context) error {
	defer iw.watcher.Close()

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain the timer

	for {
		select {
		case event, ok := <-iw.watcher.Events:
			if !ok {
				return nil
			}
			if iw.relevant(event) {
				debounceTimer.Reset(iw.debounce)
			}

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return nil
			}
			logWarning(i18n.T("Watcher error: %v"), err)

		case <-debounceTimer.C:
			logInfo(i18n.T("Change detected, rebuilding..."))
			if files := iw.onChange(ctx); files != nil {
				if err := iw.setFiles(files); err != nil {
					logWarning(i18n.T("Watcher error: %v"), err)
				}
			}

		case <-ctx.Done():
			logInfo(i18n.T("Stopped watching"))
			return nil
		}
	}
}

// relevant reports whether event changes one of the watched files.
func (iw *inputWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return iw.files[filepath.Clean(event.Name)]
}
