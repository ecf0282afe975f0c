package watcher

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-saw-monitor/internal/core/constants"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// DefaultDebounce is the quiet period after the last write before a change
// is reported.
const DefaultDebounce = constants.WatchDebounce

// Change describes a settled modification of the watched logs.
type Change struct {
	Paths       []string // logs touched since the previous change
	Fingerprint string
}

// DatasetWatcher reports changes to the logs of one dataset folder.
type DatasetWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	files    map[string]struct{}
	paths    []string
	debounce time.Duration
	last     string
}

// NewDatasetWatcher watches paths, which must share one directory. The
// directory itself is watched so that logs replaced by rename are seen.
func NewDatasetWatcher(paths []string, debounce time.Duration) (*DatasetWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dw := &DatasetWatcher{
		watcher:  w,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
	}
	for _, p := range paths {
		clean := filepath.Clean(p)
		dw.files[clean] = struct{}{}
		dw.paths = append(dw.paths, clean)
		dw.dir = filepath.Dir(clean)
	}
	sort.Strings(dw.paths)
	if err := w.Add(dw.dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	dw.last = dw.fingerprint()
	return dw, nil
}

// Run blocks until ctx is done, calling onChange once per settled change
// whose fingerprint differs from the previous one. An error from onChange is
// logged and watching continues.
func (dw *DatasetWatcher) Run(ctx context.Context, onChange func(Change) error) error {
	timer := time.NewTimer(dw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if _, watched := dw.files[name]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			util.LogDebugf("Dataset event: %s %s", event.Op, name)
			pending[name] = struct{}{}
			timer.Reset(dw.debounce)

		case <-timer.C:
			fp := dw.fingerprint()
			if fp == dw.last {
				util.LogDebug("Dataset fingerprint unchanged, skipping reload")
				pending = make(map[string]struct{})
				continue
			}
			dw.last = fp
			change := Change{Fingerprint: fp}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			sort.Strings(change.Paths)
			pending = make(map[string]struct{})
			if err := onChange(change); err != nil {
				util.LogErrorf("Reload after change failed: %v", err)
			}

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return nil
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Close stops watching.
func (dw *DatasetWatcher) Close() error {
	return dw.watcher.Close()
}

func (dw *DatasetWatcher) fingerprint() string {
	return util.DatasetFingerprint(dw.paths...)
}
