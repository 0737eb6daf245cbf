package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to shader files. Directories are watched rather than
// files so editors that save by rename are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	errs    []error
}

// NewWatcher watches paths for writes, creates and renames.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{watcher: fw, files: make(map[string]struct{})}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Changed drains pending events without blocking and returns the watched files
// that were modified, each at most once.
func (w *Watcher) Changed() []string {
	var changed []string
	seen := make(map[string]struct{})
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return changed
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[abs]; !ok {
				continue
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			changed = append(changed, abs)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return changed
			}
			w.errs = append(w.errs, err)
		default:
			return changed
		}
	}
}

// Errors returns and clears the watcher errors collected by Changed.
func (w *Watcher) Errors() []error {
	errs := w.errs
	w.errs = nil
	return errs
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
