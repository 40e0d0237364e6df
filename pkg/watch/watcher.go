// Package watch re-runs analysis when Python files change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/svergne/pyscope/pkg/config"
)

// DefaultDebounce is how long a file must stay quiet before its
// change callback fires. Editors often emit bursts of write events.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes a directory tree and invokes a callback for
// changed Python files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cfg      *config.Config
	debounce time.Duration
	onChange func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher calling onChange for each changed .py file.
func New(cfg *config.Config, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fw,
		cfg:      cfg,
		debounce: debounce,
		onChange: onChange,
		pending:  map[string]*time.Timer{},
	}, nil
}

// Close stops the watcher and cancels pending callbacks.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = map[string]*time.Timer{}
	w.mu.Unlock()
	return w.watcher.Close()
}

// Watch blocks processing events under root until the context is
// cancelled. Directories created while watching are added on the fly.
func (w *Watcher) Watch(ctx context.Context, root string) error {
	if err := w.addRecursive(root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("watching %s: %w", root, err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// New directories join the watch set.
			_ = w.addRecursive(event.Name)
			return
		}
	}
	if filepath.Ext(event.Name) != ".py" || w.cfg.ShouldExclude(event.Name) {
		return
	}
	w.schedule(event.Name)
}

// schedule arms (or re-arms) the debounce timer for a path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.onChange(path)
	})
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		for _, dir := range w.cfg.Exclude.Dirs {
			if d.Name() == dir {
				return filepath.SkipDir
			}
		}
		return w.watcher.Add(path)
	})
}
