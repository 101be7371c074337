// Package watch observes the data directory for changes made outside the
// API — a user editing tasks.json by hand, another process, a sync tool —
// and notifies a callback so connected UIs can re-fetch. The storage layer
// itself re-reads on every call; watching is purely a notification concern.
package watch

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher debounces filesystem events on *.json files in a directory and
// invokes notify with the file's base name. Write artifacts (temp files and
// lock files) are ignored.
type Watcher struct {
	dir      string
	debounce time.Duration
	notify   func(file string)
	logger   *slog.Logger

	fw   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir. notify is called from a timer goroutine;
// it must be safe for concurrent use.
func New(dir string, debounce time.Duration, notify func(file string), logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		notify:   notify,
		logger:   logger.With("component", "watcher", "dir", dir),
		fw:       fw,
		done:     make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run consumes filesystem events until Stop is called (call in a goroutine).
func (w *Watcher) Run() {
	w.logger.Info("watching data directory")
	for {
		select {
		case evt, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(evt)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop shuts the watcher down and cancels pending notifications.
func (w *Watcher) Stop() {
	close(w.done)
	w.fw.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = map[string]*time.Timer{}
}

func (w *Watcher) handle(evt fsnotify.Event) {
	if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	name := filepath.Base(evt.Name)
	if !strings.HasSuffix(name, ".json") {
		return
	}
	if strings.Contains(name, ".tmp") || strings.HasSuffix(name, ".lock") {
		return
	}

	// Coalesce the burst of events an atomic write produces (temp create,
	// write, rename) into one notification per file.
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[name]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()

		w.logger.Debug("data file changed", "file", name)
		w.notify(name)
	})
}
