package settings

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after a file event before the reload
// callback fires. Editors write in bursts; one reload per burst is enough.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads settings when the file changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the given settings file.
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		log:      logger.With("component", "settings.watcher"),
	}
}

// Watch blocks until the context is cancelled, invoking onReload after each
// debounced change to the settings file. A failing reload is logged and
// watching continues; the previous configuration stays in effect.
//
// The parent directory is watched rather than the file itself so atomic
// save-and-rename editors do not silently detach the watch.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("settings watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %q: %w", dir, err)
	}
	w.log.Info("watching settings file", "path", w.path)

	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("settings watch error", "error", err)

		case <-reload:
			w.log.Debug("settings file changed, reloading")
			if err := onReload(); err != nil {
				w.log.Error("settings reload failed, keeping previous configuration", "error", err)
			}
		}
	}
}
