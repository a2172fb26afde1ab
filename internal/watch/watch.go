// Package watch reports changes made to the data file by other processes
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/existflow/paperclip/internal/logger"
)

// DefaultDebounce coalesces bursts of writes into one notification
const DefaultDebounce = 150 * time.Millisecond

// Watcher sends on Changes when the watched file is written or replaced
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan struct{}

	mu        sync.Mutex
	mutedTill time.Time
}

// New watches path. The parent directory is watched so atomic
// rename-over-replace saves are seen.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: DefaultDebounce,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes delivers at most one pending notification at a time
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Mute ignores events until the given time; used around our own saves
func (w *Watcher) Mute(until time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mutedTill = until
}

func (w *Watcher) muted(at time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return at.Before(w.mutedTill)
}

// Run processes events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
				continue
			}
			if w.muted(time.Now()) {
				continue
			}
			logger.Debug("Data file changed", logger.F("event", event.Op.String()), logger.F("path", event.Name))
			fire = time.After(w.debounce)
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("File watcher error", logger.F("error", err))
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
