package store

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// watchSettle coalesces editor write bursts (truncate, write, rename)
const watchSettle = 200 * time.Millisecond

// Watcher reloads the store when its file is changed by another process
type Watcher struct {
	store     *Store
	fsWatcher *fsnotify.Watcher
	onChange  func()
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	timer *time.Timer
}

// Watch starts watching the store's directory. onChange runs on the watcher
// goroutine after a reload that changed the document.
func (s *Store) Watch(onChange func()) (*Watcher, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace the file, which drops file watches
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		store:     s,
		fsWatcher: fsWatcher,
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	go w.processEvents()

	log.Debug().Str("path", s.path).Msg("Watching preferences file")
	return w, nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	target := filepath.Clean(w.store.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Preferences watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchSettle, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	changed, err := w.store.Reload()
	if err != nil {
		log.Warn().Err(err).Str("path", w.store.path).Msg("Failed to reload preferences")
		return
	}
	if !changed {
		return
	}

	log.Info().Str("path", w.store.path).Msg("Preferences changed on disk")
	if w.onChange != nil {
		w.onChange()
	}
}
