package initdata

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher keeps the latest contents of a payload file in memory and reloads
// it whenever the file changes on disk. Hosts that rotate the launch payload
// by rewriting a file use this instead of File to avoid a read per request.
type Watcher struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration
	onChange func(present bool)

	mu      sync.RWMutex
	payload string

	fs   *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle before
// re-reading the file.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnChange registers a callback run after every reload.
func WithOnChange(fn func(present bool)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// NewWatcher loads path once and starts watching its directory. The file does
// not need to exist yet.
func NewWatcher(path string, logger *slog.Logger, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve init data path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	// Watch the directory so atomic replace-by-rename is observed too.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		logger:   logger,
		debounce: defaultDebounce,
		fs:       fsw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	w.reload()
	go w.run()

	return w, nil
}

// Retrieve returns the payload from the most recent reload.
func (w *Watcher) Retrieve(context.Context) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.payload, w.payload != ""
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("init data watcher error", "path", w.path, "err", err)
		}
	}
}

func relevant(e fsnotify.Event) bool {
	return e.Has(fsnotify.Write) || e.Has(fsnotify.Create) ||
		e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	payload, present := readPayload(w.path)

	w.mu.Lock()
	changed := payload != w.payload
	w.payload = payload
	w.mu.Unlock()

	if changed {
		w.logger.Debug("init data reloaded", "path", w.path, "present", present)
	}
	if w.onChange != nil {
		w.onChange(present)
	}
}
