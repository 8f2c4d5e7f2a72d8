// Package watcher turns file system events under the source directories into
// debounced batches of changed Kotlin files.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/confdoc/internal/logger"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("watcher already started")

// Options configures a Watcher.
type Options struct {
	Dirs       []string      // watched recursively
	Extensions []string      // e.g. ".kt"; empty accepts every file
	Debounce   time.Duration // quiet period before the callback fires
	// Skip reports paths (directories or files) that must not be watched.
	Skip func(path string) bool
}

// Watcher watches source directories and reports changed files in batches.
type Watcher struct {
	fs         *fsnotify.Watcher
	extensions map[string]bool
	debounce   time.Duration
	skip       func(string) bool

	log      logger.Logger
	callback func(files []string)
	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New creates a watcher for the given directories. Directories created later
// are picked up automatically. The watcher logs through the logger in ctx.
func New(ctx context.Context, opts Options) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:         fs,
		extensions: make(map[string]bool, len(opts.Extensions)),
		debounce:   opts.Debounce,
		skip:       opts.Skip,
		log:        logger.FromContext(ctx),
		pending:    make(map[string]bool),
		doneCh:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.skip == nil {
		w.skip = func(string) bool { return false }
	}
	for _, ext := range opts.Extensions {
		w.extensions[ext] = true
	}

	for _, dir := range opts.Dirs {
		if err := w.addRecursive(dir); err != nil {
			fs.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start runs the event loop until ctx is cancelled or Stop is called.
// The callback receives the sorted list of files changed during one quiet period
// and is never invoked concurrently with itself.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}
	if w.cancel != nil {
		return ErrAlreadyStarted
	}

	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)

	go w.loop(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.accepts(event) {
				continue
			}

			w.mu.Lock()
			w.pending[event.Name] = true
			w.mu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	slices.Sort(files)
	w.log.Debug("source files changed", "count", len(files))
	w.callback(files)
}

func (w *Watcher) resetTimer(fire chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// accepts filters events down to writes, creates, renames and removes of watched extensions.
func (w *Watcher) accepts(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.skip(event.Name) {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[filepath.Ext(event.Name)]
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.log.Warn("error accessing path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
}
