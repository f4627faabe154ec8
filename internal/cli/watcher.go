package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/internal/utils"
)

// DefaultDebounce is how long the watcher waits for changes to settle
const DefaultDebounce = 300 * time.Millisecond

// Watcher reruns a callback when input files under a set of roots change
type Watcher struct {
	config   Config
	onChange func(context.Context) error
	debounce time.Duration
	logger   *zap.Logger

	watcher   *fsnotify.Watcher
	recursive map[string]bool
	dirFilter utils.DirectoryFilter

	mu    sync.Mutex
	timer *time.Timer

	// held while onChange runs, so a run that starts while another is still
	// going waits for it
	running sync.Mutex
}

// NewWatcher watches the directories named by patterns. Watches are in
// place when it returns.
func NewWatcher(config Config, patterns []string, onChange func(context.Context) error, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to create file watcher", err)
	}

	w := &Watcher{
		config:    config,
		onChange:  onChange,
		debounce:  DefaultDebounce,
		logger:    logger,
		watcher:   fsw,
		recursive: make(map[string]bool),
		dirFilter: utils.DefaultDirectoryFilter(),
	}

	for _, root := range ParseRoots(patterns) {
		dir := root.Path
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		if err := w.add(dir, root.Recursive); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// SetDebounce changes the settle delay
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// add watches dir, and its subdirectories when recursive
func (w *Watcher) add(dir string, recursive bool) error {
	if !recursive {
		if err := w.watcher.Add(dir); err != nil {
			return errors.WrapFileSystemError("watch", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && !w.dirFilter(path, entry) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		w.recursive[path] = true
		w.logger.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

// Run dispatches events until ctx is done. Bursts of changes to input files
// produce a single callback once they settle.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New(errors.FileSystemErrorCode, "watcher events channel closed")
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New(errors.FileSystemErrorCode, "watcher errors channel closed")
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.recursive[filepath.Dir(event.Name)] {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.add(event.Name, true); err != nil {
				w.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !w.config.IsInput(event.Name) || event.Op == fsnotify.Chmod {
		return
	}

	w.logger.Debug("file event", zap.String("op", event.Op.String()), zap.String("file", event.Name))
	w.schedule(ctx)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.running.Lock()
		defer w.running.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := w.onChange(ctx); err != nil {
			w.logger.Debug("change handler failed", zap.Error(err))
		}
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.watcher.Close()
}
