package script

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the delay used when a Watcher is given none.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a script file whenever it changes.
// The parent directory is watched so editors that replace the file by
// renaming are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching path. Events that happen after NewWatcher
// returns are delivered by Run.
func NewWatcher(path string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", absPath, err)
	}

	return &Watcher{
		path:     absPath,
		debounce: debounce,
		log:      log.Named("script"),
		fsw:      fsw,
	}, nil
}

// Run calls fn with the reloaded script after each burst of changes, until
// ctx is done. A script that fails to load or apply is logged and skipped.
func (w *Watcher) Run(ctx context.Context, fn func(*Script) error) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.reload(fn)
		}
	}
}

// Close stops watching. Run closes the watcher itself when it returns,
// so Close is only needed when Run is never called.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) reload(fn func(*Script) error) {
	s, err := Load(w.path)
	if err != nil {
		w.log.Warn("script not loaded", zap.String("path", w.path), zap.Error(err))
		return
	}
	if err := fn(s); err != nil {
		w.log.Error("script failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.log.Debug("script applied", zap.String("path", w.path), zap.Int("ops", len(s.Ops)))
}
