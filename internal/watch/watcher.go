package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
)

// defaultQuiet coalesces event bursts so a single copy or save does not
// flood the user with warnings.
const defaultQuiet = 2 * time.Second

// Watcher warns the user when the selected folder's contents change
// while its batch is still under review: renames derived from a stale
// scan may then target vanished files.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	done     chan struct{}
	lastWarn time.Time
	quiet    time.Duration
	center   *notify.Center
	logger   *zap.Logger
}

// NewWatcher creates a watcher that publishes warnings to center.
func NewWatcher(center *notify.Center, logger *zap.Logger) *Watcher {
	return &Watcher{
		quiet:  defaultQuiet,
		center: center,
		logger: logger,
	}
}

// Watch replaces any previous watch with folder.
func (w *Watcher) Watch(folder string) error {
	w.Stop()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(folder); err != nil {
		_ = fsw.Close()
		return err
	}

	done := make(chan struct{})

	w.mu.Lock()
	w.fsw = fsw
	w.done = done
	w.lastWarn = time.Time{}
	w.mu.Unlock()

	w.logger.Debug("Watching folder", zap.String("folder", folder))
	go w.run(fsw, done)
	return nil
}

// Stop ends the current watch, if any.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw := w.fsw
	done := w.done
	w.fsw = nil
	w.done = nil
	w.mu.Unlock()

	if fsw != nil {
		_ = fsw.Close()
	}
	if done != nil {
		<-done
	}
}

func (w *Watcher) run(fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.maybeWarn(ev.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Folder watch error", zap.Error(err))
		}
	}
}

// SuppressBriefly mutes warnings for one quiet interval. Called before
// a rename the app performs itself, which would otherwise be reported
// back to the user as an external change.
func (w *Watcher) SuppressBriefly() {
	w.mu.Lock()
	w.lastWarn = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) maybeWarn(changed string) {
	w.mu.Lock()
	now := time.Now()
	suppressed := now.Sub(w.lastWarn) < w.quiet
	if !suppressed {
		w.lastWarn = now
	}
	w.mu.Unlock()

	if suppressed {
		return
	}
	w.center.Warning("Folder contents changed since the scan: %s", filepath.Base(changed))
}
