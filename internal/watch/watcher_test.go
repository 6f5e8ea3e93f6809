package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
)

func newTestWatcher(t *testing.T) (*Watcher, *notify.Center) {
	t.Helper()
	center := notify.NewCenter(time.Minute, zap.NewNop())
	t.Cleanup(center.Close)
	w := NewWatcher(center, zap.NewNop())
	w.quiet = 50 * time.Millisecond
	t.Cleanup(w.Stop)
	return w, center
}

func hasWarning(center *notify.Center) bool {
	for _, n := range center.Active() {
		if n.Type == notify.TypeWarning {
			return true
		}
	}
	return false
}

func TestWatcher_WarnsOnExternalChange(t *testing.T) {
	w, center := newTestWatcher(t)

	dir := t.TempDir()
	require.NoError(t, w.Watch(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.pdf"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		return hasWarning(center)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_SuppressBrieflyMutesOwnRename(t *testing.T) {
	w, center := newTestWatcher(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "old.pdf")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, w.Watch(dir))

	w.SuppressBriefly()
	require.NoError(t, os.Rename(src, filepath.Join(dir, "new.pdf")))

	time.Sleep(2 * w.quiet)
	assert.False(t, hasWarning(center))
}

func TestWatcher_StopEndsWatch(t *testing.T) {
	w, center := newTestWatcher(t)

	dir := t.TempDir()
	require.NoError(t, w.Watch(dir))
	w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.pdf"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, hasWarning(center))
}
