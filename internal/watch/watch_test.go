package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsMotionFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	path := filepath.Join(dir, "wave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("motion: []\n"), 0o644))

	var got string
	require.Eventually(t, func() bool {
		select {
		case got = <-w.Events:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, got)
}

func TestWatcherMissingDir(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
}
