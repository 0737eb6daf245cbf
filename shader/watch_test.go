package shader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "smear.frag")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	w, err := NewWatcher(watched)
	require.NoError(t, err)
	defer w.Close()

	assert.Empty(t, w.Changed())

	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("c"), 0o644))

	abs, err := filepath.Abs(watched)
	require.NoError(t, err)

	var got []string
	assert.Eventually(t, func() bool {
		got = append(got, w.Changed()...)
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)
	for _, p := range got {
		assert.Equal(t, abs, p)
	}
	assert.Empty(t, w.Errors())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "x.frag"))
	assert.Error(t, err)
}
