// FILE: src/internal/sink/file_test.go
package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fanlog/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestFileDeliverer(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesDirectoryAndAppends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "app.log")
		f, err := NewFileDeliverer(path, newTestLogger())
		require.NoError(t, err)
		assert.Equal(t, core.File, f.Kind())

		require.NoError(t, f.Open(ctx))
		require.NoError(t, f.Deliver(ctx, "one\n"))
		require.NoError(t, f.Deliver(ctx, "two\n"))
		require.NoError(t, f.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", string(data))
	})

	t.Run("ReopensAfterClose", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

		f, err := NewFileDeliverer(path, nil)
		require.NoError(t, err)
		require.NoError(t, f.Deliver(ctx, "first\n"))
		require.NoError(t, f.Close())
		require.NoError(t, f.Close())
		require.NoError(t, f.Deliver(ctx, "second\n"))
		require.NoError(t, f.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "existing\nfirst\nsecond\n", string(data))
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		f, err := NewFileDeliverer(filepath.Join(blocker, "app.log"), nil)
		require.NoError(t, err)
		assert.Error(t, f.Open(ctx))
		assert.Error(t, f.Deliver(ctx, "lost\n"))
	})

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := NewFileDeliverer("  ", nil)
		assert.Error(t, err)
	})
}

func TestDefaultFilePath(t *testing.T) {
	now := time.Date(2024, 3, 7, 14, 5, 9, 0, time.Local)

	path := DefaultFilePath(now)
	assert.True(t, strings.HasSuffix(path, ".log"), path)

	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(exe, filepath.Ext(exe))+".log", path)

	assert.Equal(t, "Unnamed-Log-07-03-2024_14-05-09.log", fallbackFilePath(now))
}
