//go:build unit

package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAdapter(t *testing.T) {
	adapter := NewManagerAdapter()
	dir := t.TempDir()

	t.Run("WriteAndReadFile", func(t *testing.T) {
		path := filepath.Join(dir, "orange-box.conf")
		require.NoError(t, adapter.WriteFile(path, []byte("orangebox_number=28\n"), 0644))

		data, err := adapter.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "orangebox_number=28\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("ReadMissingFile", func(t *testing.T) {
		_, err := adapter.ReadFile(filepath.Join(dir, "missing"))
		assert.Error(t, err)
	})

	t.Run("FileExists", func(t *testing.T) {
		path := filepath.Join(dir, "exists")
		assert.False(t, adapter.FileExists(path))

		require.NoError(t, adapter.WriteFile(path, []byte("x"), 0644))
		assert.True(t, adapter.FileExists(path))
	})

	t.Run("Glob", func(t *testing.T) {
		for _, name := range []string{"a.deb", "b.deb", "c.txt"} {
			require.NoError(t, adapter.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
		}

		matches, err := adapter.Glob(filepath.Join(dir, "*.deb"))
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("BadGlobPattern", func(t *testing.T) {
		_, err := adapter.Glob("[")
		assert.Error(t, err)
	})
}
