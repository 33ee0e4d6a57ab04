package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "kv.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestLoadOrCreateSecret_CreatesThenReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "device.key")

	first, err := LoadOrCreateSecret(path, 32)
	require.NoError(t, err)
	require.Len(t, first, 32)

	second, err := LoadOrCreateSecret(path, 32)
	require.NoError(t, err)
	require.Equal(t, first, second)

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestLoadOrCreateSecret_EmptyFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := LoadOrCreateSecret(path, 32)
	require.Error(t, err)
}

func TestLoadOrCreateSecret_UnreadablePath(t *testing.T) {
	dir := t.TempDir()

	// a directory cannot be read as a file
	_, err := LoadOrCreateSecret(dir, 32)
	require.Error(t, err)
}
