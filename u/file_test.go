package u

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")

	require.False(t, PathExists(path))
	require.False(t, FileExists(path))
	require.Equal(t, int64(-1), FileSize(path))

	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))
	require.True(t, PathExists(path))
	require.True(t, FileExists(path))
	require.Equal(t, int64(5), FileSize(path))

	require.True(t, PathExists(dir))
	require.False(t, FileExists(dir))
}
