package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates empty files at the given relative paths under root,
// making parent directories as needed.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("stub"), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	t.Run("matches png case-insensitively and ignores the rest", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"a/b/x.png",
			"a/c.PNG",
			"a/d.Png",
			"readme.txt",
			"a/b/notes.md",
			"a/pngnot.jpg",
		)

		files, err := Discover(root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a", "b", "x.png"),
			filepath.Join(root, "a", "c.PNG"),
			filepath.Join(root, "a", "d.Png"),
		}, files)
	})

	t.Run("empty tree yields no files", func(t *testing.T) {
		files, err := Discover(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("order is deterministic across calls", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "z.png", "a.png", "m/n.png")

		first, err := Discover(root)
		require.NoError(t, err)
		second, err := Discover(root)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, first, 3)
	})

	t.Run("missing root is an error", func(t *testing.T) {
		_, err := Discover(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
