package batch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPath(t *testing.T) {
	t.Run("preserves relative directory structure", func(t *testing.T) {
		got, err := MapPath(
			filepath.Join("src"),
			filepath.Join("out"),
			filepath.Join("src", "a", "b", "x.png"),
		)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("out", "a", "b", "x.webp"), got)
	})

	t.Run("file directly under the root", func(t *testing.T) {
		got, err := MapPath("src", "out", filepath.Join("src", "c.png"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("out", "c.webp"), got)
	})

	t.Run("only the final extension is replaced", func(t *testing.T) {
		got, err := MapPath("src", "out", filepath.Join("src", "archive.v2.png"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("out", "archive.v2.webp"), got)
	})

	t.Run("uppercase source extension maps to lowercase webp", func(t *testing.T) {
		got, err := MapPath("src", "out", filepath.Join("src", "a", "c.PNG"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("out", "a", "c.webp"), got)
	})

	t.Run("rejects files outside the source root", func(t *testing.T) {
		_, err := MapPath(filepath.Join("src"), "out", filepath.Join("elsewhere", "x.png"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("rejects the root itself", func(t *testing.T) {
		_, err := MapPath("src", "out", "src")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		first, err := MapPath("src", "out", filepath.Join("src", "a", "x.png"))
		require.NoError(t, err)
		second, err := MapPath("src", "out", filepath.Join("src", "a", "x.png"))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
