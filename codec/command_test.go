package codec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	t.Run("splits quoted arguments", func(t *testing.T) {
		args, err := SplitCommand(`cwebp -q ${QUALITY} "${INPUT}" -o "${OUTPUT}"`)
		require.NoError(t, err)
		assert.Equal(t, []string{"cwebp", "-q", "${QUALITY}", "${INPUT}", "-o", "${OUTPUT}"}, args)
	})

	t.Run("rejects unbalanced quotes", func(t *testing.T) {
		_, err := SplitCommand(`cwebp "${INPUT}`)
		assert.Error(t, err)
	})
}

func TestValidateArgs(t *testing.T) {
	t.Run("accepts a complete template", func(t *testing.T) {
		args := []string{"cwebp", "-q", "${QUALITY}", "${INPUT}", "-o", "${OUTPUT}"}
		assert.NoError(t, ValidateArgs(args))
	})

	t.Run("requires the input placeholder", func(t *testing.T) {
		err := ValidateArgs([]string{"cwebp", "-o", "${OUTPUT}"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "${INPUT}")
	})

	t.Run("requires the output placeholder", func(t *testing.T) {
		err := ValidateArgs([]string{"cwebp", "${INPUT}"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "${OUTPUT}")
	})

	t.Run("rejects shell metacharacters", func(t *testing.T) {
		err := ValidateArgs([]string{"cwebp", "${INPUT}", "${OUTPUT}", "$(rm -rf /)"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disallowed character")
	})

	t.Run("rejects metacharacters riding along with a placeholder", func(t *testing.T) {
		err := ValidateArgs([]string{"cwebp", "${INPUT};rm", "-o", "${OUTPUT}"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disallowed character")
	})

	t.Run("accepts placeholders embedded in flag arguments", func(t *testing.T) {
		args := []string{"cwebp", "-q=${QUALITY}", "${INPUT}", "-o", "${OUTPUT}"}
		assert.NoError(t, ValidateArgs(args))
	})

	t.Run("rejects an empty command", func(t *testing.T) {
		assert.Error(t, ValidateArgs(nil))
	})
}

func TestNewExternal(t *testing.T) {
	t.Run("rejects a binary that is not in PATH", func(t *testing.T) {
		_, err := NewExternal("definitely-not-a-real-codec ${INPUT} ${OUTPUT}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found in PATH")
	})

	t.Run("rejects an invalid template before looking up the binary", func(t *testing.T) {
		_, err := NewExternal("cwebp ${INPUT}")
		assert.Error(t, err)
	})
}

func TestExternalConvert(t *testing.T) {
	t.Run("successful command", func(t *testing.T) {
		ext, err := NewExternal("true ${INPUT} ${OUTPUT} ${QUALITY}")
		require.NoError(t, err)

		err = ext.Convert(context.Background(), "in.png", filepath.Join(t.TempDir(), "out.webp"), 85)
		assert.NoError(t, err)
	})

	t.Run("failing command surfaces an error", func(t *testing.T) {
		ext, err := NewExternal("false ${INPUT} ${OUTPUT}")
		require.NoError(t, err)

		err = ext.Convert(context.Background(), "in.png", filepath.Join(t.TempDir(), "out.webp"), 85)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "codec command failed")
	})
}
