package fetch

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOnce(t *testing.T) {
	t.Parallel()

	t.Run("writes the full body", func(t *testing.T) {
		t.Parallel()
		fpath := filepath.Join(t.TempDir(), "index.html")

		require.NoError(t, writeOnce(fpath, strings.NewReader("<html></html>")))

		data, err := os.ReadFile(fpath)
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", string(data))
	})

	t.Run("failed write leaves no partial file", func(t *testing.T) {
		t.Parallel()
		fpath := filepath.Join(t.TempDir(), "index.html")
		broken := io.MultiReader(strings.NewReader("<html>half"), iotest.ErrReader(errors.New("disk full")))

		err := writeOnce(fpath, broken)

		require.Error(t, err)
		assert.NoFileExists(t, fpath)
	})

	t.Run("existing file is never replaced", func(t *testing.T) {
		t.Parallel()
		fpath := filepath.Join(t.TempDir(), "index.html")
		require.NoError(t, os.WriteFile(fpath, []byte("first"), 0644))

		err := writeOnce(fpath, strings.NewReader("second"))

		require.ErrorIs(t, err, os.ErrExist)
		data, err := os.ReadFile(fpath)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})
}
