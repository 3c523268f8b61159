package render_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/gaurav-prasanna/bookmerge/core/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrinter records the requested URL and writes fixed bytes.
type fakePrinter struct {
	urls     []string
	out      string
	err      error
	deadline bool
	closed   bool
}

func (p *fakePrinter) Print(ctx context.Context, pageURL string, w io.Writer) error {
	p.urls = append(p.urls, pageURL)
	_, p.deadline = ctx.Deadline()
	if p.err != nil {
		return p.err
	}
	_, err := io.WriteString(w, p.out)
	return err
}

func (p *fakePrinter) Close() error {
	p.closed = true
	return nil
}

func TestChromium_Render(t *testing.T) {
	t.Parallel()

	t.Run("prints the file url of the absolute html path", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		htmlPath := filepath.Join(dir, "00_A.html")
		pdfPath := filepath.Join(dir, "00_A.pdf")
		p := &fakePrinter{out: "%PDF-1.4"}
		c := &render.Chromium{Printer: p, Timeout: time.Minute}

		require.NoError(t, c.Render(context.Background(), htmlPath, pdfPath))

		require.Len(t, p.urls, 1)
		assert.Equal(t, render.FileURL(htmlPath), p.urls[0])
		assert.True(t, strings.HasPrefix(p.urls[0], "file:///"))
		assert.True(t, p.deadline)
		data, err := os.ReadFile(pdfPath)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(data))
	})

	t.Run("printer failure is a render error", func(t *testing.T) {
		t.Parallel()
		c := &render.Chromium{Printer: &fakePrinter{err: errors.New("navigation failed")}}

		err := c.Render(context.Background(), "a.html", filepath.Join(t.TempDir(), "a.pdf"))
		require.ErrorIs(t, err, core.ErrRender)
	})

	t.Run("empty output is a render error", func(t *testing.T) {
		t.Parallel()
		c := &render.Chromium{Printer: &fakePrinter{}}

		err := c.Render(context.Background(), "a.html", filepath.Join(t.TempDir(), "a.pdf"))
		require.ErrorIs(t, err, core.ErrRender)
	})

	t.Run("close reaches the printer", func(t *testing.T) {
		t.Parallel()
		p := &fakePrinter{}
		c := &render.Chromium{Printer: p}

		require.NoError(t, c.Close())
		assert.True(t, p.closed)
	})
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file:///tmp/book/00_A%20B.html", render.FileURL("/tmp/book/00_A B.html"))
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	pdfPath := filepath.Join(t.TempDir(), "03_Broken.pdf")
	err := render.Placeholder(pdfPath, "Chapter 3. Café", "https://example.com/book/ch3", errors.New("fetch failed"))
	require.NoError(t, err)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
