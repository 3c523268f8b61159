package normalize_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/gaurav-prasanna/bookmerge/core/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	md, err := normalize.New().Normalize(`<h2>Shading</h2><p>Use <strong>bold</strong> and <code>code</code>.</p>`)
	require.NoError(t, err)
	assert.Contains(t, md, "## Shading")
	assert.Contains(t, md, "**bold**")
	assert.Contains(t, md, "`code`")
}

func TestMarkdownNormalizer_Export(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, html string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(html), 0644))
		return p
	}

	chapters := []core.RenderedChapter{
		{Title: "Part I", Level: core.LevelTop, HTMLPath: write("00.html", "<p>Intro text</p>")},
		{Title: "Water", Level: core.LevelSub, HTMLPath: write("01.html", "<p>Waves</p>")},
		{Title: "Broken", Level: core.LevelTop, Placeholder: true},
	}

	var b strings.Builder
	require.NoError(t, normalize.New().Export(&b, chapters))

	want := "# Part I\n\nIntro text\n\n## Water\n\nWaves\n\n# Broken\n\n_This chapter could not be built._\n"
	assert.Equal(t, want, b.String())
}

func TestExportFile_MissingChapterHTML(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "book.md")
	err := normalize.ExportFile(out, []core.RenderedChapter{
		{Title: "Gone", Level: core.LevelTop, HTMLPath: filepath.Join(t.TempDir(), "missing.html")},
	})
	require.Error(t, err)
}
