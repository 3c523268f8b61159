package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/gaurav-prasanna/bookmerge/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	body string
	err  error
}

func (f staticFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &core.FetchResult{URL: url, Body: []byte(f.body)}, nil
}

const indexPage = `<html><body>
<nav><a href="/">Home</a><a href="/gpugems/other/">Other book</a></nav>
<ul>
<li><a href="/gpugems/book/foreword">Foreword</a></li>
<li><a href="/gpugems/book/part-i">Part I:
    Natural Effects</a></li>
<li><a href="/gpugems/book/part-i/chapter-1">Chapter 1. Water</a></li>
<li><a href="https://example.com/gpugems/book/abs">Absolute</a></li>
<li><a href="/gpugems/book/foreword">Foreword</a></li>
</ul>
</body></html>`

func TestDiscoverChapters(t *testing.T) {
	t.Parallel()

	t.Run("keeps matching links in order with duplicates", func(t *testing.T) {
		t.Parallel()

		links, err := crawl.DiscoverChapters(context.Background(), staticFetcher{body: indexPage},
			"https://example.com/gpugems/book/", "/gpugems/book/")
		require.NoError(t, err)

		want := []core.ChapterLink{
			{URL: "/gpugems/book/foreword", Title: "Foreword", Level: core.LevelTop},
			{URL: "/gpugems/book/part-i", Title: "Part I: Natural Effects", Level: core.LevelTop},
			{URL: "/gpugems/book/part-i/chapter-1", Title: "Chapter 1. Water", Level: core.LevelSub},
			{URL: "/gpugems/book/foreword", Title: "Foreword", Level: core.LevelTop},
		}
		assert.Equal(t, want, links)
	})

	t.Run("no matching links is an empty result", func(t *testing.T) {
		t.Parallel()

		links, err := crawl.DiscoverChapters(context.Background(), staticFetcher{body: `<a href="/x">x</a>`},
			"https://example.com/gpugems/book/", "/gpugems/book/")
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("fetch errors propagate", func(t *testing.T) {
		t.Parallel()

		_, err := crawl.DiscoverChapters(context.Background(),
			staticFetcher{err: errors.Join(core.ErrFetch, errors.New("offline"))},
			"https://example.com/gpugems/book/", "/gpugems/book/")
		require.ErrorIs(t, err, core.ErrFetch)
	})
}
