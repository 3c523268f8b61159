package book_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/bookmerge/core"
)

// mapFetcher serves pages by URL and counts calls.
type mapFetcher struct {
	pages map[string]string
	calls []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, core.ErrFetch
	}
	return &core.FetchResult{URL: url, Body: []byte(body)}, nil
}

// fakeRenderer copies the HTML path into the PDF so files exist on disk.
type fakeRenderer struct {
	rendered []string
	err      error
}

func (r *fakeRenderer) Render(_ context.Context, htmlPath, pdfPath string) error {
	if r.err != nil {
		return r.err
	}
	r.rendered = append(r.rendered, filepath.Base(pdfPath))
	return os.WriteFile(pdfPath, []byte("%PDF-fake "+htmlPath), 0644)
}

// fakeToolkit reports page counts by PDF file name and records merges.
type fakeToolkit struct {
	pages        map[string]int
	merged       []string
	mergedOut    string
	bookmarkedIn string
	entries      []core.BookmarkEntry
	output       string
	mergeErr     error
}

func newFakeToolkit(pages map[string]int) *fakeToolkit {
	return &fakeToolkit{pages: pages}
}

func (t *fakeToolkit) PageCount(_ context.Context, pdfPath string) (int, error) {
	n, ok := t.pages[filepath.Base(pdfPath)]
	if !ok {
		return 0, core.ErrRender
	}
	return n, nil
}

func (t *fakeToolkit) Merge(_ context.Context, pdfPaths []string, outPath string) error {
	if t.mergeErr != nil {
		return t.mergeErr
	}
	t.merged = pdfPaths
	t.mergedOut = outPath
	return nil
}

func (t *fakeToolkit) WriteBookmarks(_ context.Context, pdfPath string, entries []core.BookmarkEntry, outPath string) error {
	t.bookmarkedIn = pdfPath
	t.entries = entries
	t.output = outPath
	return os.WriteFile(outPath, []byte("%PDF-merged"), 0644)
}
