package book

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gaurav-prasanna/bookmerge/core"
)

const mergedFileName = "merged.pdf"

// Assembler merges chapter documents and writes the bookmark outline.
type Assembler struct {
	Toolkit    core.Toolkit
	ScratchDir string
}

// Assemble merges chapters in order and writes the bookmarked result to
// outPath, which it returns.
func (a *Assembler) Assemble(ctx context.Context, chapters []core.RenderedChapter, outPath string) (string, error) {
	if len(chapters) == 0 {
		return "", fmt.Errorf("%w: book has no chapters", core.ErrMerge)
	}

	pdfs := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		pdfs = append(pdfs, ch.PDFPath)
	}
	merged := filepath.Join(a.ScratchDir, mergedFileName)
	if err := a.Toolkit.Merge(ctx, pdfs, merged); err != nil {
		return "", err
	}
	if err := a.Toolkit.WriteBookmarks(ctx, merged, Bookmarks(chapters), outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// Bookmarks lays chapters end to end: the first starts on page 1 and each
// following chapter starts after the previous one's pages.
func Bookmarks(chapters []core.RenderedChapter) []core.BookmarkEntry {
	entries := make([]core.BookmarkEntry, 0, len(chapters))
	start := 1
	for _, ch := range chapters {
		entries = append(entries, core.BookmarkEntry{
			Level:     ch.Level,
			PageStart: start,
			Title:     ch.Title,
		})
		start += ch.PageCount
	}
	return entries
}
