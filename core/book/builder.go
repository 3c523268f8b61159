// Package book builds one merged, bookmarked PDF per web book.
//
// The flow is strictly sequential: discover chapter links, then for each
// chapter fetch → extract → write HTML → render → count pages, and finally
// merge every chapter document and write the outline.
package book

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/gaurav-prasanna/bookmerge/core/output"
	"github.com/gaurav-prasanna/bookmerge/core/render"
	"github.com/gaurav-prasanna/bookmerge/crawl"
)

// Stylesheet is embedded at the top of every chapter page.
//
//go:embed style.css
var Stylesheet string

// Builder turns chapter links of one book into measured PDF documents.
type Builder struct {
	Fetcher   core.Fetcher
	Extractor core.Extractor
	Renderer  core.Renderer
	Toolkit   core.Toolkit
	Layout    *output.Layout
	Origin    string
	IndexPath string
}

// Build writes, renders, and measures the chapter at link.
func (b *Builder) Build(ctx context.Context, link core.ChapterLink, ordinal int) (*core.RenderedChapter, error) {
	ch := b.chapter(link, ordinal)

	chapterURL, err := crawl.ResolveChapterURL(b.Origin, link.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFetch, err)
	}
	page, err := b.Fetcher.Fetch(ctx, chapterURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", chapterURL, err)
	}

	if err := b.writeHTML(ch.HTMLPath, page.Body); err != nil {
		return nil, fmt.Errorf("chapter %s: %w", ch.SanitizedName, err)
	}
	if err := b.Renderer.Render(ctx, ch.HTMLPath, ch.PDFPath); err != nil {
		return nil, fmt.Errorf("chapter %s: %w", ch.SanitizedName, err)
	}
	pages, err := b.Toolkit.PageCount(ctx, ch.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("chapter %s: %w", ch.SanitizedName, err)
	}
	ch.PageCount = pages
	return ch, nil
}

// Placeholder stands in for a chapter that failed to build.
func (b *Builder) Placeholder(link core.ChapterLink, ordinal int, cause error) (*core.RenderedChapter, error) {
	ch := b.chapter(link, ordinal)
	if err := render.Placeholder(ch.PDFPath, link.Title, link.URL, cause); err != nil {
		return nil, err
	}
	ch.HTMLPath = ""
	ch.PageCount = render.PlaceholderPages
	ch.Placeholder = true
	return ch, nil
}

func (b *Builder) chapter(link core.ChapterLink, ordinal int) *core.RenderedChapter {
	name := output.SanitizedName(ordinal, link.Title)
	return &core.RenderedChapter{
		Ordinal:       ordinal,
		SanitizedName: name,
		HTMLPath:      b.Layout.ChapterHTML(name),
		PDFPath:       b.Layout.ChapterPDF(name),
		Level:         crawl.LevelOf(link.URL, b.IndexPath),
		Title:         link.Title,
	}
}

const charsetMeta = `<meta charset="utf-8">`

// writeHTML writes the charset declaration and stylesheet, then the extracted content.
func (b *Builder) writeHTML(path string, page []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	// Extracted text is UTF-8 regardless of the source page's encoding.
	if _, err := w.WriteString(charsetMeta + "<style>" + Stylesheet + "</style>"); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := b.Extractor.Extract(page, w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
